package registry

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

var (
	ErrInvalidDescriptor    = errors.New("invalid application descriptor")
	ErrDuplicateApplication = errors.New("duplicate application id")
	ErrUnknownContent       = errors.New("unknown content provider")
)

type entry struct {
	desc    types.ApplicationDescriptor
	content ContentProvider
}

// Manager is the read-only application registry.
// All fields are written once in NewManager; it is safe for concurrent readers.
type Manager struct {
	entries map[string]*entry
	order   []string
}

// NewManager validates descriptors and resolves their content providers
func NewManager(descs []types.ApplicationDescriptor, catalog Catalog) (*Manager, error) {
	m := &Manager{
		entries: make(map[string]*entry, len(descs)),
		order:   make([]string, 0, len(descs)),
	}

	for i, desc := range descs {
		if err := validate(desc); err != nil {
			return nil, fmt.Errorf("application %d (%q): %w", i, desc.ID, err)
		}
		if _, exists := m.entries[desc.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateApplication, desc.ID)
		}

		key := desc.Content
		if key == "" {
			key = ContentPlaceholder
		}
		provider, ok := catalog[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q for application %s", ErrUnknownContent, key, desc.ID)
		}

		desc.Content = key
		m.entries[desc.ID] = &entry{desc: desc, content: provider}
		m.order = append(m.order, desc.ID)
	}

	return m, nil
}

// Load builds the registry from a manifest file, or from the builtin
// catalogue when path is empty
func Load(path string, catalog Catalog) (*Manager, error) {
	descs := Builtin()
	if path != "" {
		loaded, err := LoadManifest(path)
		if err != nil {
			return nil, err
		}
		descs = loaded
	}
	return NewManager(descs, catalog)
}

func validate(desc types.ApplicationDescriptor) error {
	switch {
	case desc.ID == "":
		return fmt.Errorf("%w: id is required", ErrInvalidDescriptor)
	case desc.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidDescriptor)
	case desc.DefaultWidth <= 0 || desc.DefaultHeight <= 0:
		return fmt.Errorf("%w: default size must be positive", ErrInvalidDescriptor)
	}
	return nil
}

// Lookup returns the descriptor for an application id
func (m *Manager) Lookup(appID string) (types.ApplicationDescriptor, bool) {
	e, ok := m.entries[appID]
	if !ok {
		return types.ApplicationDescriptor{}, false
	}
	return e.desc, true
}

// Content returns the content provider resolved for an application id
func (m *Manager) Content(appID string) (ContentProvider, bool) {
	e, ok := m.entries[appID]
	if !ok {
		return nil, false
	}
	return e.content, true
}

// Has reports whether appID is registered
func (m *Manager) Has(appID string) bool {
	_, ok := m.entries[appID]
	return ok
}

// List returns all descriptors in catalogue order
func (m *Manager) List() []types.ApplicationDescriptor {
	out := make([]types.ApplicationDescriptor, 0, len(m.order))
	for _, appID := range m.order {
		out = append(out, m.entries[appID].desc)
	}
	return out
}

// Info returns the public view of every entry in catalogue order
func (m *Manager) Info() []types.ApplicationInfo {
	out := make([]types.ApplicationInfo, 0, len(m.order))
	for _, appID := range m.order {
		e := m.entries[appID]
		out = append(out, types.ApplicationInfo{
			ID:            e.desc.ID,
			Title:         e.desc.Title,
			Icon:          e.desc.Icon,
			DefaultWidth:  e.desc.DefaultWidth,
			DefaultHeight: e.desc.DefaultHeight,
			Singleton:     e.desc.Singleton,
			Component:     e.content.Component(),
			Services:      e.content.Services(),
		})
	}
	return out
}

// Len returns the number of registered applications
func (m *Manager) Len() int {
	return len(m.order)
}
