package storage

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	// ErrInvalidPath means a path of ids does not lead to a folder
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidName means an item name is empty or contains a separator
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidPattern means a search glob cannot be parsed
	ErrInvalidPattern = errors.New("invalid search pattern")
)

// Kind distinguishes folders from files
type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
)

const dateLayout = "2006-01-02"

// Item is a node of the storage tree
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Kind     Kind    `json:"type"`
	Size     string  `json:"size,omitempty"`
	Date     string  `json:"date,omitempty"`
	MIME     string  `json:"mime,omitempty"`
	Content  string  `json:"content,omitempty"`
	Children []*Item `json:"children,omitempty"`
}

// Match is one search hit
type Match struct {
	Path []string `json:"path"` // Ids of the containing folders
	Name string   `json:"name"` // Slash-joined names from the root
	Item Item     `json:"item"`
}

// Tree is the mock file system shown by the file manager. Every mutation
// is handed to the persist hook when one is set.
type Tree struct {
	mu      sync.RWMutex
	root    []*Item
	now     func() time.Time
	persist func([]*Item) error
}

// NewTree creates a tree from existing items, or the initial layout when
// items is nil
func NewTree(items []*Item) *Tree {
	if items == nil {
		items = InitialItems()
	}
	return &Tree{root: items, now: time.Now}
}

// InitialItems returns the tree a fresh installation starts with
func InitialItems() []*Item {
	file := func(name, size, date string) *Item {
		return &Item{ID: uuid.NewString(), Name: name, Kind: KindFile, Size: size, Date: date}
	}
	folder := func(name, date string, children ...*Item) *Item {
		return &Item{ID: uuid.NewString(), Name: name, Kind: KindFolder, Date: date, Children: children}
	}

	return []*Item{
		folder("Sector_7", "2124-10-24",
			file("Blueprint_X.cad", "128 MB", "2124-10-24"),
			file("Log_Entry_404.txt", "2 KB", "2124-10-22"),
		),
		folder("Media_Core", "2124-10-20",
			file("Nebula_Scan.raw", "4.2 GB", "2124-10-20"),
			file("Avatar_Config.dat", "15 MB", "2124-09-15"),
		),
		folder("Root", "Today",
			file("kernel_panic.log", "42 KB", "Today"),
		),
	}
}

// Children lists the items of the folder at path. An unknown path lists
// nothing.
func (t *Tree) Children(path []string) []Item {
	t.mu.RLock()
	defer t.mu.RUnlock()

	dir, ok := t.resolve(path)
	if !ok {
		return []Item{}
	}
	out := make([]Item, 0, len(*dir))
	for _, item := range *dir {
		out = append(out, item.clone())
	}
	return out
}

// CreateFolder adds an empty folder under path
func (t *Tree) CreateFolder(path []string, name string) (Item, error) {
	if err := validName(name); err != nil {
		return Item{}, err
	}

	return t.insert(path, &Item{
		ID:       uuid.NewString(),
		Name:     name,
		Kind:     KindFolder,
		Size:     "--",
		Date:     t.now().Format(dateLayout),
		Children: []*Item{},
	})
}

// CreateFile adds a file under path; its type is sniffed from content
func (t *Tree) CreateFile(path []string, name, content string) (Item, error) {
	if err := validName(name); err != nil {
		return Item{}, err
	}

	return t.insert(path, &Item{
		ID:      uuid.NewString(),
		Name:    name,
		Kind:    KindFile,
		Size:    FormatSize(len(content)),
		Date:    t.now().Format(dateLayout),
		MIME:    mimetype.Detect([]byte(content)).String(),
		Content: content,
	})
}

// DeleteItem removes the item with itemID from the folder at path.
// Deleting something absent is a no-op reported as false.
func (t *Tree) DeleteItem(path []string, itemID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	dir, ok := t.resolve(path)
	if !ok {
		return false, nil
	}
	for i, item := range *dir {
		if item.ID == itemID {
			*dir = append((*dir)[:i:i], (*dir)[i+1:]...)
			return true, t.save()
		}
	}
	return false, nil
}

// Search matches a doublestar glob against slash-joined item names, e.g.
// "**/*.log" or "Sector_7/*"
func (t *Tree) Search(pattern string) ([]Match, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	matches := []Match{}
	var walk func(items []*Item, ids, names []string)
	walk = func(items []*Item, ids, names []string) {
		for _, item := range items {
			full := strings.Join(append(names, item.Name), "/")
			if ok, _ := doublestar.Match(pattern, full); ok {
				hit := item.clone()
				hit.Children = nil
				matches = append(matches, Match{
					Path: append([]string{}, ids...),
					Name: full,
					Item: hit,
				})
			}
			if item.Kind == KindFolder {
				walk(item.Children, append(ids, item.ID), append(names, item.Name))
			}
		}
	}
	walk(t.root, nil, nil)
	return matches, nil
}

// Snapshot returns a deep copy of the whole tree
func (t *Tree) Snapshot() []*Item {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return cloneItems(t.root)
}

func (t *Tree) insert(path []string, item *Item) (Item, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	dir, ok := t.resolve(path)
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrInvalidPath, strings.Join(path, "/"))
	}
	*dir = append(*dir, item)
	return item.clone(), t.save()
}

// resolve walks a path of folder ids (must hold lock)
func (t *Tree) resolve(path []string) (*[]*Item, bool) {
	dir := &t.root
	for _, id := range path {
		var next *[]*Item
		for _, item := range *dir {
			if item.ID == id && item.Kind == KindFolder {
				next = &item.Children
				break
			}
		}
		if next == nil {
			return nil, false
		}
		dir = next
	}
	return dir, true
}

// save runs the persist hook (must hold lock)
func (t *Tree) save() error {
	if t.persist == nil {
		return nil
	}
	return t.persist(t.root)
}

func (i *Item) clone() Item {
	out := *i
	if i.Children != nil {
		out.Children = cloneItems(i.Children)
	}
	return out
}

func cloneItems(items []*Item) []*Item {
	out := make([]*Item, 0, len(items))
	for _, item := range items {
		c := item.clone()
		out = append(out, &c)
	}
	return out
}

func validName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// FormatSize renders a byte count the way the file manager lists sizes.
// Anything under a kilobyte shows as "1 KB".
func FormatSize(n int) string {
	const unit = 1024
	switch {
	case n < unit:
		return "1 KB"
	case n < unit*unit:
		return fmt.Sprintf("%d KB", (n+unit-1)/unit)
	case n < unit*unit*unit:
		return trimZero(float64(n)/(unit*unit)) + " MB"
	default:
		return trimZero(float64(n)/(unit*unit*unit)) + " GB"
	}
}

func trimZero(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}
