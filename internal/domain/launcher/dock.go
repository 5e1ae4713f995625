package launcher

import (
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// Windows is the part of the window manager the dock reads and drives
type Windows interface {
	Snapshot() types.Snapshot
	Open(appID string) (string, error)
}

// Catalog lists launchable applications in dock order
type Catalog interface {
	List() []types.ApplicationDescriptor
}

// Entry is one dock icon
type Entry struct {
	AppID   string `json:"app_id"`
	Title   string `json:"title"`
	Icon    string `json:"icon"`
	Open    bool   `json:"open"`
	Windows int    `json:"windows"`
}

// Dock is a stateless view over the window set. Every call recomputes
// from the current snapshot.
type Dock struct {
	windows Windows
	catalog Catalog
}

// New creates a dock for one desktop
func New(windows Windows, catalog Catalog) *Dock {
	return &Dock{windows: windows, catalog: catalog}
}

// Entries returns one entry per application in catalogue order
func (d *Dock) Entries() []Entry {
	return Entries(d.windows.Snapshot(), d.catalog)
}

// OpenApps returns the distinct application ids with at least one live
// window, minimized ones included, in catalogue order
func (d *Dock) OpenApps() []string {
	return OpenApps(d.windows.Snapshot(), d.catalog)
}

// Select handles a click on a dock icon. Whether the application is
// already open, minimized or not running is decided by Open.
func (d *Dock) Select(appID string) (string, error) {
	return d.windows.Open(appID)
}

// Entries computes dock entries for a snapshot
func Entries(snap types.Snapshot, catalog Catalog) []Entry {
	counts := countByApp(snap)

	apps := catalog.List()
	entries := make([]Entry, 0, len(apps))
	for _, app := range apps {
		n := counts[app.ID]
		entries = append(entries, Entry{
			AppID:   app.ID,
			Title:   app.Title,
			Icon:    app.Icon,
			Open:    n > 0,
			Windows: n,
		})
	}
	return entries
}

// OpenApps computes the open indicator set for a snapshot
func OpenApps(snap types.Snapshot, catalog Catalog) []string {
	counts := countByApp(snap)

	open := []string{}
	for _, app := range catalog.List() {
		if counts[app.ID] > 0 {
			open = append(open, app.ID)
		}
	}
	return open
}

func countByApp(snap types.Snapshot) map[string]int {
	counts := make(map[string]int, len(snap.Windows))
	for _, w := range snap.Windows {
		counts[w.AppID]++
	}
	return counts
}
