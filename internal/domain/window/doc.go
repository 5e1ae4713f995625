// Package window implements the window manager of the NexusOS desktop.
//
// The Manager owns the canonical set of live windows, the focused window and
// the global stacking counter. Every lifecycle operation (open, close,
// minimize, toggle-maximize, focus, move, resize) runs to completion under
// one lock and publishes a brand-new immutable Snapshot, so readers only ever
// observe the state before or after an operation.
//
// Stacking:
//   - One counter per manager, incremented exactly once per open/focus
//   - Values are never reused, even after the owning window closes
//   - The focused window always carries the highest value
//
// Failure Semantics:
//   - Open with an unknown application returns ErrUnknownApplication
//   - Every other operation on a missing window is a silent no-op that
//     returns false (stale ids are expected when UI events race)
//
// Example Usage:
//
//	wm := window.NewManager(reg).WithLogger(logger.Logger).WithMetrics(metrics)
//	winID, err := wm.Open("settings")
//	wm.ToggleMaximize(winID)
//	unsubscribe := wm.Subscribe(func(s types.Snapshot) { push(s) })
package window
