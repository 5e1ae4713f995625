// Package session gates access to the desktop and tracks one window set
// per login.
//
// A Gate holds bcrypt hashes of the accepted passwords. Manager.Login
// consults it once; on success the caller receives a bearer token bound
// to a fresh Desktop (window manager plus dock). Logout closes every
// window, so layout never survives a session.
//
// Example Usage:
//
//	gate, err := session.NewGate(cfg.Gate.Passwords, 0)
//	sessions := session.NewManager(gate, reg, logger)
//	desktop, err := sessions.Login("admin")
//	desktop.Windows.Open("finder")
package session
