// Package desktop projects a window snapshot into the frame the browser
// client renders. Project is a pure function; it is recomputed after
// every window manager change.
package desktop
