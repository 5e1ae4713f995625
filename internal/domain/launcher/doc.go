// Package launcher implements the dock: a derived view over a desktop's
// window set that renders open indicators and turns icon clicks into
// window manager opens.
package launcher
