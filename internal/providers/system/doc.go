// Package system provides the desktop shell's system service: the dock
// clock and date widget, runtime information and a bounded log sink that
// window content can write to.
package system
