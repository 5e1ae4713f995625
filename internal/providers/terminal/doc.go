// Package terminal provides the console behind terminal windows.
//
// Each window opens its own session. Commands run in-process against a
// fixed command set; no shell or PTY is spawned.
//
// Commands:
//   - help: list commands
//   - clear: wipe the scrollback
//   - date: current time
//   - whoami: session user
//   - reboot: ask the client to reload the desktop
//   - ai: point at the assistant
//
// Anything else answers "Command not found: <command>".
//
// Tools:
//   - terminal.create_session: Open a console
//   - terminal.execute: Run one command line
//   - terminal.history: Read the scrollback
//   - terminal.list_sessions: List open consoles
//   - terminal.get_session: Session info
//   - terminal.kill: Close a console
package terminal
