// Package ws streams desktop frames over WebSocket.
//
// A client connects to /stream?token=<session token>. The server pushes a
// frame on connect and after every change to the session's window set;
// bursts of changes are coalesced into the latest frame.
//
// Message Types (Client → Server):
//   - open: {app_id}
//   - close, minimize, maximize, focus: {window_id}
//   - move: {window_id, x, y}
//   - resize: {window_id, width, height}
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - frame: Projected desktop frame
//   - ack: Command result with applied flag
//   - pong: Ping reply
//   - error: Unknown command or application
//
// Example Usage:
//
//	handler := ws.NewHandler(sessions, apps, viewport, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
