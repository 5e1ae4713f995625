// Package types provides shared data structures for the NexusOS backend.
//
// Core Types:
//   - Window: One open application instance with geometry and stacking
//   - Snapshot: Immutable view of the whole window set
//   - ApplicationDescriptor: Registry entry loaded at startup
//   - Service, Tool, Result: Collaborator contract used by window content
//
// Request Types:
//   - LoginRequest: Session gate credential
//   - OpenRequest, MoveRequest, ResizeRequest: Window commands
//   - ExecuteRequest: Collaborator tool execution
//   - WSMessage: WebSocket commands
//
// Example Usage:
//
//	snap := manager.Snapshot()
//	if w, ok := snap.Find(windowID); ok {
//	    fmt.Println(w.Title, w.Stacking)
//	}
package types
