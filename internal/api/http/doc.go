// Package http provides the Gin handlers for the desktop REST API.
//
// Session routes run the gate; every window, dock and service execution
// route acts on the desktop bound to the caller's bearer token.
//
// Routes:
//   - POST /session/login, POST /session/logout
//   - GET /desktop: projected frame for the client
//   - GET|POST /windows, DELETE /windows/:id
//   - POST /windows/:id/{minimize,maximize,focus}
//   - PUT /windows/:id/position, PUT /windows/:id/size
//   - GET /dock, POST /dock/:app_id
//   - GET /registry/apps, GET /services, POST /services/execute
//   - GET /health
//
// Window mutators on a stale id answer 200 with applied=false; opening an
// unknown application answers 422.
package http
