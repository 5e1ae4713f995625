// Package server wires the desktop backend together: configuration,
// logging, metrics, tracing, the application registry, the session gate,
// collaborator services, the Gin router and the optional gRPC health
// endpoint.
package server
