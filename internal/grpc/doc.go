// Package grpc exposes the standard gRPC health protocol for the desktop
// backend.
//
// HealthServer publishes one status per registered check (the desktop
// service and the assistant collaborator) plus the overall "" service,
// refreshed on an interval. Every RPC runs through the tracing
// interceptors. HealthClient is used by the CLI to probe a running
// server.
//
// Example Usage:
//
//	hs := grpc.NewHealthServer(tracer, logger)
//	hs.Register(grpc.ServiceDesktop, func() bool { return true })
//	hs.Watch(10 * time.Second)
//	go hs.ListenAndServe("0.0.0.0:50051")
//
//	client, err := grpc.NewHealthClient("localhost:50051")
//	status, err := client.Check(ctx, grpc.ServiceDesktop)
package grpc
