/*
Package tracing provides lightweight request tracing.

Spans carry ULID-based trace and span ids, propagate through the
X-Trace-ID / X-Span-ID headers (or the matching gRPC metadata) and are
logged through zap by a buffered background collector.

# Usage

	tracer := tracing.New("nexus", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	server := grpc.NewServer(
		grpc.UnaryInterceptor(tracing.GRPCUnaryInterceptor(tracer)),
		grpc.StreamInterceptor(tracing.GRPCStreamInterceptor(tracer)),
	)

Outgoing collaborator calls copy the trace with InjectTraceContext.
*/
package tracing
