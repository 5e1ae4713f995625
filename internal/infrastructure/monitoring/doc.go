/*
Package monitoring provides metrics collection for the NexusOS backend.

# Overview

Prometheus metrics live on a per-instance registry and cover HTTP
requests, window manager operations, collaborator service calls, desktop
sessions and WebSocket connections.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	wm := window.NewManager(reg).WithMetrics(metrics)

	timer := monitoring.NewTimer(metrics, "storage", "storage.list")
	// ... perform operation ...
	timer.Stop("success")
*/
package monitoring
