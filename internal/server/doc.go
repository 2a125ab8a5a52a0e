// Package server implements the abs inspection service.
//
// Routes:
//
//	POST /scan     HTML body in, JSON inspect.Result out
//	GET  /healthz  liveness probe
//	GET  /metrics  Prometheus metrics
//	GET  /events   WebSocket stream of lifecycle events
//
// Every request to /scan gets its own document and component manager.
// Metrics and the event hub are shared across requests.
package server
