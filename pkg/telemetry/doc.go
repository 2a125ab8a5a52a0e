// Package telemetry provides component.Observer implementations.
//
// Metrics exports lifecycle counters to Prometheus:
//
//	m := telemetry.NewMetrics(telemetry.WithNamespace("shop"))
//	mgr := component.New[*html.Node](doc, component.WithObserver(m))
//	http.Handle("/metrics", promhttp.Handler())
//
// Hub streams lifecycle events as JSON to WebSocket clients, which is handy
// when watching a long-running process reconcile a document:
//
//	hub := telemetry.NewHub()
//	mgr := component.New[*html.Node](doc, component.WithObserver(hub))
//	http.HandleFunc("/events", hub.HandleWebSocket)
//
// Both are safe for concurrent use, so one instance may observe many managers.
package telemetry
