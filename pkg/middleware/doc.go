// Package middleware provides net/http middleware for the abs inspection
// service.
//
// Tracing opens an OpenTelemetry server span per request and stores it in
// the request context, so component manager spans started from a handler
// become its children:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Tracing(
//	    middleware.WithTracerName("abs-server"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//	r.Use(middleware.Logger(logger))
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// passed with WithTracer. Configure the provider in main() before starting
// the server.
package middleware
