// Package progress provides the event primitives and emitter that pipeline
// stages use to report what happened to each URL. Events are delivered
// synchronously to pluggable sinks such as structured logs, Prometheus
// collectors, or an in-memory recorder.
package progress
