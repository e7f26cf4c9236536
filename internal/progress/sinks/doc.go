// Package sinks implements concrete progress consumers: structured logging,
// Prometheus collectors, and an in-memory recorder. Each sink satisfies the
// progress.Sink interface and is safe for repeated Consume/Close cycles.
package sinks
