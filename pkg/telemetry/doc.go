// Package telemetry holds the Prometheus collectors and OpenTelemetry
// tracer used by the fleet service and the HTTP server.
package telemetry
