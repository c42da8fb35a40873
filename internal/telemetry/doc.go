// Package telemetry holds the Prometheus collectors and OpenTelemetry
// helpers shared by the reconciler, the hydration client and the CLI.
//
//	m := telemetry.NewMetrics(telemetry.WithNamespace("app"))
//	root := reconcile.CreateRoot(el, reconcile.WithMetrics(m))
//
// Spans come from the global tracer provider unless a tracer is supplied.
package telemetry
