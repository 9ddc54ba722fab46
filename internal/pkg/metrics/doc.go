// Package metrics records RSA engine activity as Prometheus metrics.
package metrics
