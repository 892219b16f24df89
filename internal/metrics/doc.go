// Package metrics counts catalog requests and registration outcomes for a
// single sync run.
//
// A run is a batch job, so nothing is served over HTTP. When the user asks
// for it the registry is written once, at exit, in the node_exporter
// textfile format.
package metrics
