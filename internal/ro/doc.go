// Package ro defines the Reusable Object records exchanged with the SEEweb
// catalog, the in-memory store used to resolve references during a run,
// and the error categories shared by the resolver, client and uploader.
package ro
