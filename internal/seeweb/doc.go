// Package seeweb is a client for the SEEweb catalog REST endpoints.
//
// A Client holds a cookie jar, so a successful Login authenticates every
// later call made through it. Calls are synchronous and never retried.
// Transport failures and non-2xx answers are reported as *StatusError or
// wrapped ErrRemote; a register call the server refuses is an *APIError.
// Missing objects and ambiguous names use the ro error categories.
package seeweb
