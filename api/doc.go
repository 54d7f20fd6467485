// Package api defines the canonical HTTP response envelope and the helpers
// that write it. Every endpoint, success or failure, responds with the same
// envelope shape.
//
// Contract violations surface as 400s carrying the violated field and rule;
// anything else is an opaque 500 so internals never leak to clients.
package api
