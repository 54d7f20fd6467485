// Package handlers implements the HTTP endpoint handlers: health probes,
// version info, and contract validation endpoints.
package handlers
