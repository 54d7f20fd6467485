// Package server manages HTTP listener lifecycle: non-blocking start,
// graceful shutdown with a drain window, and signal handling.
package server
