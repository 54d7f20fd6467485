// Command xulcan runs the validation service: HTTP endpoints that
// check conversations, blueprints, tool definitions and usage reports
// against the unified data contracts.
//
// Usage:
//
//	xulcan serve                     # start the service
//	xulcan serve --config cfg.yaml   # with an explicit config file
//	xulcan version                   # print build identity
//	xulcan health                    # probe a running instance
package main
