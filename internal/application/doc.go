// Package application provides application initialization and dependency wiring.
// It builds the editor storage, the packing engine, the metrics recorder,
// handlers, routers and the HTTP server, leaving the main package to CLI
// parsing and orchestration.
package application
