// Package cli provides the mockwire command-line interface.
//
//   - serve: run a mockwire server in the foreground
//   - add: register mocks from YAML or JSON files with a running server
//   - delete: remove one mock by id, or all mocks
//   - validate: check mock files and config files offline
//   - version: print build information
//
// Commands that talk to a server resolve its address from --addr, then
// MOCKWIRE_ADDR, then the built-in default.
package cli
