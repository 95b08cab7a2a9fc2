// Package config loads mockwire settings and seed mock files.
//
// Settings come from four layers, highest priority first: command-line
// flags, MOCKWIRE_* environment variables, a YAML file, then Default.
// This package handles the lower three:
//
//	cfg, err := config.Load("mockwire.yaml")
//	if err != nil {
//	    return err
//	}
//	config.ApplyEnv(cfg)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// A config file looks like:
//
//	addr: 127.0.0.1:4280
//	concurrent: false
//	maxConns: 0
//	readTimeout: 0s
//	writeTimeout: 0s
//	probeTimeout: 100ms
//	log:
//	  level: info
//	  format: text
//	mocks:
//	  - mocks/*.yaml
//	  - fixtures/**/*.yml
//
// Values may reference the environment as ${VAR} or ${VAR:-default}.
//
// Seed mock files use the same document shape as POST /mocks, written in
// YAML or JSON, and hold either one mock or a list of mocks:
//
//	- id: hello
//	  request: {method: GET, path: /hello}
//	  response:
//	    status: 200
//	    headers:
//	      - [Content-Type, text/plain]
//	    body: hi
package config
