// Package config loads rmx project configuration.
//
// Configuration lives in rmx.json, rmx.yaml or rmx.yml at the project
// root. Load searches the given directory and its parents; LoadFile reads a
// specific file and picks the decoder by extension. Missing fields take
// their defaults and the result is validated before it is returned.
//
// # Configuration File Structure
//
//	{
//	  "name": "inbox",
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "framePrefix": "/frames/",
//	    "clientScript": "/static/rmx.js"
//	  },
//	  "log": {"level": "info", "format": "text"},
//	  "render": {"pretty": false},
//	  "hydrate": {"concurrency": 4},
//	  "metrics": {"namespace": "rmx", "path": "/metrics"},
//	  "demo": "inbox"
//	}
//
// The same document in YAML:
//
//	server:
//	  port: 8080
//	log:
//	  level: debug
//	  format: json
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
