// Package config handles configuration loading for the folio site server.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from FOLIO_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/folio/site.yaml
//  3. ~/.config/folio/site.yaml
//
// FOLIO_DB_PATH, when set, overrides database.path.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${FOLIO_JWT_SECRET}"
//
// Unset variables expand to the empty string.
//
// # Configuration Sections
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
//	database:
//	  path: "/var/lib/folio/site.db"
//
//	auth:
//	  jwt_secret: "${FOLIO_JWT_SECRET}"        # admin API tokens
//
//	revalidation:
//	  secret: "${FOLIO_REVALIDATE_SECRET}"     # POST /api/revalidate
//	  deploy_hook_url: ""                      # optional POST after a full revalidation
//	  warm_paths: ["/work"]
//
//	cache:
//	  ttl: "10m"
//	  max_entries: 1000
//
//	site:
//	  base_url: "https://example.com"
//	  title: "Portfolio"
//
//	tailscale:
//	  enabled: false
//	  hostname: "folio"
//	  auth_key: "${TS_AUTHKEY}"
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
//	metrics:
//	  enabled: true
//	  path: "/metrics"
//
// # Validation
//
// Load() validates secret lengths (32 bytes minimum when set), URL schemes,
// duration syntax and enum values.
package config
