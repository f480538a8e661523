// Package config handles configuration loading for focusflow.
//
// # Overview
//
// Configuration is loaded from a YAML file with environment variable
// expansion and duration parsing, then validated before use.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${FOCUSFLOW_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//	  shutdown_timeout: "5s"
//
// Database:
//
//	database:
//	  path: "/var/lib/focusflow/focusflow.db"
//
// Authentication and session cookie:
//
//	auth:
//	  jwt_secret: "${FOCUSFLOW_JWT_SECRET}"
//
//	cookie:
//	  secure: true
//	  domain: "focus.example.com"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() requires server.http_addr, database.path, and auth.jwt_secret;
// a missing value fails startup rather than falling back silently.
package config
