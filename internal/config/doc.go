// Package config handles configuration loading for assist-console.
//
// # Configuration File
//
// Locations (in order):
//
//  1. --config flag
//  2. Path from ASSIST_CONFIG environment variable
//  3. $XDG_CONFIG_HOME/assist-console/config.yaml (~/.config/... when unset)
//
// A missing file at location 3 means defaults. A missing file named by 1 or 2
// is an error. Files ending in .toml are read as TOML; everything else as YAML.
//
// # Environment Variable Expansion
//
//	backend:
//	  base_url: "${ASSIST_BACKEND}/debug"
//
// # Configuration Sections
//
//	server:
//	  http_addr: "127.0.0.1:8090"   # web admin listener
//
//	backend:
//	  base_url: "http://localhost:8000/debug"  # dashboard endpoints
//	  chat_url: "http://localhost:8000"        # /chat/generate-reply
//	  timeout: "0s"                            # per-call timeout, 0 disables
//
//	session:
//	  driver: "file"   # file | sqlite | memory
//	  dir: "~/.config/assist-console"
//
//	database:
//	  path: "~/.config/assist-console/console.db"
//
//	chat:
//	  user_id: "local_user"
//	  auto_reply: true
//	  history_limit: 50
//
//	auth:
//	  check_expiry: false   # presence-only gate unless enabled
//
//	logging:
//	  level: "info"    # debug, info, warn, error
//	  format: "text"   # text, json
//	  file: ""         # rotate logs into this file when set
package config
