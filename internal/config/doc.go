// Package config loads ffscope's runtime configuration.
//
// # Resolution Order
//
//  1. Built-in defaults (see Default)
//  2. ~/.config/ffscope/config.toml, or the path passed to Load
//  3. FFSCOPE_* environment variables
//
// A missing config file is not an error. A file that exists but cannot be
// parsed is, and the error mentions "parse config".
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:5000"
//	namespace = "default"
//	ns_prefix = "/api/v1/namespaces"
//	page_size = 10
//	poll_seconds = 2
//	request_timeout_seconds = 10
//	log_file = "~/.local/state/ffscope/ffscope.log"
//
// Every field is optional.
//
// # Environment
//
//	FFSCOPE_API_URL, FFSCOPE_NAMESPACE, FFSCOPE_NS_PREFIX, FFSCOPE_PAGE_SIZE,
//	FFSCOPE_POLL_INTERVAL (duration), FFSCOPE_REQUEST_TIMEOUT (duration),
//	FFSCOPE_LOG_FILE
//
// # Validation
//
// The merged result is validated: api_url must be an http(s) URL, page_size
// must be one of PageLimits and both intervals must be at least one second.
package config
