// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for gputop-server.
//
// Configuration comes from at most one file, named by the --config
// flag or the GPUTOP_CONFIG environment variable ([Resolve] checks them
// in that order). File values are merged over [Default]; unknown keys
// are rejected so typos fail loudly. Command-line flags applied by the
// caller after loading take precedence over the file.
//
// Path fields (web_root, tls_cert, tls_key, sys_root) expand ${HOME}
// and ${VAR:-default} patterns. No other environment variables
// override config values.
//
// A minimal file:
//
//	server:
//	  listen: 0.0.0.0:7890
//	  web_root: ${HOME}/gputop/webui
//	stream:
//	  tick_interval: 100ms
//	counters:
//	  source: simulated
//
// This package depends on no other gputop packages.
package config
