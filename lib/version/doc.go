// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for gputop
// binaries.
//
// Four variables are injected at build time with -ldflags -X:
// [GitCommit], [GitDirty], [BuildTime] and [Version]. When the commit
// is not injected, the VCS stamp the go tool records is used instead.
//
//	go build -ldflags "-X github.com/bureau-foundation/gputop/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/gputop-server
//
// [Info] is the one-line form, [Full] is what --version prints, and
// [Attr] attaches the same facts to the startup log line.
package version
