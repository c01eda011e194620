// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// version.go — build-time version, date, and environment metadata injected
// via -ldflags and reported by the jsonext command.

package jsonext

// Build-time variables injected via -ldflags.
// Defaults represent an unversioned local development build.
//
//	BuildDate format : YYYY.MM.DD-HHMM  (24-hour clock)
//	BuildEnv  values : dev | qa | prod
var (
	// BuildDate is the date and time the binary was built.
	// Set by: -ldflags "-X 'github.com/ramjotsingh/jsonext.BuildDate=2026.10.18-0930'"
	BuildDate = "0000.00.00-0000"

	// BuildEnv is the target environment for this build.
	// Set by: -ldflags "-X 'github.com/ramjotsingh/jsonext.BuildEnv=prod'"
	BuildEnv = "dev"
)

// Version returns the version string in the form "YYYY.MM.DD-HHMM-env".
func Version() string {
	return BuildDate + "-" + BuildEnv
}
