// Package version provides the server version.
package version

// Version is the current server version, overridable at build time.
var Version = "0.1.0"
