// Package buildinfo exposes the version stamped into the woodfmt binary.
package buildinfo

import "runtime/debug"

// BinaryVersion is set at build time via -ldflags "-X .../buildinfo.BinaryVersion=v1.2.3".
var BinaryVersion = "dev"

// ModuleVersion returns the main module version recorded by the Go toolchain,
// or "" when none was recorded.
func ModuleVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "(devel)" {
		return ""
	}
	return info.Main.Version
}
