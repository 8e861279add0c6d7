package abi

import (
	"runtime"
	"strings"
)

// PlatformExt returns the native shared-library extension for the running
// platform.
func PlatformExt() string {
	switch runtime.GOOS {
	case "darwin":
		return "dylib"
	case "windows":
		return "dll"
	default:
		return "so"
	}
}

// BinaryNameVariants returns, in resolution order, the filenames a binary
// manifest name N may appear under: "N.<ext>", "libN.<ext>", and — if N
// already carries a "lib" prefix — the prefix-stripped form. Callers try
// each in turn and take the first that exists on disk; if none exist the
// first variant names the (non-existent) error target.
func BinaryNameVariants(name string) []string {
	ext := PlatformExt()
	variants := []string{
		name + "." + ext,
		"lib" + name + "." + ext,
	}
	if stripped := strings.TrimPrefix(name, "lib"); stripped != name {
		variants = append(variants, stripped+"."+ext)
	}
	return variants
}
