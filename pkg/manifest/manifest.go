// Package manifest defines the typed manifest value the core consumes and a
// default TOML-backed parser for it. Manifest parsing is, per the design,
// an external collaborator the core depends on only through the Parser
// interface — this package ships the one concrete implementation real
// deployments need.
package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/adi-family/pluginhost/pkg/abi"
)

// Binary names the plugin's shared-library binary, without platform
// extension or "lib" prefix.
type Binary struct {
	Name string `toml:"name"`
}

// Compatibility carries the ABI version the plugin was built against and
// the set of plugin ids it depends on.
type Compatibility struct {
	APIVersion string   `toml:"api_version"`
	DependsOn  []string `toml:"depends_on"`
}

// Require names a service the plugin needs at enable time.
type Require struct {
	ServiceID  string `toml:"service_id"`
	MinVersion string `toml:"min_version"`
	Optional   bool   `toml:"optional"`
}

// Provide names a service the plugin will publish during init.
type Provide struct {
	ServiceID string `toml:"service_id"`
	Version   string `toml:"version"`
}

// PluginManifest is the parsed descriptor for a single plugin.
type PluginManifest struct {
	ID            string        `toml:"id"`
	Version       string        `toml:"version"`
	Binary        Binary        `toml:"binary"`
	Compatibility Compatibility `toml:"compatibility"`
	Requires      []Require     `toml:"requires"`
	Provides      []Provide     `toml:"provides"`
}

// PackageManifest is the parsed descriptor for a multi-plugin package. Each
// entry in Plugins is resolved, on disk, under
// "<package_root>/plugins/<plugin.ID>/".
type PackageManifest struct {
	ID      string           `toml:"id"`
	Version string           `toml:"version"`
	Plugins []PluginManifest `toml:"plugins"`
}

// ParseVersion parses a "major.minor.patch" string into an abi.ServiceVersion.
func ParseVersion(s string) (abi.ServiceVersion, error) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return abi.ServiceVersion{}, fmt.Errorf("invalid version %q: expected major.minor.patch", s)
	}
	var nums [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return abi.ServiceVersion{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		nums[i] = n
	}
	return abi.ServiceVersion{Major: uint32(nums[0]), Minor: uint32(nums[1]), Patch: uint32(nums[2])}, nil
}

// Parser is the manifest-parsing collaborator the core depends on.
type Parser interface {
	ParsePlugin(data []byte) (PluginManifest, error)
	ParsePackage(data []byte) (PackageManifest, error)
}
