package manifest

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/adi-family/pluginhost/pkg/idvalidate"
)

// TOMLParser parses plugin.toml and package.toml manifests.
type TOMLParser struct{}

// NewTOMLParser constructs the default TOML-backed Parser.
func NewTOMLParser() TOMLParser {
	return TOMLParser{}
}

// ParsePlugin decodes a plugin.toml document.
func (TOMLParser) ParsePlugin(data []byte) (PluginManifest, error) {
	var m PluginManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return PluginManifest{}, fmt.Errorf("parse plugin manifest: %w", err)
	}
	if !idvalidate.IsValid(m.ID) {
		return PluginManifest{}, fmt.Errorf("plugin manifest has invalid id %q", m.ID)
	}
	return m, nil
}

// ParsePackage decodes a package.toml document.
func (TOMLParser) ParsePackage(data []byte) (PackageManifest, error) {
	var m PackageManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return PackageManifest{}, fmt.Errorf("parse package manifest: %w", err)
	}
	if !idvalidate.IsValid(m.ID) {
		return PackageManifest{}, fmt.Errorf("package manifest has invalid id %q", m.ID)
	}
	return m, nil
}
