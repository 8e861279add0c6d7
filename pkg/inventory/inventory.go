// Package inventory scans a plugins directory and builds the set of
// installable plugins and the packages that contain them.
package inventory

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adi-family/pluginhost/pkg/abi"
	"github.com/adi-family/pluginhost/pkg/manifest"
)

// InstalledPackage is a deployment unit containing one or more plugins under
// a single id, version, and directory.
type InstalledPackage struct {
	ID        string
	Version   string
	Path      string
	PluginIDs []string
}

// InstalledPlugin is a single plugin discovered on disk, not yet loaded.
type InstalledPlugin struct {
	Manifest   manifest.PluginManifest
	BinaryPath string
	PackageID  string
	Enabled    bool
}

// Inventory is the result of a scan: packages and plugins kept in sync —
// every InstalledPlugin.PackageID names a package in Packages that lists the
// plugin's id in PluginIDs.
type Inventory struct {
	Packages map[string]InstalledPackage
	Plugins  map[string]InstalledPlugin
}

// empty returns a freshly allocated, empty Inventory.
func empty() *Inventory {
	return &Inventory{
		Packages: make(map[string]InstalledPackage),
		Plugins:  make(map[string]InstalledPlugin),
	}
}

const (
	packageManifestName = "package.toml"
	pluginManifestName  = "plugin.toml"
	versionFileName     = ".version"
)

// Scan walks pluginsDir and builds a fresh Inventory. A manifest that fails
// to parse is reported via warn and otherwise skipped — one broken plugin
// must never abort the scan. The returned Inventory is always internally
// consistent; on error the caller's existing inventory is left untouched.
func Scan(pluginsDir string, parser manifest.Parser, warn func(path string, err error)) (*Inventory, error) {
	entries, err := os.ReadDir(pluginsDir)
	if os.IsNotExist(err) {
		return empty(), nil
	}
	if err != nil {
		return nil, err
	}

	inv := empty()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirPath := filepath.Join(pluginsDir, entry.Name())

		root, ok, err := resolvePluginRoot(dirPath)
		if err != nil {
			warn(dirPath, err)
			continue
		}
		if !ok {
			// Empty .version content: skip silently.
			continue
		}

		if err := scanPluginRoot(inv, root, parser); err != nil {
			warn(root, err)
			continue
		}
	}

	return inv, nil
}

// resolvePluginRoot applies the versioned-layout rule: if dir/.version
// exists, the real plugin root is dir/<trimmed version>. An empty version
// file means "skip this directory silently" (ok=false, err=nil).
func resolvePluginRoot(dir string) (root string, ok bool, err error) {
	versionPath := filepath.Join(dir, versionFileName)
	data, err := os.ReadFile(versionPath)
	if os.IsNotExist(err) {
		return dir, true, nil
	}
	if err != nil {
		return "", false, err
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", false, nil
	}
	return filepath.Join(dir, v), true, nil
}

// scanPluginRoot classifies and parses the manifest at root, populating inv.
func scanPluginRoot(inv *Inventory, root string, parser manifest.Parser) error {
	if data, err := os.ReadFile(filepath.Join(root, packageManifestName)); err == nil {
		return scanPackage(inv, root, data, parser)
	}
	if data, err := os.ReadFile(filepath.Join(root, pluginManifestName)); err == nil {
		return scanSinglePlugin(inv, root, data, parser)
	}
	// Neither manifest present: not a plugin directory, skip without warning.
	return nil
}

func scanSinglePlugin(inv *Inventory, root string, data []byte, parser manifest.Parser) error {
	m, err := parser.ParsePlugin(data)
	if err != nil {
		return err
	}

	binPath := resolveBinaryPath(root, m.Binary.Name)
	inv.Plugins[m.ID] = InstalledPlugin{
		Manifest:   m,
		BinaryPath: binPath,
		PackageID:  m.ID,
	}
	inv.Packages[m.ID] = InstalledPackage{
		ID:        m.ID,
		Version:   m.Version,
		Path:      root,
		PluginIDs: []string{m.ID},
	}
	return nil
}

func scanPackage(inv *Inventory, root string, data []byte, parser manifest.Parser) error {
	pkg, err := parser.ParsePackage(data)
	if err != nil {
		return err
	}

	pluginIDs := make([]string, 0, len(pkg.Plugins))
	for _, sub := range pkg.Plugins {
		subRoot := filepath.Join(root, "plugins", sub.ID)
		binPath := resolveBinaryPath(subRoot, sub.Binary.Name)
		inv.Plugins[sub.ID] = InstalledPlugin{
			Manifest:   sub,
			BinaryPath: binPath,
			PackageID:  pkg.ID,
		}
		pluginIDs = append(pluginIDs, sub.ID)
	}

	inv.Packages[pkg.ID] = InstalledPackage{
		ID:        pkg.ID,
		Version:   pkg.Version,
		Path:      root,
		PluginIDs: pluginIDs,
	}
	return nil
}

// resolveBinaryPath tries each filename variant in order and returns the
// first that exists; if none exist, it returns the first variant so callers
// get a stable, descriptive (if nonexistent) error target.
func resolveBinaryPath(dir, name string) string {
	variants := abi.BinaryNameVariants(name)
	for _, v := range variants {
		p := filepath.Join(dir, v)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(dir, variants[0])
}
