package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adi-family/pluginhost/pkg/manifest"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanSinglePlugin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "hello", "plugin.toml"), `
id = "acme.hello"
version = "1.0.0"
[binary]
name = "acme_hello"
`)
	writeFile(t, filepath.Join(dir, "hello", "acme_hello.so"), "")

	inv, err := Scan(dir, manifest.NewTOMLParser(), func(string, error) { t.Fatal("unexpected warning") })
	require.NoError(t, err)
	require.Contains(t, inv.Plugins, "acme.hello")
	require.Contains(t, inv.Packages, "acme.hello")
	require.Equal(t, []string{"acme.hello"}, inv.Packages["acme.hello"].PluginIDs)
	require.Equal(t, filepath.Join(dir, "hello", "acme_hello.so"), inv.Plugins["acme.hello"].BinaryPath)
}

func TestScanPackageWithMultiplePlugins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "suite", "package.toml"), `
id = "acme.suite"
version = "1.0.0"

[[plugins]]
id = "acme.suite.a"
version = "1.0.0"
[plugins.binary]
name = "a"

[[plugins]]
id = "acme.suite.b"
version = "1.0.0"
[plugins.binary]
name = "b"
`)
	writeFile(t, filepath.Join(dir, "suite", "plugins", "acme.suite.a", "a.so"), "")
	writeFile(t, filepath.Join(dir, "suite", "plugins", "acme.suite.b", "b.so"), "")

	inv, err := Scan(dir, manifest.NewTOMLParser(), func(string, error) { t.Fatal("unexpected warning") })
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"acme.suite.a", "acme.suite.b"}, inv.Packages["acme.suite"].PluginIDs)
	require.Equal(t, "acme.suite", inv.Plugins["acme.suite.a"].PackageID)
}

func TestScanVersionedLayout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "hello", ".version"), "2.0.0")
	writeFile(t, filepath.Join(dir, "hello", "2.0.0", "plugin.toml"), `
id = "acme.hello"
version = "2.0.0"
[binary]
name = "acme_hello"
`)

	inv, err := Scan(dir, manifest.NewTOMLParser(), func(string, error) { t.Fatal("unexpected warning") })
	require.NoError(t, err)
	require.Contains(t, inv.Plugins, "acme.hello")
}

func TestScanEmptyVersionFileSkipsSilently(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "hello", ".version"), "")

	inv, err := Scan(dir, manifest.NewTOMLParser(), func(string, error) { t.Fatal("unexpected warning") })
	require.NoError(t, err)
	require.Empty(t, inv.Plugins)
}

func TestScanMalformedManifestWarnsAndContinues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken", "plugin.toml"), `this is not valid toml +++`)
	writeFile(t, filepath.Join(dir, "good", "plugin.toml"), `
id = "acme.good"
version = "1.0.0"
[binary]
name = "acme_good"
`)

	var warnings int
	inv, err := Scan(dir, manifest.NewTOMLParser(), func(string, error) { warnings++ })
	require.NoError(t, err)
	require.Equal(t, 1, warnings)
	require.Contains(t, inv.Plugins, "acme.good")
	require.NotContains(t, inv.Plugins, "acme.broken")
}

func TestScanPrefersExactNameOverLibPrefixed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "hello", "plugin.toml"), `
id = "acme.hello"
version = "1.0.0"
[binary]
name = "acme_hello"
`)
	writeFile(t, filepath.Join(dir, "hello", "acme_hello.so"), "")
	writeFile(t, filepath.Join(dir, "hello", "libacme_hello.so"), "")

	inv, err := Scan(dir, manifest.NewTOMLParser(), func(string, error) { t.Fatal("unexpected warning") })
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "hello", "acme_hello.so"), inv.Plugins["acme.hello"].BinaryPath)
}
