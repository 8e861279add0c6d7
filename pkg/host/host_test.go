package host

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adi-family/pluginhost/internal/core/config"
	"github.com/adi-family/pluginhost/pkg/abi"
	"github.com/adi-family/pluginhost/pkg/inventory"
	"github.com/adi-family/pluginhost/pkg/loader"
	"github.com/adi-family/pluginhost/pkg/manifest"
	"github.com/adi-family/pluginhost/pkg/pluginlog"
	"github.com/adi-family/pluginhost/pkg/regclient"
	"github.com/adi-family/pluginhost/pkg/registry"
)

func newTestHost(t *testing.T) *PluginHost {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.PluginsDir = t.TempDir()
	cfg.CacheDir = t.TempDir()

	log, err := pluginlog.New("error", "text", "")
	require.NoError(t, err)

	h, err := New(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func withPlugin(h *PluginHost, id string, dependsOn ...string) {
	h.inventory.Plugins[id] = inventory.InstalledPlugin{
		Manifest: manifest.PluginManifest{
			ID:            id,
			Compatibility: manifest.Compatibility{APIVersion: abi.PluginAPIVersion, DependsOn: dependsOn},
		},
		BinaryPath: filepath.Join("nonexistent", id+".so"),
	}
}

func TestEnableUnknownPluginFails(t *testing.T) {
	h := newTestHost(t)
	err := h.Enable("missing")
	require.Error(t, err)
}

func TestEnableIsNoOpWhenAlreadyLoaded(t *testing.T) {
	h := newTestHost(t)
	withPlugin(h, "a")
	h.loaded["a"] = nil // presence alone is what IsLoaded checks

	require.NoError(t, h.Enable("a"))
}

func TestEnableFailsWhenBinaryMissing(t *testing.T) {
	h := newTestHost(t)
	withPlugin(h, "a")

	err := h.Enable("a")
	require.Error(t, err)
}

func TestVerifyRequiredServicesUnknownPlugin(t *testing.T) {
	h := newTestHost(t)
	err := h.VerifyRequiredServices("ghost")
	require.Error(t, err)
}

func TestVerifyRequiredServicesSkipsOptional(t *testing.T) {
	h := newTestHost(t)
	h.inventory.Plugins["a"] = inventory.InstalledPlugin{
		Manifest: manifest.PluginManifest{
			ID: "a",
			Requires: []manifest.Require{
				{ServiceID: "does.not.exist", Optional: true},
			},
		},
	}
	require.NoError(t, h.VerifyRequiredServices("a"))
}

func TestVerifyRequiredServicesFailsOnMissingService(t *testing.T) {
	h := newTestHost(t)
	h.inventory.Plugins["a"] = inventory.InstalledPlugin{
		Manifest: manifest.PluginManifest{
			ID:       "a",
			Requires: []manifest.Require{{ServiceID: "some.service"}},
		},
	}
	err := h.VerifyRequiredServices("a")
	require.Error(t, err)
}

func TestEnableWithDependenciesWrapsNonTargetFailure(t *testing.T) {
	h := newTestHost(t)
	withPlugin(h, "base")
	withPlugin(h, "top", "base")

	err := h.EnableWithDependencies("top")
	require.Error(t, err)
	// base fails to load first since it has no dependencies of its own; the
	// failure should be reported against top's enable, wrapping base's error.
	require.Contains(t, err.Error(), "ERR-PLUGIN-032")
}

func TestEnableWithDependenciesMissingDependencyIsResolverError(t *testing.T) {
	h := newTestHost(t)
	withPlugin(h, "top", "absent")

	err := h.EnableWithDependencies("top")
	require.Error(t, err)
	require.Contains(t, err.Error(), "ERR-PLUGIN-031")
}

func TestDisableOnUnloadedPluginNeverFails(t *testing.T) {
	h := newTestHost(t)
	h.Disable("never-loaded")
}

// orderTrackingVTable is a fake plugin vtable whose Cleanup records whether
// the service it provides is still reachable through the registry at the
// moment cleanup runs, and appends its id to a shared log so cross-plugin
// teardown order can be asserted too.
type orderTrackingVTable struct {
	id  string
	reg *registry.Registry
	log *[]string

	serviceRegisteredDuringCleanup bool
	cleanupCalled                  bool
}

func (v *orderTrackingVTable) Info() abi.PluginInfo              { return abi.PluginInfo{ID: v.id} }
func (v *orderTrackingVTable) Init(ctx *abi.PluginContext) int32 { return 0 }
func (v *orderTrackingVTable) Cleanup(ctx *abi.PluginContext) {
	v.cleanupCalled = true
	v.serviceRegisteredDuringCleanup = v.reg.HasService(v.id + ".svc")
	*v.log = append(*v.log, v.id)
}

// loadFakePlugin registers id's service and installs a real *loader.LoadedPlugin
// backed by an orderTrackingVTable directly into h.loaded, bypassing the
// shared-library path so teardown ordering can be exercised without a
// compiled .so.
func loadFakePlugin(t *testing.T, h *PluginHost, id string, order *[]string) *orderTrackingVTable {
	t.Helper()

	vt := &orderTrackingVTable{id: id, reg: h.registry, log: order}
	require.NoError(t, h.registry.Register(
		abi.ServiceDescriptor{ID: id + ".svc", Version: abi.ServiceVersion{Major: 1}, ProviderID: id},
		abi.ServiceHandle{ServiceID: id + ".svc"},
	))

	h.loaded[id] = &loader.LoadedPlugin{
		VTable:      vt,
		Context:     &abi.PluginContext{APIVersion: abi.PluginAPIVersion},
		Manifest:    manifest.PluginManifest{ID: id},
		Initialized: true,
	}
	return vt
}

func TestDisableWithDependentsOrdering(t *testing.T) {
	h := newTestHost(t)
	withPlugin(h, "base")
	withPlugin(h, "mid", "base")
	withPlugin(h, "top", "mid")

	var teardownOrder []string
	baseVT := loadFakePlugin(t, h, "base", &teardownOrder)
	midVT := loadFakePlugin(t, h, "mid", &teardownOrder)
	topVT := loadFakePlugin(t, h, "top", &teardownOrder)

	h.DisableWithDependents("base")

	require.False(t, h.IsLoaded("base"))
	require.False(t, h.IsLoaded("mid"))
	require.False(t, h.IsLoaded("top"))

	// Dependents tear down deepest-first: top, then mid, then base.
	require.Equal(t, []string{"top", "mid", "base"}, teardownOrder)

	// Every plugin's service must already be unregistered by the time its
	// own cleanup runs.
	require.True(t, baseVT.cleanupCalled)
	require.True(t, midVT.cleanupCalled)
	require.True(t, topVT.cleanupCalled)
	require.False(t, baseVT.serviceRegisteredDuringCleanup)
	require.False(t, midVT.serviceRegisteredDuringCleanup)
	require.False(t, topVT.serviceRegisteredDuringCleanup)

	require.False(t, h.registry.HasService("base.svc"))
	require.False(t, h.registry.HasService("mid.svc"))
	require.False(t, h.registry.HasService("top.svc"))
}

func TestSendMessageRequiresLoadedPlugin(t *testing.T) {
	h := newTestHost(t)
	_, err := h.SendMessage("ghost", "ping", "")
	require.Error(t, err)
}

func TestUpdateAllOnEmptyHostSucceeds(t *testing.T) {
	h := newTestHost(t)
	require.NoError(t, h.UpdateAll())
}

type fakeRegistryClient struct {
	info regclient.PackageInfo
	data []byte
	err  error
}

func (f *fakeRegistryClient) GetPackageVersion(ctx context.Context, id, version string) (regclient.PackageInfo, error) {
	if f.err != nil {
		return regclient.PackageInfo{}, f.err
	}
	return f.info, nil
}

func (f *fakeRegistryClient) DownloadPackage(ctx context.Context, info regclient.PackageInfo) ([]byte, error) {
	return f.data, nil
}

func (f *fakeRegistryClient) Search(ctx context.Context, query string) ([]regclient.PackageInfo, error) {
	return nil, nil
}

func TestInstallPackageFailsWithoutRegistryClient(t *testing.T) {
	h := newTestHost(t)
	err := h.InstallPackage(context.Background(), "acme.hello", "1.0.0")
	require.Error(t, err)
}

func TestInstallPackageRecordsFailureOnRegistryError(t *testing.T) {
	h := newTestHost(t)
	h.regClient = &fakeRegistryClient{err: errors.New("registry unreachable")}

	err := h.InstallPackage(context.Background(), "acme.hello", "1.0.0")
	require.Error(t, err)

	status, statusErr := h.InstallStatus("acme.hello")
	require.NoError(t, statusErr)
	require.Equal(t, "failed", status.State)
}

func TestUninstallUnknownPackageFails(t *testing.T) {
	h := newTestHost(t)
	err := h.UninstallPackage("nope")
	require.Error(t, err)
}
