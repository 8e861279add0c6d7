// Package loader opens plugin shared libraries, resolves their entry
// symbol, and drives the init/update/message/cleanup lifecycle across the
// ABI boundary.
package loader

import (
	"plugin"

	"github.com/adi-family/pluginhost/pkg/abi"
	"github.com/adi-family/pluginhost/pkg/hosterr"
	"github.com/adi-family/pluginhost/pkg/manifest"
)

// LoadedPlugin is an opened, possibly-initialized plugin. lib keeps the
// process's reference to the shared library alive; Go's plugin package has
// no unload primitive, so — as in the teacher's own host — "dropping" a
// LoadedPlugin never actually closes the library, only removes it from the
// orchestrator's live set.
type LoadedPlugin struct {
	lib         *plugin.Plugin
	VTable      abi.PluginVTable
	Context     *abi.PluginContext
	Manifest    manifest.PluginManifest
	Initialized bool
}

// Load opens the shared library at path, resolves its entry symbol, and
// constructs (but does not initialize) a LoadedPlugin bound to host.
func Load(path string, m manifest.PluginManifest, host *abi.HostVTable) (*LoadedPlugin, error) {
	lib, err := plugin.Open(path)
	if err != nil {
		return nil, hosterr.Wrap(err, hosterr.ErrLoadFailed, "loader.load").WithPlugin(m.ID)
	}

	sym, err := lib.Lookup(abi.EntrySymbol)
	if err != nil {
		return nil, hosterr.Wrap(err, hosterr.ErrSymbolNotFound, "loader.load").WithPlugin(m.ID)
	}

	entry, ok := sym.(func() abi.PluginVTable)
	if !ok {
		return nil, hosterr.New(hosterr.ErrInvalidVTable, "loader.load", nil).
			WithPlugin(m.ID).
			WithAdvice("exported PluginEntry has an unexpected signature")
	}

	vtable := entry()
	if vtable == nil {
		return nil, hosterr.New(hosterr.ErrInvalidVTable, "loader.load", nil).WithPlugin(m.ID)
	}

	if m.Compatibility.APIVersion != abi.PluginAPIVersion {
		return nil, hosterr.Newf(hosterr.ErrIncompatibleAPI, "loader.load",
			"plugin built against api version %q, host requires %q", m.Compatibility.APIVersion, abi.PluginAPIVersion).
			WithPlugin(m.ID)
	}

	return newLoadedPlugin(lib, vtable, m, host), nil
}

// newLoadedPlugin assembles a LoadedPlugin around an already-resolved
// vtable. Split out from Load so the lifecycle operations below can be
// exercised against a fake vtable without opening a real shared library.
func newLoadedPlugin(lib *plugin.Plugin, vtable abi.PluginVTable, m manifest.PluginManifest, host *abi.HostVTable) *LoadedPlugin {
	return &LoadedPlugin{
		lib:    lib,
		VTable: vtable,
		Context: &abi.PluginContext{
			APIVersion: abi.PluginAPIVersion,
			Host:       host,
		},
		Manifest: m,
	}
}

// LoadAndInit composes Load and Init.
func LoadAndInit(path string, m manifest.PluginManifest, host *abi.HostVTable) (*LoadedPlugin, error) {
	lp, err := Load(path, m, host)
	if err != nil {
		return nil, err
	}
	if err := lp.Init(); err != nil {
		return nil, err
	}
	return lp, nil
}

// Init calls the plugin's init entry. A nonzero return is InitFailed.
func (lp *LoadedPlugin) Init() error {
	code := lp.VTable.Init(lp.Context)
	if code != 0 {
		return hosterr.Newf(hosterr.ErrInitFailed, "loader.init", "plugin init returned code %d", code).WithPlugin(lp.Manifest.ID)
	}
	lp.Initialized = true
	return nil
}

// Update calls the plugin's optional update entry, if implemented. A no-op
// otherwise. Only valid once Initialized.
func (lp *LoadedPlugin) Update() error {
	if !lp.Initialized {
		return hosterr.New(hosterr.ErrNotEnabled, "loader.update", nil).WithPlugin(lp.Manifest.ID)
	}
	u, ok := lp.VTable.(abi.Updater)
	if !ok {
		return nil
	}
	code := u.Update(lp.Context)
	if code != 0 {
		return hosterr.Newf(hosterr.ErrInitFailed, "loader.update", "plugin update returned code %d", code).WithPlugin(lp.Manifest.ID)
	}
	return nil
}

// SendMessage calls the plugin's optional message handler, if implemented.
// Returns the empty string if the plugin does not implement one. Only valid
// once Initialized.
func (lp *LoadedPlugin) SendMessage(msgType, data string) (string, error) {
	if !lp.Initialized {
		return "", hosterr.New(hosterr.ErrNotEnabled, "loader.send_message", nil).WithPlugin(lp.Manifest.ID)
	}
	mh, ok := lp.VTable.(abi.MessageHandler)
	if !ok {
		return "", nil
	}
	result, err := mh.HandleMessage(lp.Context, msgType, data)
	if err != nil {
		return "", hosterr.Wrap(err, hosterr.ErrInitFailed, "loader.send_message").WithPlugin(lp.Manifest.ID)
	}
	return result, nil
}

// Cleanup calls the plugin's cleanup entry if it is initialized, and clears
// the flag. Idempotent — safe to call more than once.
func (lp *LoadedPlugin) Cleanup() {
	if !lp.Initialized {
		return
	}
	lp.VTable.Cleanup(lp.Context)
	lp.Initialized = false
}
