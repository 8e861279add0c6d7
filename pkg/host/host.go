// Package host implements the orchestrator: the component that owns the
// installed inventory, the loaded-plugin set, the service registry, and the
// callback table, and exposes the enable/disable/message/update surface
// other packages compose into a working plugin host.
package host

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adi-family/pluginhost/internal/core/config"
	"github.com/adi-family/pluginhost/pkg/abi"
	"github.com/adi-family/pluginhost/pkg/callback"
	"github.com/adi-family/pluginhost/pkg/hosterr"
	"github.com/adi-family/pluginhost/pkg/inventory"
	"github.com/adi-family/pluginhost/pkg/loader"
	"github.com/adi-family/pluginhost/pkg/manifest"
	"github.com/adi-family/pluginhost/pkg/pluginlog"
	"github.com/adi-family/pluginhost/pkg/regclient"
	"github.com/adi-family/pluginhost/pkg/registry"
	"github.com/adi-family/pluginhost/pkg/resolver"
	"github.com/adi-family/pluginhost/pkg/statestore"
	"github.com/adi-family/pluginhost/pkg/verify"
)

// PluginHost owns the whole lifecycle engine: inventory, registry, loaded
// plugins, install status, and the collaborators that give those meaning.
// Its own operations (ScanInstalled, Enable, Disable, ...) are expected to
// be driven by a single external caller at a time — see the concurrency
// model: only InstallPackage suspends on I/O, and the registry it shares
// with plugin callbacks guards itself independently.
type PluginHost struct {
	cfg *config.Config
	log *pluginlog.Logger

	inventory *inventory.Inventory
	loaded    map[string]*loader.LoadedPlugin

	registry       *registry.Registry
	callbacks      callback.Callbacks
	manifestParser manifest.Parser
	regClient      regclient.Client
	verifier       verify.Verifier
	store          *statestore.DB
}

// Option configures optional collaborators on a PluginHost at construction.
type Option func(*PluginHost)

// WithRegistryClient installs the collaborator used by InstallPackage to
// resolve and download package versions.
func WithRegistryClient(c regclient.Client) Option {
	return func(h *PluginHost) { h.regClient = c }
}

// WithVerifier installs the collaborator used to validate downloaded
// package bytes before they are written to disk.
func WithVerifier(v verify.Verifier) Option {
	return func(h *PluginHost) { h.verifier = v }
}

// WithManifestParser overrides the default TOML manifest parser.
func WithManifestParser(p manifest.Parser) Option {
	return func(h *PluginHost) { h.manifestParser = p }
}

// WithCallbacks overrides the default host-callback implementation.
func WithCallbacks(cb callback.Callbacks) Option {
	return func(h *PluginHost) { h.callbacks = cb }
}

// New constructs a PluginHost over cfg, opening its install-status store and
// pre-populating it with an initial scan. Directories named in cfg are
// created if missing.
func New(cfg *config.Config, log *pluginlog.Logger, opts ...Option) (*PluginHost, error) {
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(config.Home(), 0o750); err != nil {
		return nil, fmt.Errorf("create host home directory: %w", err)
	}

	store, err := statestore.Open(filepath.Join(config.Home(), "state.db"))
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	h := &PluginHost{
		cfg:            cfg,
		log:            log,
		inventory:      &inventory.Inventory{Packages: map[string]inventory.InstalledPackage{}, Plugins: map[string]inventory.InstalledPlugin{}},
		loaded:         make(map[string]*loader.LoadedPlugin),
		registry:       registry.New(),
		manifestParser: manifest.NewTOMLParser(),
		verifier:       verify.New(),
		store:          store,
	}
	h.callbacks = callback.NewDefaultCallbacks(cfg.CacheDir, log)

	for _, opt := range opts {
		opt(h)
	}

	if err := h.ScanInstalled(); err != nil {
		store.Close()
		return nil, err
	}
	return h, nil
}

// Close releases the host's persistent state handle.
func (h *PluginHost) Close() error {
	return h.store.Close()
}

// ScanInstalled rebuilds the installed inventory from disk. A manifest that
// fails to parse is logged as a warning and otherwise skipped; the
// inventory is only replaced once the full scan succeeds, so a failing scan
// never leaves the host half-updated.
func (h *PluginHost) ScanInstalled() error {
	inv, err := inventory.Scan(h.cfg.PluginsDir, h.manifestParser, func(path string, err error) {
		h.log.Warn("skipping unparseable plugin manifest", "path", path, "error", err)
	})
	if err != nil {
		return fmt.Errorf("scan installed plugins: %w", err)
	}
	h.inventory = inv
	return nil
}

// Plugins returns the currently-installed plugin inventory.
func (h *PluginHost) Plugins() map[string]inventory.InstalledPlugin {
	return h.inventory.Plugins
}

// Packages returns the currently-installed package inventory.
func (h *PluginHost) Packages() map[string]inventory.InstalledPackage {
	return h.inventory.Packages
}

// IsLoaded reports whether pluginID currently has a live LoadedPlugin.
func (h *PluginHost) IsLoaded(pluginID string) bool {
	_, ok := h.loaded[pluginID]
	return ok
}

// LoadedPlugins lists the ids of every currently-loaded plugin.
func (h *PluginHost) LoadedPlugins() []string {
	ids := make([]string, 0, len(h.loaded))
	for id := range h.loaded {
		ids = append(ids, id)
	}
	return ids
}

// VerifyRequiredServices checks, for every non-optional entry in the
// plugin's manifest.Requires, that a compatible provider is already
// registered.
func (h *PluginHost) VerifyRequiredServices(pluginID string) error {
	p, ok := h.inventory.Plugins[pluginID]
	if !ok {
		return hosterr.New(hosterr.ErrPluginNotFound, "host.verify_required_services", nil).WithPlugin(pluginID)
	}

	for _, req := range p.Manifest.Requires {
		if req.Optional {
			continue
		}
		if req.MinVersion == "" {
			if !h.registry.HasService(req.ServiceID) {
				return hosterr.New(hosterr.ErrServiceNotAvailable, "host.verify_required_services", nil).
					WithPlugin(pluginID).
					WithAdvice("required service " + req.ServiceID + " is not registered")
			}
			continue
		}
		min, err := manifest.ParseVersion(req.MinVersion)
		if err != nil {
			return hosterr.Wrap(err, hosterr.ErrServiceNotAvailable, "host.verify_required_services").WithPlugin(pluginID)
		}
		if _, err := h.registry.LookupVersioned(req.ServiceID, min); err != nil {
			return hosterr.Wrap(err, hosterr.ErrServiceNotAvailable, "host.verify_required_services").WithPlugin(pluginID)
		}
	}
	return nil
}

// Enable loads and initializes a single plugin without considering its
// dependencies or verifying its required services. A no-op if the plugin is
// already loaded.
func (h *PluginHost) Enable(pluginID string) error {
	if h.IsLoaded(pluginID) {
		return nil
	}

	p, ok := h.inventory.Plugins[pluginID]
	if !ok {
		return hosterr.New(hosterr.ErrPluginNotFound, "host.enable", nil).WithPlugin(pluginID)
	}

	if _, err := os.Stat(p.BinaryPath); err != nil {
		return hosterr.New(hosterr.ErrLoadFailed, "host.enable", err).
			WithPlugin(pluginID).
			WithAdvice("no matching binary found for this platform at " + p.BinaryPath)
	}

	hostVTable := callback.BuildVTable(pluginID, h.callbacks, h.registry)
	lp, err := loader.LoadAndInit(p.BinaryPath, p.Manifest, hostVTable)
	if err != nil {
		h.log.Audit(pluginlog.AuditEntry{Timestamp: time.Now(), Op: "enable", Plugin: pluginID, Result: "failure", Detail: err.Error()})
		return err
	}

	h.loaded[pluginID] = lp
	_ = h.store.SetEnabled(pluginID, true)
	h.log.Audit(pluginlog.AuditEntry{Timestamp: time.Now(), Op: "enable", Plugin: pluginID, Result: "success"})
	return nil
}

// EnableWithDependencies resolves a dependency-correct load order for
// pluginID, verifies each id's required services are satisfiable before
// loading it, and enables every not-yet-loaded id along it. A failure
// enabling a dependency (rather than the target itself) is reported as
// DependencyLoadFailed; dependencies that already loaded successfully are
// not rolled back (see DESIGN.md).
func (h *PluginHost) EnableWithDependencies(pluginID string) error {
	order, err := resolver.ResolveLoadOrder(pluginID, h.inventory.Plugins)
	if err != nil {
		return err
	}

	for _, id := range order {
		if h.IsLoaded(id) {
			continue
		}
		if err := h.VerifyRequiredServices(id); err != nil {
			if id == pluginID {
				return err
			}
			return hosterr.New(hosterr.ErrDependencyLoadFail, "host.enable_with_dependencies", err).
				WithPlugin(pluginID).
				WithAdvice(fmt.Sprintf("dependency %s failed to load", id))
		}
		if err := h.Enable(id); err != nil {
			if id == pluginID {
				return err
			}
			return hosterr.New(hosterr.ErrDependencyLoadFail, "host.enable_with_dependencies", err).
				WithPlugin(pluginID).
				WithAdvice(fmt.Sprintf("dependency %s failed to load", id))
		}
	}
	return nil
}

// Disable tears down a single loaded plugin: service unregistration,
// cleanup, removal from the loaded set — in that order, so a plugin's
// services are never reachable through the registry while (or after) its
// cleanup runs. Never fails — for a plugin that was never loaded no cleanup
// runs, though the disabled flag and the audit entry are still recorded.
func (h *PluginHost) Disable(pluginID string) {
	h.registry.UnregisterProvider(pluginID)
	if lp, ok := h.loaded[pluginID]; ok {
		lp.Cleanup()
		delete(h.loaded, pluginID)
	}
	_ = h.store.SetEnabled(pluginID, false)
	h.log.Audit(pluginlog.AuditEntry{Timestamp: time.Now(), Op: "disable", Plugin: pluginID, Result: "success"})
}

// DisableWithDependents enumerates every plugin that transitively depends on
// pluginID and disables them in reverse breadth-first discovery order
// (dependents furthest from pluginID first) before disabling pluginID
// itself, so every dependent's cleanup completes before pluginID's begins.
// The order among the dependents follows their distance from pluginID only;
// dependencies between the dependents themselves are not consulted. Each disable —
// dependents and target alike — unregisters that plugin's services before
// its own cleanup runs, per Disable's ordering.
func (h *PluginHost) DisableWithDependents(pluginID string) {
	dependents := resolver.FindDependents(pluginID, h.inventory.Plugins)
	for i := len(dependents) - 1; i >= 0; i-- {
		h.Disable(dependents[i])
	}
	h.Disable(pluginID)
}

// SendMessage delivers a message to a loaded plugin's optional message
// handler.
func (h *PluginHost) SendMessage(pluginID, msgType, data string) (string, error) {
	lp, ok := h.loaded[pluginID]
	if !ok {
		return "", hosterr.New(hosterr.ErrNotEnabled, "host.send_message", nil).WithPlugin(pluginID)
	}
	return lp.SendMessage(msgType, data)
}

// UpdateAll calls Update on every loaded plugin; the first error
// short-circuits the sweep.
func (h *PluginHost) UpdateAll() error {
	for id, lp := range h.loaded {
		if err := lp.Update(); err != nil {
			return hosterr.Wrap(err, hosterr.ErrInitFailed, "host.update_all").WithPlugin(id)
		}
	}
	return nil
}

// InstallStatus reports the current install status of packageID.
func (h *PluginHost) InstallStatus(packageID string) (statestore.Status, error) {
	return h.store.GetStatus(packageID)
}

// ListServices lists every service currently registered across all loaded
// plugins.
func (h *PluginHost) ListServices() []abi.ServiceDescriptor {
	return h.registry.List()
}
