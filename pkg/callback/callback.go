// Package callback implements the host side of the plugin ABI: the
// DefaultCallbacks implementation (config store, per-plugin data
// directories, toast notifications) and the construction of a per-plugin
// HostVTable bound to it.
package callback

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/adi-family/pluginhost/pkg/abi"
	"github.com/adi-family/pluginhost/pkg/hosterr"
	"github.com/adi-family/pluginhost/pkg/pluginlog"
	"github.com/adi-family/pluginhost/pkg/registry"
)

// Callbacks is the host-side behavior behind the ABI's callback table,
// independent of any particular plugin. One Callbacks instance is shared
// across every plugin a host loads; BuildVTable below binds it, per plugin,
// into the function pointers the ABI actually exposes.
type Callbacks interface {
	Log(level int, message string)
	ConfigGet(key string) (string, bool)
	ConfigSet(key, value string) error
	DataDir(pluginID string) string
	Toast(level int, message string)
	HostAction(action, dataJSON string) (string, error)
}

// DefaultCallbacks is the host's built-in Callbacks implementation: an
// in-memory, multi-reader/single-writer configuration map, a per-plugin
// data directory rooted under dataRoot, and structured logging for both
// plugin log lines and toast notifications (no GUI toast surface at the
// core layer — callers needing one wire a host_action handler instead).
type DefaultCallbacks struct {
	mu       sync.RWMutex
	config   map[string]string
	dataRoot string
	log      *pluginlog.Logger

	// ActionHandler answers host_action calls. If nil, every host_action
	// call fails with an error naming the unhandled action.
	ActionHandler func(action, dataJSON string) (string, error)
}

// NewDefaultCallbacks constructs a DefaultCallbacks rooted at dataRoot
// (each plugin gets dataRoot/<plugin-id>) and logging through log.
func NewDefaultCallbacks(dataRoot string, log *pluginlog.Logger) *DefaultCallbacks {
	return &DefaultCallbacks{
		config:   make(map[string]string),
		dataRoot: dataRoot,
		log:      log,
	}
}

// Log implements Callbacks.
func (c *DefaultCallbacks) Log(level int, message string) {
	c.log.PluginLevel("", level, message)
}

// ConfigGet implements Callbacks.
func (c *DefaultCallbacks) ConfigGet(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.config[key]
	return v, ok
}

// ConfigSet implements Callbacks.
func (c *DefaultCallbacks) ConfigSet(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config[key] = value
	return nil
}

// DataDir implements Callbacks, creating the directory if it does not exist.
func (c *DefaultCallbacks) DataDir(pluginID string) string {
	dir := filepath.Join(c.dataRoot, pluginID)
	_ = os.MkdirAll(dir, 0o750)
	return dir
}

// Toast implements Callbacks by logging at the corresponding level, prefixed
// so it is distinguishable from a plain plugin log line in a text sink.
func (c *DefaultCallbacks) Toast(level int, message string) {
	c.log.PluginLevel("toast", level, message)
}

// HostAction implements Callbacks, delegating to ActionHandler if set.
func (c *DefaultCallbacks) HostAction(action, dataJSON string) (string, error) {
	if c.ActionHandler == nil {
		return "", hosterr.Newf(hosterr.ErrUnknown, "callback.host_action", "no handler registered for action %q", action)
	}
	return c.ActionHandler(action, dataJSON)
}

// BuildVTable assembles the HostVTable a specific plugin will receive in its
// PluginContext. The closures capture cb, reg, and pluginID directly — the
// host-state association the ABI design calls for, resolved by binding
// rather than by ambient dispatch. register_service is the one entry that
// must pin the descriptor's ProviderID to pluginID regardless of what the
// plugin passes, since a provider can only ever register on its own behalf.
func BuildVTable(pluginID string, cb Callbacks, reg *registry.Registry) *abi.HostVTable {
	return &abi.HostVTable{
		Log: func(level int, message string) {
			cb.Log(level, message)
		},
		ConfigGet: cb.ConfigGet,
		ConfigSet: func(key, value string) int32 {
			if err := cb.ConfigSet(key, value); err != nil {
				return 1
			}
			return 0
		},
		DataDir: func() string {
			return cb.DataDir(pluginID)
		},
		Toast: cb.Toast,
		HostAction: cb.HostAction,
		RegisterService: func(desc abi.ServiceDescriptor, handle abi.ServiceHandle) int32 {
			desc.ProviderID = pluginID
			if err := reg.Register(desc, handle); err != nil {
				return 1
			}
			return 0
		},
		LookupService: reg.Lookup,
		LookupServiceVersioned: func(id string, min abi.ServiceVersion) (abi.ServiceHandle, error) {
			return reg.LookupVersioned(id, min)
		},
		ListServices: reg.List,
	}
}
