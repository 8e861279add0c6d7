// Package abi defines the stable boundary crossed between the host process
// and the native shared libraries it loads as plugins: the plugin entry
// symbol, the plugin and host vtables, and the versioned service data model
// both sides exchange through the registry.
package abi

// PluginAPIVersion is the host's built-in ABI version. A plugin manifest's
// compatibility.api_version must match this exactly for the plugin to load.
const PluginAPIVersion = "v1"

// EntrySymbol is the exported symbol every plugin .so must provide. It is
// looked up via plugin.Lookup after plugin.Open succeeds.
const EntrySymbol = "PluginEntry"

// EntryFunc is the type of the symbol named by EntrySymbol: a niladic
// function returning the plugin's vtable.
type EntryFunc func() PluginVTable

// PluginInfo is static identity information a plugin reports about itself.
type PluginInfo struct {
	ID      string
	Name    string
	Version string
}

// PluginVTable is the fixed, ordered set of entry points every plugin must
// implement. Update and HandleMessage are optional in the data model; a
// plugin signals it implements them by additionally satisfying Updater or
// MessageHandler — the idiomatic Go substitute for a nullable function
// pointer in the vtable record.
type PluginVTable interface {
	Info() PluginInfo
	Init(ctx *PluginContext) int32
	Cleanup(ctx *PluginContext)
}

// Updater is implemented by plugins that want a periodic update tick.
type Updater interface {
	Update(ctx *PluginContext) int32
}

// MessageHandler is implemented by plugins that accept host-directed
// messages via send_message.
type MessageHandler interface {
	HandleMessage(ctx *PluginContext, msgType, data string) (string, error)
}

// PluginContext is handed to every plugin entry point by pointer; its
// address is stable for the lifetime of the LoadedPlugin it belongs to, so a
// plugin may safely cache the pointer across calls. UserData is writable by
// the plugin and preserved across calls — the Go analogue of the data
// model's user_data_slot.
type PluginContext struct {
	APIVersion string
	Host       *HostVTable
	UserData   any
}

// HostVTable is the host side of the ABI: the fixed record of callbacks
// plugins invoke to log, read/write configuration, notify the user, reach a
// structured escape hatch, and operate the service registry.
//
// Each HostVTable is built once per LoadedPlugin (see pkg/host) as a set of
// closures bound to that specific PluginHost instance and plugin id. This is
// the "cleaner alternative" of threading a host handle through every
// callback, taken one step further: because the closures already capture the
// exact host state and provider id at construction time, no handle needs to
// be threaded through calls at all, and no ambient thread-local lookup is
// needed to recover it. A callback invoked from plugin code can only ever
// reach the host state it closed over.
type HostVTable struct {
	Log                     func(level int, message string)
	ConfigGet               func(key string) (string, bool)
	ConfigSet               func(key, value string) int32
	DataDir                 func() string
	Toast                   func(level int, message string)
	HostAction              func(action, dataJSON string) (string, error)
	RegisterService         func(desc ServiceDescriptor, handle ServiceHandle) int32
	LookupService           func(id string) (ServiceHandle, bool)
	LookupServiceVersioned  func(id string, min ServiceVersion) (ServiceHandle, error)
	ListServices            func() []ServiceDescriptor
}
