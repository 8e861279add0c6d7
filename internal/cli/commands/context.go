// Package commands provides the shared context type and all CLI subcommands.
package commands

import (
	"context"

	"github.com/adi-family/pluginhost/internal/core/config"
	"github.com/adi-family/pluginhost/pkg/host"
	"github.com/adi-family/pluginhost/pkg/pluginlog"
)

// contextKey is the key type for values stored in a command context.
type contextKey string

const runtimeContextKey contextKey = "pluginhost.runtime"

// GlobalFlags holds the parsed global flags for use by subcommands.
type GlobalFlags struct {
	Debug      bool
	JSONOutput bool
}

// Runtime is the shared dependency bundle injected into each subcommand via context.
type Runtime struct {
	Config *config.Config
	Log    *pluginlog.Logger
	Host   *host.PluginHost
	Flags  GlobalFlags
}

// NewContext returns a new context carrying the Runtime.
func NewContext(parent context.Context, rt *Runtime) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithValue(parent, runtimeContextKey, rt)
}

// FromContext extracts the Runtime from ctx. Panics if not present (programming error).
func FromContext(ctx context.Context) *Runtime {
	rt, ok := ctx.Value(runtimeContextKey).(*Runtime)
	if !ok || rt == nil {
		panic("pluginhost: Runtime not found in context — missing PersistentPreRunE?")
	}
	return rt
}
