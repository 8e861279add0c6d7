package callback

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adi-family/pluginhost/pkg/abi"
	"github.com/adi-family/pluginhost/pkg/pluginlog"
	"github.com/adi-family/pluginhost/pkg/registry"
)

func newTestLogger(t *testing.T) *pluginlog.Logger {
	t.Helper()
	log, err := pluginlog.New("debug", "text", "")
	require.NoError(t, err)
	return log
}

func TestDefaultCallbacksConfigRoundTrip(t *testing.T) {
	cb := NewDefaultCallbacks(t.TempDir(), newTestLogger(t))

	_, ok := cb.ConfigGet("missing")
	require.False(t, ok)

	require.NoError(t, cb.ConfigSet("k", "v"))
	v, ok := cb.ConfigGet("k")
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestDefaultCallbacksDataDirIsPerPlugin(t *testing.T) {
	cb := NewDefaultCallbacks(t.TempDir(), newTestLogger(t))

	a := cb.DataDir("plugin.a")
	b := cb.DataDir("plugin.b")
	require.NotEqual(t, a, b)
}

func TestHostActionWithoutHandlerFails(t *testing.T) {
	cb := NewDefaultCallbacks(t.TempDir(), newTestLogger(t))
	_, err := cb.HostAction("ping", "{}")
	require.Error(t, err)
}

type invoker struct{}

func (invoker) Invoke(method string, args any) (any, error) { return nil, nil }
func (invoker) ListMethods() []string                       { return []string{"m"} }

func TestBuildVTableRegisterPinsProviderID(t *testing.T) {
	cb := NewDefaultCallbacks(t.TempDir(), newTestLogger(t))
	reg := registry.New()

	vt := BuildVTable("plugin.a", cb, reg)
	desc := abi.ServiceDescriptor{ID: "svc.x", Version: abi.ServiceVersion{Major: 1}, ProviderID: "not-the-real-provider"}
	code := vt.RegisterService(desc, abi.ServiceHandle{ServiceID: "svc.x", Invoker: invoker{}})
	require.Zero(t, code)

	list := reg.List()
	require.Len(t, list, 1)
	require.Equal(t, "plugin.a", list[0].ProviderID)
}

func TestBuildVTableLookupServices(t *testing.T) {
	cb := NewDefaultCallbacks(t.TempDir(), newTestLogger(t))
	reg := registry.New()
	vt := BuildVTable("plugin.a", cb, reg)

	_, ok := vt.LookupService("svc.x")
	require.False(t, ok)

	require.Zero(t, vt.RegisterService(abi.ServiceDescriptor{ID: "svc.x", Version: abi.ServiceVersion{Major: 1, Minor: 2}}, abi.ServiceHandle{ServiceID: "svc.x", Invoker: invoker{}}))

	_, err := vt.LookupServiceVersioned("svc.x", abi.ServiceVersion{Major: 1, Minor: 0})
	require.NoError(t, err)

	require.Len(t, vt.ListServices(), 1)
}
