package loader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adi-family/pluginhost/pkg/abi"
	"github.com/adi-family/pluginhost/pkg/hosterr"
	"github.com/adi-family/pluginhost/pkg/manifest"
)

type fakeVTable struct {
	initCode     int32
	updateCode   int32
	hasUpdate    bool
	hasMessage   bool
	messageReply string
	messageErr   error
	cleanedUp    bool
}

func (f *fakeVTable) Info() abi.PluginInfo { return abi.PluginInfo{ID: "fake"} }
func (f *fakeVTable) Init(ctx *abi.PluginContext) int32 { return f.initCode }
func (f *fakeVTable) Cleanup(ctx *abi.PluginContext)    { f.cleanedUp = true }

type fakeUpdater struct {
	*fakeVTable
}

func (f *fakeUpdater) Update(ctx *abi.PluginContext) int32 { return f.updateCode }

type fakeMessenger struct {
	*fakeVTable
}

func (f *fakeMessenger) HandleMessage(ctx *abi.PluginContext, msgType, data string) (string, error) {
	return f.messageReply, f.messageErr
}

func TestLoadMissingLibraryFails(t *testing.T) {
	_, err := Load("/nonexistent/path.so", manifest.PluginManifest{ID: "acme.x"}, nil)
	require.Error(t, err)
	require.True(t, hosterr.IsCode(err, hosterr.ErrLoadFailed))
}

func TestInitSuccessAndFailure(t *testing.T) {
	vt := &fakeVTable{initCode: 0}
	lp := newLoadedPlugin(nil, vt, manifest.PluginManifest{ID: "acme.x"}, nil)
	require.NoError(t, lp.Init())
	require.True(t, lp.Initialized)

	vt2 := &fakeVTable{initCode: 7}
	lp2 := newLoadedPlugin(nil, vt2, manifest.PluginManifest{ID: "acme.y"}, nil)
	err := lp2.Init()
	require.Error(t, err)
	require.True(t, hosterr.IsCode(err, hosterr.ErrInitFailed))
	require.False(t, lp2.Initialized)
}

func TestUpdateRequiresInitAndOptionalInterface(t *testing.T) {
	vt := &fakeVTable{}
	lp := newLoadedPlugin(nil, vt, manifest.PluginManifest{ID: "acme.x"}, nil)
	require.Error(t, lp.Update())

	require.NoError(t, lp.Init())
	require.NoError(t, lp.Update()) // no Updater implemented: no-op

	updater := &fakeUpdater{fakeVTable: &fakeVTable{updateCode: 0}}
	lp2 := newLoadedPlugin(nil, updater, manifest.PluginManifest{ID: "acme.z"}, nil)
	require.NoError(t, lp2.Init())
	require.NoError(t, lp2.Update())

	updater.updateCode = 3
	err := lp2.Update()
	require.Error(t, err)
	require.True(t, hosterr.IsCode(err, hosterr.ErrInitFailed))
}

func TestSendMessage(t *testing.T) {
	msger := &fakeMessenger{fakeVTable: &fakeVTable{messageReply: "pong"}}
	lp := newLoadedPlugin(nil, msger, manifest.PluginManifest{ID: "acme.m"}, nil)

	_, err := lp.SendMessage("ping", "")
	require.Error(t, err) // not initialized yet

	require.NoError(t, lp.Init())
	reply, err := lp.SendMessage("ping", "")
	require.NoError(t, err)
	require.Equal(t, "pong", reply)

	msger.messageErr = errors.New("boom")
	_, err = lp.SendMessage("ping", "")
	require.Error(t, err)
	require.True(t, hosterr.IsCode(err, hosterr.ErrInitFailed))
}

func TestSendMessageWithoutHandlerReturnsEmpty(t *testing.T) {
	vt := &fakeVTable{}
	lp := newLoadedPlugin(nil, vt, manifest.PluginManifest{ID: "acme.n"}, nil)
	require.NoError(t, lp.Init())

	reply, err := lp.SendMessage("ping", "")
	require.NoError(t, err)
	require.Empty(t, reply)
}

func TestCleanupIsIdempotent(t *testing.T) {
	vt := &fakeVTable{}
	lp := newLoadedPlugin(nil, vt, manifest.PluginManifest{ID: "acme.c"}, nil)
	require.NoError(t, lp.Init())

	lp.Cleanup()
	require.True(t, vt.cleanedUp)
	require.False(t, lp.Initialized)

	vt.cleanedUp = false
	lp.Cleanup() // already not initialized: no-op
	require.False(t, vt.cleanedUp)
}
