package control_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sock/api"
	"github.com/momentics/hioload-sock/control"
)

type sample struct {
	Addr    string        `mapstructure:"listen_addr"`
	Backlog int           `mapstructure:"backlog"`
	Reuse   bool          `mapstructure:"reuse"`
	Retry   time.Duration `mapstructure:"retry_max"`
}

func TestConfigStoreLoadAndDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: "127.0.0.1:9000"
backlog: "16"
reuse: false
retry_max: 2s
`), 0o600))

	cs := control.NewConfigStore()
	require.NoError(t, cs.LoadFile(path))

	var s sample
	require.NoError(t, cs.Decode(&s))
	assert.Equal(t, "127.0.0.1:9000", s.Addr)
	assert.Equal(t, 16, s.Backlog)
	assert.False(t, s.Reuse)
	assert.Equal(t, 2*time.Second, s.Retry)

	v, ok := cs.Get("backlog")
	assert.True(t, ok)
	assert.Equal(t, "16", v)
}

func TestConfigStoreErrors(t *testing.T) {
	cs := control.NewConfigStore()
	assert.Error(t, cs.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, cs.LoadYAML([]byte("backlog: [")))

	cs.SetConfig(map[string]any{"backlog": "many"})
	var s sample
	assert.Error(t, cs.Decode(&s))
}

func TestConfigStoreReload(t *testing.T) {
	cs := control.NewConfigStore()
	var wg sync.WaitGroup
	wg.Add(1)
	cs.OnReload(wg.Done)
	cs.SetConfig(map[string]any{"log_level": "debug"})
	wg.Wait()

	snap := cs.GetSnapshot()
	snap["log_level"] = "mutated"
	v, _ := cs.Get("log_level")
	assert.Equal(t, "debug", v)
}

func TestMetricsRegistry(t *testing.T) {
	reg := control.NewMetricsRegistry()
	assert.Equal(t, int64(1), reg.Add("accept.ok", 1))
	assert.Equal(t, int64(3), reg.Add("accept.ok", 2))
	assert.Equal(t, int64(3), reg.Counter("accept.ok"))
	assert.Zero(t, reg.Counter("missing"))

	reg.Set("acceptor.addr", "127.0.0.1:1")
	v, ok := reg.Get("acceptor.addr")
	require.True(t, ok)
	assert.Equal(t, "127.0.0.1:1", v)
	assert.False(t, reg.Updated().IsZero())

	snap := reg.GetSnapshot()
	assert.Len(t, snap, 2)
}

func TestDebugProbes(t *testing.T) {
	dp := control.NewDebugProbes()
	control.RegisterPlatformProbes(dp)
	dp.RegisterProbe("queue.len", func() any { return 0 })

	state := dp.DumpState()
	assert.Contains(t, state, "platform.os")
	assert.Contains(t, state, "platform.reuse_default")
	assert.Equal(t, 0, state["queue.len"])
	assert.Contains(t, dp.Names(), "queue.len")
}

// recordingDebug is a minimal api.Debug that only remembers probe names.
type recordingDebug struct {
	names []string
}

func (r *recordingDebug) DumpState() map[string]any { return nil }

func (r *recordingDebug) RegisterProbe(name string, _ func() any) {
	r.names = append(r.names, name)
}

func TestProbesRegisterOnAnyDebug(t *testing.T) {
	var d api.Debug = &recordingDebug{}
	control.RegisterPlatformProbes(d)
	control.RegisterProcessProbes(d)

	names := d.(*recordingDebug).names
	assert.Contains(t, names, "platform.os")
	assert.Contains(t, names, "process.num_fds")
}
