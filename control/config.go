// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with YAML loading, typed decoding and
// reload propagation.

package control

import (
	"os"
	"reflect"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// ConfigStore is a dynamic key/value map with atomic snapshot and listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		config:    make(map[string]any),
		listeners: make([]func(), 0),
	}
}

// LoadFile merges the YAML document at path into the store.
func (cs *ConfigStore) LoadFile(path string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	return cs.LoadYAML(bs)
}

// LoadYAML merges a YAML document into the store.
func (cs *ConfigStore) LoadYAML(bs []byte) error {
	m := make(map[string]any)
	if err := yaml.Unmarshal(bs, &m); err != nil {
		return errors.Wrap(err, "parse config")
	}
	cs.SetConfig(m)
	return nil
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	copy := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		copy[k] = v
	}
	return copy
}

// Get returns a single value.
func (cs *ConfigStore) Get(key string) (any, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	v, ok := cs.config[key]
	return v, ok
}

// Decode fills out (a pointer to a struct) from the current snapshot.
// Input is weakly typed and durations may be given as strings ("250ms").
func (cs *ConfigStore) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return errors.Wrap(err, "config decoder")
	}
	if err := dec.Decode(cs.GetSnapshot()); err != nil {
		return errors.Wrapf(err, "decode config into %s", reflect.TypeOf(out))
	}
	return nil
}

// SetConfig merges new values and dispatches reload if needed.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	cs.dispatchReload()
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}

// dispatchReload invokes all listeners. Listeners run on their own
// goroutines and may read the store.
func (cs *ConfigStore) dispatchReload() {
	for _, fn := range cs.listeners {
		go fn()
	}
}
