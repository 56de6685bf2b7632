// Package casconfig opens one or more archive backends from a JSON file,
// composing them into a single storage.CAS. It exists so deployments can
// change their storage topology (local cache, IPFS pinning, a remote
// daemon) without touching flags or code.
package casconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/primus-labs/zktls-go/storage"
	"github.com/primus-labs/zktls-go/storage/casregistry"
)

// Config lists the backends to open, in read-fallback order. Backends are
// opened through casregistry, so the binary must link the wanted ones via
// blank imports.
//
// WritePolicy selects the composition:
//   - "first" (default): storage.MultiCAS — write the first backend, read
//     through all of them
//   - "all": storage.ReplicatingCAS — write everywhere, require CID
//     agreement
//
// Example:
//
//	{
//	  "write_policy": "all",
//	  "backends": [
//	    {"name":"localfs", "config":{"localfs-dir":"/var/lib/primus/cas"}},
//	    {"name":"ipfs", "config":{"ipfs-path":"/var/lib/primus/ipfs", "ipfs-pin":"true"}}
//	  ]
//	}
type Config struct {
	WritePolicy string          `json:"write_policy,omitempty"`
	Backends    []BackendConfig `json:"backends"`
}

// BackendConfig names one backend plus its options. Option keys mirror the
// backend's CLI flag names (see each backend's casregistry registration).
type BackendConfig struct {
	Name string `json:"name"`
	// ID is an optional alias; it becomes the backend's name in replication
	// reports and must be unique. Defaults to Name.
	ID     string            `json:"id,omitempty"`
	Config map[string]string `json:"config,omitempty"`
}

func (b BackendConfig) ident() string {
	if b.ID != "" {
		return b.ID
	}
	return b.Name
}

// LoadFile reads and validates a config file.
func LoadFile(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, errors.New("casconfig: empty config path")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if len(c.Backends) == 0 {
		return errors.New("casconfig: at least one backend is required")
	}
	seen := make(map[string]struct{}, len(c.Backends))
	for _, b := range c.Backends {
		if b.Name == "" {
			return errors.New("casconfig: backend name is required")
		}
		id := b.ident()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("casconfig: duplicate backend id %q", id)
		}
		seen[id] = struct{}{}
	}
	switch c.WritePolicy {
	case "", "first", "all":
		return nil
	default:
		return fmt.Errorf("casconfig: invalid write_policy %q", c.WritePolicy)
	}
}

// Open materializes the config into a CAS plus a close function that
// releases every opened backend (last opened first).
//
// A non-empty preferred moves the matching backend (by Name or ID) to the
// front, making it the write target under the "first" policy. Naming a
// backend absent from the file is an error rather than a silent fallback.
func (c Config) Open(usage casregistry.Usage, preferred string) (storage.CAS, func() error, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	ordered := append([]BackendConfig(nil), c.Backends...)
	if preferred != "" {
		front := -1
		for i := range ordered {
			if ordered[i].Name == preferred || ordered[i].ID == preferred {
				front = i
				break
			}
		}
		if front < 0 {
			return nil, nil, fmt.Errorf("casconfig: preferred backend %q not found in config", preferred)
		}
		if front > 0 {
			b := ordered[front]
			copy(ordered[1:front+1], ordered[0:front])
			ordered[0] = b
		}
	}

	var (
		named   []storage.NamedCAS
		closers []func() error
	)
	closeAll := func() error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	for _, b := range ordered {
		cas, closeFn, err := casregistry.OpenWithConfig(b.Name, usage, b.Config)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		named = append(named, storage.NamedCAS{Name: b.ident(), CAS: cas})
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	if len(named) == 1 {
		return named[0].CAS, closeAll, nil
	}
	if c.WritePolicy == "all" {
		return storage.ReplicatingCAS{Backends: named}, closeAll, nil
	}
	tiers := make([]storage.CAS, 0, len(named))
	for _, n := range named {
		tiers = append(tiers, n.CAS)
	}
	return storage.MultiCAS{Tiers: tiers}, closeAll, nil
}
