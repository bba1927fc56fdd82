// Package project discovers the ambient check configuration of a source tree.
package project

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/vovakirdan/inlinecheck/internal/options"
)

// Config is a decoded inlinecheck.toml.
type Config struct {
	Path  string
	Root  string
	Check checkConfig
}

type fileConfig struct {
	Check checkConfig `toml:"check"`
}

type checkConfig struct {
	GOOS   string            `toml:"goos"`
	GOARCH string            `toml:"goarch"`
	Tags   []string          `toml:"tags"`
	Cgo    *bool             `toml:"cgo"`
	Env    map[string]string `toml:"env"`
}

// Options converts the [check] table into check options.
func (c Config) Options() options.Options {
	return options.Options{
		GOOS:       strings.TrimSpace(c.Check.GOOS),
		GOARCH:     strings.TrimSpace(c.Check.GOARCH),
		Tags:       c.Check.Tags,
		CgoEnabled: c.Check.Cgo,
		Env:        c.Check.Env,
	}.Clone()
}

// LoadConfig decodes the file at path. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for _, tag := range fc.Check.Tags {
		if strings.ContainsAny(tag, " \t,") {
			return Config{}, fmt.Errorf("%s: [check].tags entry %q must be a single tag", path, tag)
		}
	}
	return Config{Path: path, Root: filepath.Dir(path), Check: fc.Check}, nil
}

// Discovery resolves ambient options for source directories and remembers
// every config file it decoded. Safe for concurrent use.
type Discovery struct {
	mu      sync.Mutex
	configs map[string]Config
}

func NewDiscovery() *Discovery {
	return &Discovery{configs: make(map[string]Config)}
}

// Options returns the options of the nearest inlinecheck.toml above dir and
// the path it came from. With no config file the zero Options and an empty
// path are returned.
func (d *Discovery) Options(dir string) (options.Options, string, error) {
	path, ok, err := FindConfig(dir)
	if err != nil || !ok {
		return options.Options{}, "", err
	}

	d.mu.Lock()
	cfg, cached := d.configs[path]
	d.mu.Unlock()
	if !cached {
		cfg, err = LoadConfig(path)
		if err != nil {
			return options.Options{}, path, err
		}
		d.mu.Lock()
		d.configs[path] = cfg
		d.mu.Unlock()
	}
	return cfg.Options(), path, nil
}

// Len reports how many config files are cached.
func (d *Discovery) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.configs)
}

// Reset forgets cached configs.
func (d *Discovery) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.configs = make(map[string]Config)
}
