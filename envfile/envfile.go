package envfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/envproxy"
)

// ErrUnknownKey reports a file key that is not one of the proxy variable
// names.
var ErrUnknownKey = errors.New("unknown proxy variable")

// validKeys maps every acceptable file key to its canonical lowercase
// variable name.
var validKeys = map[string]string{
	envproxy.HTTPProxyVar:  envproxy.HTTPProxyVar,
	"HTTP_PROXY":           envproxy.HTTPProxyVar,
	envproxy.HTTPSProxyVar: envproxy.HTTPSProxyVar,
	"HTTPS_PROXY":          envproxy.HTTPSProxyVar,
	envproxy.FTPProxyVar:   envproxy.FTPProxyVar,
	"FTP_PROXY":            envproxy.FTPProxyVar,
	envproxy.AllProxyVar:   envproxy.AllProxyVar,
	"ALL_PROXY":            envproxy.AllProxyVar,
	envproxy.NoProxyVar:    envproxy.NoProxyVar,
	"NO_PROXY":             envproxy.NoProxyVar,
}

// Parse reads a YAML mapping of proxy variables. Keys must be variable
// names in exactly lowercase or uppercase form; anything else fails with
// ErrUnknownKey. A null value is read as an empty string.
func Parse(data []byte) (envproxy.Snapshot, error) {
	var raw map[string]*string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return envproxy.Snapshot{}, fmt.Errorf("failed to parse proxy variables: %w", err)
	}

	var unknown []string
	for key := range raw {
		if _, ok := validKeys[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return envproxy.Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(unknown, ", "))
	}

	env := make(envproxy.MapEnvironment, len(raw))
	for key, value := range raw {
		if value == nil {
			env[key] = ""
			continue
		}
		env[key] = *value
	}

	// Capture collapses the case pairs with the same lowercase-first
	// precedence the resolver applies.
	return envproxy.Capture(env), nil
}

// Load reads and parses the proxy variable file at path.
func Load(path string) (envproxy.Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // caller-supplied configuration path
	if err != nil {
		return envproxy.Snapshot{}, fmt.Errorf("failed to read proxy variable file %s: %w", path, err)
	}

	snap, err := Parse(data)
	if err != nil {
		return envproxy.Snapshot{}, fmt.Errorf("invalid proxy variable file %s: %w", path, err)
	}

	return snap, nil
}

// Source serves proxy variables from a file. It implements
// envproxy.Environment and can be reloaded at any time; lookups see either
// the previous or the new snapshot, never a mix.
type Source struct {
	path string

	mu      sync.RWMutex
	snap    envproxy.Snapshot
	lastErr error
}

// NewSource loads path and returns a reloadable variable source.
func NewSource(path string) (*Source, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	snap, err := Load(absPath)
	if err != nil {
		return nil, err
	}

	return &Source{path: absPath, snap: snap}, nil
}

// Lookup implements envproxy.Environment.
func (s *Source) Lookup(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Lookup(name)
}

// Snapshot returns the currently served snapshot.
func (s *Source) Snapshot() envproxy.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Path returns the absolute path of the backing file.
func (s *Source) Path() string {
	return s.path
}

// Reload re-reads the backing file. On error the previous snapshot stays in
// place and LastError reports the failure until a later reload succeeds.
func (s *Source) Reload() error {
	snap, err := Load(s.path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err
		return err
	}

	s.snap = snap
	s.lastErr = nil

	return nil
}

// LastError returns the error from the most recent Reload, or nil when the
// served snapshot is current.
func (s *Source) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
