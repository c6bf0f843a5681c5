package file

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

const configHeader = "# folio settings. Change them with `folio settings set <key> <value>`.\n\n"

// ConfigStore keeps folio settings in config.toml. Keys are dotted in
// memory ("store.backend") and written back as TOML tables.
type ConfigStore struct {
	mu   sync.RWMutex
	path string
	data map[string]any
}

// DefaultDir returns ~/.folio.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".folio"), nil
}

// NewConfigStore opens configDir/config.toml, creating the directory when
// needed. An empty configDir means DefaultDir. A missing file is an empty
// configuration.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		path: filepath.Join(configDir, "config.toml"),
		data: make(map[string]any),
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return s, nil
}

// Get retrieves a raw value.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string value.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

// GetFloat retrieves a numeric value. TOML tells 2 from 2.0, so a
// write_rate typed either way reads the same.
func (s *ConfigStore) GetFloat(key string) float64 {
	val, _ := s.Get(key)
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// GetDuration retrieves a duration such as read_header_timeout = "10s".
// A bare integer counts seconds.
func (s *ConfigStore) GetDuration(key string) time.Duration {
	val, _ := s.Get(key)
	switch v := val.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0
		}
		return d
	case int64:
		return time.Duration(v) * time.Second
	default:
		return 0
	}
}

// Set stores one value and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	return s.SetAll(map[string]any{key: value})
}

// SetAll stores every value and rewrites the file once. On a write error
// the previous values stay in effect.
func (s *ConfigStore) SetAll(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := maps.Clone(s.data)
	for k, v := range values {
		next[k] = tomlValue(v)
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.path
}

// write replaces the file through a temporary sibling so a crash never
// leaves a truncated config behind. The file may hold a Mongo URI with
// credentials, hence 0600.
func (s *ConfigStore) write(data map[string]any) error {
	body, err := toml.Marshal(nestMap(data))
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.WriteString(configHeader); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *ConfigStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}
	s.data = flattenMap(loaded, "")
	return nil
}

// tomlValue widens Go values to the types TOML decoding yields, so a value
// reads the same before and after a restart.
func tomlValue(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float32:
		return float64(n)
	case time.Duration:
		return n.String()
	default:
		return v
	}
}

// flattenMap converts nested tables to dotted keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// nestMap is the inverse of flattenMap: {"a.b": 1} becomes {"a": {"b": 1}}.
// A key that is both a value and a table prefix keeps the value.
func nestMap(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	// Shorter keys first so scalar values win over deeper tables.
	sort.Slice(keys, func(i, j int) bool {
		return strings.Count(keys[i], ".") < strings.Count(keys[j], ".")
	})

	result := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		m := result
		ok := true
		for _, p := range parts[:len(parts)-1] {
			next, exists := m[p]
			if !exists {
				child := make(map[string]any)
				m[p] = child
				m = child
				continue
			}
			child, isMap := next.(map[string]any)
			if !isMap {
				ok = false
				break
			}
			m = child
		}
		if ok {
			m[parts[len(parts)-1]] = flat[key]
		}
	}
	return result
}
