package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure TemplateStore implements the interface.
var _ driven.TemplateStore = (*TemplateStore)(nil)

// templateExt is the file extension of user templates.
const templateExt = ".tmpl"

// TemplateStore loads page templates from user-editable files on disk,
// falling back to the built-in text when a file is missing.
//
// The store initialises lazily: the directory and the starter files are
// only created on the first Load, never in the constructor.
type TemplateStore struct {
	mu       sync.RWMutex
	dir      string
	defaults map[string]string
	cache    map[string]string
	initOnce sync.Once
	initErr  error
}

// NewTemplateStore creates a file-based template store seeded with the
// built-in templates. If dir is empty, defaults to ~/.folio/templates/.
func NewTemplateStore(dir string, defaults map[string]string) (*TemplateStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(base, "templates")
	}

	builtin := make(map[string]string, len(defaults))
	for k, v := range defaults {
		builtin[k] = v
	}

	return &TemplateStore{
		dir:      dir,
		defaults: builtin,
		cache:    make(map[string]string),
	}, nil
}

// Load returns the template for name: the user's file when present,
// otherwise the built-in text.
func (s *TemplateStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if text, ok := s.defaults[name]; ok {
			return text, nil
		}
		return "", fmt.Errorf("template store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if text, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return text, nil
	}
	s.mu.RUnlock()

	text, err := s.loadFromFile(name)
	if err != nil {
		if builtin, ok := s.defaults[name]; ok {
			return builtin, nil
		}
		return "", fmt.Errorf("load template %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		text = cached
	} else {
		s.cache[name] = text
	}
	s.mu.Unlock()

	return text, nil
}

// Reload clears the template cache, forcing fresh loads from disk.
func (s *TemplateStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the template directory path.
func (s *TemplateStore) Dir() string {
	return s.dir
}

// initialise creates the template directory and writes the built-in
// templates as starting points. Existing files are left alone.
func (s *TemplateStore) initialise() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.initErr = fmt.Errorf("create template directory: %w", err)
		return
	}

	names := make([]string, 0, len(s.defaults))
	for name := range s.defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(s.dir, name+templateExt)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(s.defaults[name]), 0600); err != nil {
				s.initErr = fmt.Errorf("create default template %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(names); err != nil {
		s.initErr = err
	}
}

func (s *TemplateStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+templateExt))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *TemplateStore) createReadme(names []string) error {
	path := filepath.Join(s.dir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	var b strings.Builder
	b.WriteString("# Folio Templates\n\n")
	b.WriteString("These files control how `folio serve` and `folio render` draw pages.\n\n")
	b.WriteString("## Files\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- `%s%s`\n", name, templateExt)
	}
	b.WriteString("\nThe page template is a Go html/template. It receives the page title and\n")
	b.WriteString("its sections in display order. Delete a file to go back to the built-in version.\n")
	b.WriteString("Changes take effect on the next command or after restarting `folio serve`.\n")

	return os.WriteFile(path, []byte(b.String()), 0600)
}
