package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader finds themes by name. Search order is an existing file path, the
// embedded themes, ConfigDir and then SystemDir.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader returns a Loader using the per-user and system theme folders.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "shineypaint", "themes"),
		SystemDir: "/usr/share/shineypaint/themes",
	}
}

// Load returns the named theme, or the default for an empty name.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return parseFile(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}

	file := name
	if !strings.HasSuffix(file, ".theme") {
		file += ".theme"
	}
	sources := []fs.FS{mustSub(EmbeddedThemes, "defaults")}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir != "" {
			sources = append(sources, os.DirFS(dir))
		}
	}
	for _, src := range sources {
		t, err := parseFile(src, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return t, err
	}
	return nil, fmt.Errorf("theme '%s' not found", name)
}

// Resolve picks the theme name from the flag, then SHINEYPAINT_THEME, then
// the configured name, and loads it. Themes defined inline in the config
// file win over files of the same name.
func (l *Loader) Resolve(flag, configured string, inline map[string]*Theme) (*Theme, error) {
	name := flag
	if name == "" {
		name = os.Getenv("SHINEYPAINT_THEME")
	}
	if name == "" {
		name = configured
	}
	if t, ok := inline[name]; ok {
		return t, nil
	}
	return l.Load(name)
}

func parseFile(fsys fs.FS, name string) (*Theme, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", name, err)
	}
	return t, nil
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
