package assets

import (
	"embed"
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed presets/*.txt
var presetFS embed.FS

//go:embed sql/*.sql
var migrationFS embed.FS

// ErrUnknownPreset is returned by Preset for names with no embedded script.
var ErrUnknownPreset = errors.New("unknown preset")

// Migrations exposes the SQL migration files rooted at the sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFS, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

// PresetNames lists the embedded move scripts, sorted.
func PresetNames() ([]string, error) {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(out)
	return out, nil
}

// Preset returns the move script stored under name.
func Preset(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "/\\.") {
		return "", ErrUnknownPreset
	}
	b, err := presetFS.ReadFile(path.Join("presets", name+".txt"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrUnknownPreset
		}
		return "", err
	}
	return string(b), nil
}
