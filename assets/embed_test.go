package assets

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akonno/HanoiSimulator/internal/hanoi"
)

func TestPresetNames(t *testing.T) {
	names, err := PresetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"demo", "seven-disks", "three-disks"}, names)
}

func TestPresetsCompile(t *testing.T) {
	tests := []struct {
		name   string
		disks  int
		moves  int
		solved bool
	}{
		{name: "demo", disks: 3, moves: 7, solved: false},
		{name: "three-disks", disks: 3, moves: 7, solved: true},
		{name: "seven-disks", disks: 7, moves: 127, solved: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Preset(tt.name)
			require.NoError(t, err)
			p, err := hanoi.Compile(text, tt.disks)
			require.NoError(t, err)
			assert.Equal(t, tt.moves, p.Len())
			assert.Equal(t, tt.solved, p.Solved())
		})
	}
}

func TestPresetUnknown(t *testing.T) {
	for _, name := range []string{"", "missing", "../sql/001_init", "demo.txt"} {
		_, err := Preset(name)
		assert.ErrorIs(t, err, ErrUnknownPreset, name)
	}
}

func TestMigrations(t *testing.T) {
	files, err := fs.Glob(Migrations(), "*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "001_init.sql")
}
