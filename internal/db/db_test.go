package db

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akonno/HanoiSimulator/assets"
)

func TestOpenAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hanoi.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, assets.Migrations()))
	// Second run is a no-op.
	require.NoError(t, Migrate(db, assets.Migrations()))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)

	_, err = db.Exec(`INSERT INTO solves(disk_count, moves, optimal) VALUES (3, 7, 1)`)
	require.NoError(t, err)
}

func TestMigrate_OrderAndFailure(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"002_b.sql": {Data: []byte(`ALTER TABLE a ADD COLUMN note TEXT;`)},
		"001_a.sql": {Data: []byte(`CREATE TABLE a (id INTEGER PRIMARY KEY);`)},
		"README.md": {Data: []byte(`ignored`)},
	}
	require.NoError(t, Migrate(db, fsys))

	_, err = db.Exec(`INSERT INTO a(note) VALUES ('x')`)
	require.NoError(t, err)

	bad := fstest.MapFS{"003_bad.sql": {Data: []byte(`NOT SQL AT ALL;`)}}
	err = Migrate(db, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "003_bad.sql")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations WHERE name='003_bad.sql'`).Scan(&n))
	assert.Equal(t, 0, n)
}
