package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akonno/HanoiSimulator/assets"
	"github.com/akonno/HanoiSimulator/internal/db"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn, assets.Migrations()))
	return NewService(conn, "test-secret", time.Hour)
}

func TestSignupLoginVerify(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	u, err := s.Signup(ctx, "  disk_mover ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "disk_mover", u.Username)
	assert.Len(t, u.ID, 22)

	_, err = s.Signup(ctx, "DISK_MOVER", "password123")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := s.Login(ctx, "disk_mover", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Login(ctx, "disk_mover", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidLogin)
	_, err = s.Login(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidLogin)

	tok, exp, err := s.Issue(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	me, err := s.Verify(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)
}

func TestVerifyRejects(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	u, err := s.Signup(ctx, "player1", "password123")
	require.NoError(t, err)

	_, err = s.Verify(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewService(s.db, "other-secret", time.Hour)
	tok, _, err := other.Issue(u)
	require.NoError(t, err)
	_, err = s.Verify(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewService(s.db, "test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err = expired.Issue(u)
	require.NoError(t, err)
	_, err = s.Verify(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	ghost := &User{ID: "missing", Username: "ghost"}
	tok, _, err = s.Issue(ghost)
	require.NoError(t, err)
	_, err = s.Verify(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name     string
		user, pw string
		ok       bool
	}{
		{name: "valid", user: "abc", pw: "12345678", ok: true},
		{name: "short user", user: "ab", pw: "12345678"},
		{name: "bad chars", user: "a-b-c", pw: "12345678"},
		{name: "short password", user: "abc", pw: "1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSignup(tt.user, tt.pw)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
