package records

import (
	"context"
	"database/sql"
	"errors"
)

// Solve is one finished playback of a program that ends with every disk on peg C.
type Solve struct {
	UserID      string `json:"userId,omitempty"`
	AnonymousID string `json:"-"`
	DiskCount   int    `json:"diskCount"`
	Moves       int    `json:"moves"`
	Optimal     bool   `json:"optimal"`
}

// Row is a leaderboard entry.
type Row struct {
	Player    string `json:"player"`
	Moves     int    `json:"moves"`
	Optimal   bool   `json:"optimal"`
	CreatedAt string `json:"createdAt"`
}

// UserStats are the per-account counters.
type UserStats struct {
	Solves  int `json:"solves"`
	Optimal int `json:"optimal"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert records a solve and, for signed-in players, bumps their counters
// in the same transaction.
func (s *Store) Insert(ctx context.Context, r Solve) error {
	if r.UserID == "" && r.AnonymousID == "" {
		return errors.New("solve without owner")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO solves(user_id, anonymous_id, disk_count, moves, optimal)
		VALUES(?,?,?,?,?)`,
		nullable(r.UserID), nullable(r.AnonymousID), r.DiskCount, r.Moves, r.Optimal,
	); err != nil {
		return err
	}
	if r.UserID != "" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET solves = solves + 1, optimal = optimal + ? WHERE id=?`,
			boolInt(r.Optimal), r.UserID,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Leaderboard returns the shortest solutions for diskCount, oldest first on ties.
func (s *Store) Leaderboard(ctx context.Context, diskCount, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(u.username, 'guest'), s.moves, s.optimal, s.created_at
		FROM solves s LEFT JOIN users u ON u.id = s.user_id
		WHERE s.disk_count=?
		ORDER BY s.moves ASC, s.created_at ASC, s.id ASC
		LIMIT ?`, diskCount, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Row, 0, limit)
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Player, &r.Moves, &r.Optimal, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimAnonymous moves guest solves onto an account after signup or login.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n, opt int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(optimal),0) FROM solves WHERE anonymous_id=? AND user_id IS NULL`, anonID,
	).Scan(&n, &opt); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE solves SET user_id=?, anonymous_id=NULL WHERE anonymous_id=? AND user_id IS NULL`, userID, anonID,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET solves = solves + ?, optimal = optimal + ? WHERE id=?`, n, opt, userID,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Stats loads the counters for a user.
func (s *Store) Stats(ctx context.Context, userID string) (UserStats, error) {
	var st UserStats
	err := s.db.QueryRowContext(ctx,
		`SELECT solves, optimal FROM users WHERE id=?`, userID,
	).Scan(&st.Solves, &st.Optimal)
	return st, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
