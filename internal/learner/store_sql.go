package learner

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mind-engage/grammaire/internal/quiz"
)

// SQLStore keeps history and profile in the tables created by db.Open.
// It works on both sqlite and postgres.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) LoadHistory(ctx context.Context) ([]quiz.SessionResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category_id, session_id, score, correct_count, total_count, completed_at
		 FROM quiz_history ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []quiz.SessionResult
	for rows.Next() {
		var r quiz.SessionResult
		var ts int64
		if err := rows.Scan(&r.CategoryID, &r.SessionID, &r.Score, &r.CorrectCount, &r.TotalCount, &ts); err != nil {
			return nil, err
		}
		r.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveHistory replaces the stored history.
func (s *SQLStore) SaveHistory(ctx context.Context, h []quiz.SessionResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM quiz_history`); err != nil {
		return err
	}
	for _, r := range h {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO quiz_history (category_id, session_id, score, correct_count, total_count, completed_at)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			r.CategoryID, r.SessionID, r.Score, r.CorrectCount, r.TotalCount, r.Timestamp.UnixMilli()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) LoadProfile(ctx context.Context) (Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT proficiency_level, strengths, weaknesses FROM learner_profile WHERE id=1`)
	var level, strengths, weaknesses string
	if err := row.Scan(&level, &strengths, &weaknesses); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNoProfile
		}
		return Profile{}, err
	}
	return Profile{
		ProficiencyLevel: Level(level),
		Strengths:        splitList(strengths),
		Weaknesses:       splitList(weaknesses),
	}, nil
}

func (s *SQLStore) SaveProfile(ctx context.Context, p Profile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learner_profile (id, proficiency_level, strengths, weaknesses, updated_at)
		 VALUES (1,$1,$2,$3,$4)
		 ON CONFLICT (id) DO UPDATE SET proficiency_level=EXCLUDED.proficiency_level,
		   strengths=EXCLUDED.strengths, weaknesses=EXCLUDED.weaknesses, updated_at=EXCLUDED.updated_at`,
		string(p.ProficiencyLevel), strings.Join(p.Strengths, ","), strings.Join(p.Weaknesses, ","), time.Now().Unix())
	return err
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
