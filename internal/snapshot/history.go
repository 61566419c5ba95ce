package snapshot

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoHistory is returned by History for a SQLite snapshot, which keeps
// only the latest scan.
var ErrNoHistory = errors.New("scan history needs storage.backend: dolt")

// Commit is one saved scan of a Dolt snapshot.
type Commit struct {
	Hash      string `json:"hash" yaml:"hash"`
	Committer string `json:"committer" yaml:"committer"`
	Date      string `json:"date" yaml:"date"`
	Message   string `json:"message" yaml:"message"`
}

// History returns up to limit Dolt commits, newest first. Every Save is one
// commit; the repository's initial commit is included.
func (s *Snapshot) History(ctx context.Context, limit int) ([]Commit, error) {
	if s.backend != Dolt {
		return nil, ErrNoHistory
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT commit_hash, committer, date, message FROM dolt_log ORDER BY date DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query dolt_log: %w", err)
	}
	defer rows.Close()

	var commits []Commit
	for rows.Next() {
		var c Commit
		if err := rows.Scan(&c.Hash, &c.Committer, &c.Date, &c.Message); err != nil {
			return nil, fmt.Errorf("scan dolt_log: %w", err)
		}
		commits = append(commits, c)
	}
	return commits, rows.Err()
}
