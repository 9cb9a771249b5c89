package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"anistream/internal/media"
)

// Record appends a resolution to the log. A missing ID or timestamp is filled in.
func (s *Store) Record(ctx context.Context, e media.HistoryEntry) (media.HistoryEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ResolvedAt.IsZero() {
		e.ResolvedAt = time.Now()
	}
	e.ResolvedAt = e.ResolvedAt.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolutions (id, slug, episode, page_url, stream_url, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Slug, e.Episode, e.PageURL, e.StreamURL, e.ResolvedAt.UnixMilli(),
	)
	if err != nil {
		return e, fmt.Errorf("recording resolution %s: %w", e.ID, err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]media.HistoryEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, episode, page_url, stream_url, resolved_at
		 FROM resolutions
		 ORDER BY resolved_at DESC, rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []media.HistoryEntry
	for rows.Next() {
		var (
			e  media.HistoryEntry
			ms int64
		)
		if err := rows.Scan(&e.ID, &e.Slug, &e.Episode, &e.PageURL, &e.StreamURL, &ms); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.ResolvedAt = time.UnixMilli(ms).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return entries, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM resolutions"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// FormatForDisplay returns one line per entry for display in fzf.
func FormatForDisplay(entries []media.HistoryEntry) []string {
	items := make([]string, len(entries))
	for i, e := range entries {
		outcome := "direct"
		if e.StreamURL == "" {
			outcome = "browser"
		}
		items[i] = fmt.Sprintf("%s  %s E%02d  (%s)",
			e.ResolvedAt.Local().Format("2006-01-02 15:04"), e.Slug, e.Episode, outcome)
	}
	return items
}
