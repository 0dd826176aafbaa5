package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT REPOSITORY
// The study log is persisted as one JSONB document per account. Every
// write replaces the whole document; there are no partial updates, so
// the last push always wins and the stored document is always a state
// the application actually held in memory.
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotRepository persists study-log snapshots as whole documents.
type SnapshotRepository struct {
	conn *Connection
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(conn *Connection) *SnapshotRepository {
	return &SnapshotRepository{conn: conn}
}

// Load reads the snapshot document for an account. A missing row maps
// to shared.ErrSnapshotNotFound so callers can start from an empty log.
func (r *SnapshotRepository) Load(ctx context.Context, accountID string) (tracker.Snapshot, error) {
	var doc []byte
	err := r.conn.QueryRow(ctx, `
		SELECT doc
		FROM account_documents
		WHERE account_id = $1
	`, accountID).Scan(&doc)
	if err != nil {
		if IsNoRows(err) {
			return tracker.Snapshot{}, shared.ErrSnapshotNotFound
		}
		return tracker.Snapshot{}, fmt.Errorf("postgres: load snapshot: %w", err)
	}

	var snapshot tracker.Snapshot
	if err := json.Unmarshal(doc, &snapshot); err != nil {
		return tracker.Snapshot{}, fmt.Errorf("postgres: decode snapshot: %w", err)
	}
	return snapshot, nil
}

// Replace upserts the whole snapshot document for an account.
func (r *SnapshotRepository) Replace(ctx context.Context, accountID string, snapshot tracker.Snapshot) error {
	doc, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSnapshotEncode, err)
	}

	_, err = r.conn.Exec(ctx, `
		INSERT INTO account_documents (account_id, doc, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE
		SET doc = EXCLUDED.doc,
		    last_updated = EXCLUDED.last_updated
	`, accountID, doc, snapshot.LastUpdated)
	if err != nil {
		return fmt.Errorf("postgres: replace snapshot: %w", err)
	}
	return nil
}
