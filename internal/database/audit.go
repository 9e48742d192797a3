package database

import (
	"context"
	"fmt"
	"time"
)

// AuditRecord is one row of the domain event audit trail.
type AuditRecord struct {
	ID        int64
	EventType string
	Payload   string
	CreatedAt time.Time
}

func (db *DB) InsertAuditRecord(ctx context.Context, eventType string, payload []byte) error {
	query := `INSERT INTO audit_log (event_type, payload, created_at) VALUES (?, ?, ?)`
	_, err := db.ExecContext(ctx, query, eventType, string(payload), utc(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

func (db *DB) GetAuditRecords(ctx context.Context, eventType string, limit int) ([]*AuditRecord, error) {
	query := `SELECT id, event_type, payload, created_at
              FROM audit_log WHERE event_type = ?
              ORDER BY id DESC LIMIT ?`
	rows, err := db.QueryContext(ctx, query, eventType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit records: %w", err)
	}
	defer rows.Close()

	var records []*AuditRecord
	for rows.Next() {
		r := &AuditRecord{}
		if err := rows.Scan(&r.ID, &r.EventType, &r.Payload, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
