package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"breadroute/internal/core/id"
	"breadroute/pkg/logger"
)

// Payloads above this size are stored zstd-compressed. Most catalog
// mutations are tiny; settlement snapshots with many lines are not.
const compressThreshold = 10 * 1024

// Audit actions recorded against entities.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionCommit = "commit"
	AuditActionAdjust = "adjust"
)

// AuditEntry is one row in the audit log.
type AuditEntry struct {
	ID         id.ID       `db:"id"`
	EntityType string      `db:"entity_type"`
	EntityID   string      `db:"entity_id"`
	Action     string      `db:"action"`
	Payload    []byte      `db:"payload"`
	Compressed bool        `db:"compressed"`
	CreatedAt  time.Time   `db:"created_at"`
}

// AuditLog records entity mutations for later inspection.
type AuditLog struct {
	txManager *TxManager
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
}

// NewAuditLog creates an audit log writer backed by the sys_audit table.
func NewAuditLog(txManager *TxManager) (*AuditLog, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &AuditLog{txManager: txManager, encoder: enc, decoder: dec}, nil
}

// Record writes an audit entry. payload is marshaled to JSON and compressed
// when large. Runs on the caller's transaction when one is active, so audit
// rows commit atomically with the mutation they describe.
func (a *AuditLog) Record(ctx context.Context, entityType, entityID, action string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	compressed := false
	if len(data) > compressThreshold {
		data = a.encoder.EncodeAll(data, nil)
		compressed = true
	}

	entry := AuditEntry{
		ID:         id.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Payload:    data,
		Compressed: compressed,
		CreatedAt:  time.Now().UTC(),
	}

	query, args, err := sq.Insert("sys_audit").
		SetMap(StructToMap(entry)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}

	q := a.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	logger.Debug(ctx, "audit entry recorded",
		"entity_type", entityType,
		"entity_id", entityID,
		"action", action,
	)
	return nil
}

// List returns recent entries, newest first. Empty entityType or entityID
// means no filter on that column.
func (a *AuditLog) List(ctx context.Context, entityType, entityID string, limit int) ([]AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	builder := sq.Select(ExtractDBColumns[AuditEntry]()...).
		From("sys_audit").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)
	if entityType != "" {
		builder = builder.Where(sq.Eq{"entity_type": entityType})
	}
	if entityID != "" {
		builder = builder.Where(sq.Eq{"entity_id": entityID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit list: %w", err)
	}

	var entries []AuditEntry
	if err := pgxscan.Select(ctx, a.txManager.GetQuerier(ctx), &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

// Decode returns the decompressed JSON payload of an entry.
func (a *AuditLog) Decode(entry *AuditEntry) ([]byte, error) {
	if !entry.Compressed {
		return entry.Payload, nil
	}
	data, err := a.decoder.DecodeAll(entry.Payload, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress audit payload: %w", err)
	}
	return data, nil
}
