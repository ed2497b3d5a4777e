package domain

import "context"

// Auditor records entity mutations. Implemented by the storage audit log;
// services call it inside the mutating transaction.
type Auditor interface {
	Record(ctx context.Context, entityType, entityID, action string, payload any) error
}

// NopAuditor discards all entries. Used in tests and tooling.
type NopAuditor struct{}

func (NopAuditor) Record(context.Context, string, string, string, any) error { return nil }
