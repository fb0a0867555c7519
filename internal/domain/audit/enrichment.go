// Package audit provides audit trail wiring for domain entities.
package audit

import (
	"context"

	appctx "stockpoint/internal/core/context"
	"stockpoint/internal/core/id"
	"stockpoint/pkg/logger"
)

// Action mirrors the audited operation kinds the store accepts.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionCancel  Action = "cancel"
	ActionDeliver Action = "deliver"
)

// Recorder is the audit store dependency. The postgres implementation
// compresses large payloads and writes through the caller's transaction
// when one is active.
type Recorder interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action Action, changes map[string]any) error
}

// Identifiable is satisfied by every entity embedding BaseEntity.
type Identifiable interface {
	GetID() id.ID
}

// Hook builds a lifecycle hook that records one audit entry per event.
// Audit failures are logged and swallowed: a missing trail line must not
// fail the business operation.
func Hook[T Identifiable](rec Recorder, entityType string, action Action, snapshot func(T) map[string]any) func(ctx context.Context, e T) error {
	return func(ctx context.Context, e T) error {
		changes := map[string]any{}
		if snapshot != nil {
			changes = snapshot(e)
		}
		if err := rec.LogChange(ctx, entityType, e.GetID(), action, changes); err != nil {
			logger.Warn(ctx, "audit write failed",
				"entity_type", entityType,
				"entity_id", e.GetID(),
				"action", action,
				"error", err,
			)
		}
		return nil
	}
}

// EnrichCreatedBy sets CreatedBy and UpdatedBy fields from the context user.
// Use in BeforeCreate hooks. No-op without an authenticated user.
func EnrichCreatedBy(ctx context.Context, createdBy, updatedBy *string) {
	userID := appctx.GetUserID(ctx)
	if userID != "" && createdBy != nil && updatedBy != nil {
		*createdBy = userID
		*updatedBy = userID
	}
}

// EnrichUpdatedBy sets only the UpdatedBy field from the context user.
// Use in BeforeUpdate hooks.
func EnrichUpdatedBy(ctx context.Context, updatedBy *string) {
	userID := appctx.GetUserID(ctx)
	if userID != "" && updatedBy != nil {
		*updatedBy = userID
	}
}
