package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"taxpractice/internal/models"
	"taxpractice/internal/repositories"
)

// recordAudit appends exactly one activity-log entry for a mutating
// operation. Callers invoke it inside the same transaction as the mutation so
// the entry commits or rolls back with it. details is marshalled to JSON and
// stored verbatim.
func recordAudit(ctx context.Context, store repositories.Store, actor models.Actor,
	action models.AuditAction, resourceType, resourceID string, details any) error {

	var detailsJSON string
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return err
		}
		detailsJSON = string(b)
	}

	return store.ActivityLogs().Insert(ctx, &models.ActivityLog{
		ID:           uuid.NewString(),
		UserID:       actor.UserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      detailsJSON,
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
		CreatedAt:    time.Now(),
	})
}
