// SPDX-License-Identifier: ice License 1.0

package activity

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/connectors/storage"
	"github.com/ae2i/recruiting/log"
	"github.com/ae2i/recruiting/time"
)

// Record appends one audit row. Auditing is best-effort: a failure here is surfaced
// in the process log and never fails the mutation that triggered it.
func Record(ctx context.Context, db storage.Execer, userID, action, entityType, entityID string, details map[string]any) {
	var encodedDetails any
	if len(details) != 0 {
		encodedDetails = details
	}
	_, err := storage.Exec(ctx, db, `
		INSERT INTO activity_logs (id, created_at, user_id, action, entity_type, entity_id, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), time.Now().Time, userID, action, entityType, entityID, encodedDetails)
	log.Error(errors.Wrapf(err, "failed to record activity %v for %v %v", action, entityType, entityID))
}
