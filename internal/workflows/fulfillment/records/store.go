// internal/workflows/fulfillment/records/store.go

// Package records persists the fulfillment audit trail. One row per
// processed payment event, whatever the outcome.
package records

import (
	"context"
	"database/sql"
	"time"

	"siteforge/internal/common/errors"
	"siteforge/internal/models"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Store struct {
	db     *sql.DB
	logger Logger
}

func NewStore(db *sql.DB, log Logger) *Store {
	return &Store{
		db: db,
		logger: log.With(map[string]interface{}{
			"component": "fulfillment-records",
		}),
	}
}

const insertQuery = `
	INSERT INTO fulfillments (
		event_id, pending_id, company_name, project_name,
		deployment_id, public_domain, status, error_detail, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (event_id) DO NOTHING`

// Insert writes one fulfillment row. Conflicting event ids are ignored so
// a redelivered event that slipped past the dedup guard cannot double-log.
func (s *Store) Insert(ctx context.Context, record *models.FulfillmentRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, insertQuery,
		record.EventID,
		record.PendingID,
		record.CompanyName,
		record.ProjectName,
		record.DeploymentID,
		record.PublicDomain,
		record.Status,
		record.ErrorDetail,
		record.CreatedAt,
	)
	if err != nil {
		return errors.NewRecordInsertFailedError(err)
	}

	s.logger.Info("fulfillment recorded", map[string]interface{}{
		"eventId": record.EventID,
		"status":  record.Status,
	})
	return nil
}

const getByPendingQuery = `
	SELECT event_id, pending_id, company_name, project_name,
	       deployment_id, public_domain, status, error_detail, created_at
	FROM fulfillments WHERE pending_id = $1
	ORDER BY created_at DESC LIMIT 1`

// GetByPendingID returns the latest fulfillment row for a staged site.
func (s *Store) GetByPendingID(ctx context.Context, pendingID string) (*models.FulfillmentRecord, error) {
	var record models.FulfillmentRecord
	err := s.db.QueryRowContext(ctx, getByPendingQuery, pendingID).Scan(
		&record.EventID,
		&record.PendingID,
		&record.CompanyName,
		&record.ProjectName,
		&record.DeploymentID,
		&record.PublicDomain,
		&record.Status,
		&record.ErrorDetail,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
