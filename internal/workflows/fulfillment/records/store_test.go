// internal/workflows/fulfillment/records/store_test.go
package records

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "siteforge/internal/common/errors"
	"siteforge/internal/models"
)

type testLogger struct {
	t *testing.T
}

func (l *testLogger) Info(msg string, fields map[string]interface{}) { l.t.Logf("INFO: %s %v", msg, fields) }
func (l *testLogger) Warn(msg string, fields map[string]interface{}) { l.t.Logf("WARN: %s %v", msg, fields) }
func (l *testLogger) With(fields map[string]interface{}) Logger      { return l }

func testRecord() *models.FulfillmentRecord {
	return &models.FulfillmentRecord{
		EventID:      "evt_1",
		PendingID:    "pending-1",
		CompanyName:  "Apex Plumbing",
		ProjectName:  "apex-plumbing-a1b2",
		DeploymentID: "dpl_1",
		PublicDomain: "apex-plumbing-a1b2.vercel.app",
		Status:       models.FulfillmentStatusDeployed,
	}
}

func TestStore_Insert_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO fulfillments").
		WithArgs("evt_1", "pending-1", "Apex Plumbing", "apex-plumbing-a1b2",
			"dpl_1", "apex-plumbing-a1b2.vercel.app", models.FulfillmentStatusDeployed, "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewStore(db, &testLogger{t})
	require.NoError(t, store.Insert(context.Background(), testRecord()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Insert_SetsCreatedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO fulfillments").
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := testRecord()
	store := NewStore(db, &testLogger{t})
	require.NoError(t, store.Insert(context.Background(), record))
	assert.False(t, record.CreatedAt.IsZero())
}

func TestStore_Insert_WrapsFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO fulfillments").
		WillReturnError(assert.AnError)

	store := NewStore(db, &testLogger{t})
	err = store.Insert(context.Background(), testRecord())

	require.Error(t, err)
	se := err.(*stderrors.StandardError)
	assert.Equal(t, stderrors.ErrCodeRecordInsertFailed, se.Code)
	assert.True(t, se.Retryable)
}

func TestStore_GetByPendingID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"event_id", "pending_id", "company_name", "project_name",
		"deployment_id", "public_domain", "status", "error_detail", "created_at",
	}).AddRow("evt_1", "pending-1", "Apex Plumbing", "apex-plumbing-a1b2",
		"dpl_1", "apexplumbing.com", models.FulfillmentStatusDeployed, "", now)

	mock.ExpectQuery("SELECT event_id, pending_id").
		WithArgs("pending-1").
		WillReturnRows(rows)

	store := NewStore(db, &testLogger{t})
	record, err := store.GetByPendingID(context.Background(), "pending-1")

	require.NoError(t, err)
	assert.Equal(t, "apexplumbing.com", record.PublicDomain)
	assert.Equal(t, models.FulfillmentStatusDeployed, record.Status)
}
