package event

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/adbook/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPublisherMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestOutboxPublisher_SaveEvents(t *testing.T) {
	db := setupOutboxDB(t)
	serializer := NewEventSerializer()
	RegisterEvent[testEvent](serializer, "WorkOrderCreated")
	publisher := NewOutboxPublisher(serializer)
	ctx := context.Background()

	first := newTestEvent("WorkOrderCreated")
	second := newTestEvent("WorkOrderCreated")

	err := db.Transaction(func(tx *gorm.DB) error {
		return publisher.SaveEvents(ctx, tx, first, second)
	})
	require.NoError(t, err)

	pending, err := NewGormOutboxRepository(db).FindPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	decoded, err := serializer.DeserializeEntry(pending[0])
	require.NoError(t, err)
	assert.Contains(t, []any{first.EventID(), second.EventID()}, decoded.EventID())
}

func TestOutboxPublisher_RollbackDiscardsEvents(t *testing.T) {
	db := setupOutboxDB(t)
	publisher := NewOutboxPublisher(NewEventSerializer())
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := publisher.SaveEvents(ctx, tx, newTestEvent("WorkOrderPaid")); err != nil {
			return err
		}
		return errors.New("aggregate write failed")
	})
	require.Error(t, err)

	pending, err := NewGormOutboxRepository(db).FindPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestOutboxPublisher_SaveEvents_NoEvents(t *testing.T) {
	publisher := NewOutboxPublisher(NewEventSerializer())

	assert.NoError(t, publisher.SaveEvents(context.Background(), "not a tx"))
}

func TestOutboxPublisher_SaveEvents_InvalidTxProvider(t *testing.T) {
	publisher := NewOutboxPublisher(NewEventSerializer())

	err := publisher.SaveEvents(context.Background(), "not a tx", newTestEvent("WorkOrderPaid"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "txProvider must be a *gorm.DB")
}

func TestOutboxPublisher_PublishWithTx_DatabaseError(t *testing.T) {
	db, mock := setupPublisherMockDB(t)
	publisher := NewOutboxPublisher(NewEventSerializer())

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := publisher.PublishWithTx(context.Background(), db, newTestEvent("InvoiceIssued"))

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)
