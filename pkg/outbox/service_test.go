package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dcastellanos/hearthhide-backend/pkg/db/models"
	"github.com/dcastellanos/hearthhide-backend/pkg/enums"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY DEFAULT (lower(
    hex(randomblob(4)) || '-' || hex(randomblob(2)) || '-4' ||
    substr(hex(randomblob(2)), 2) || '-a' ||
    substr(hex(randomblob(2)), 2) || '-' || hex(randomblob(6)))),
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestServiceEmitQueuesEnvelope(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, nil)

	cartID := uuid.New()
	userID := uuid.New()

	tx := db.Begin()
	require.NoError(t, tx.Error)
	err := svc.Emit(context.Background(), tx, DomainEvent{
		EventType:     enums.OutboxEventCartUpdated,
		AggregateType: enums.OutboxAggregateCart,
		AggregateID:   cartID,
		Actor:         &ActorRef{UserID: userID, Role: "customer"},
		Data:          map[string]any{"itemCount": 3},
		Version:       1,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit().Error)

	rows, err := repo.FetchUnpublished(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, enums.OutboxEventCartUpdated, row.EventType)
	assert.Equal(t, enums.OutboxAggregateCart, row.AggregateType)
	assert.Equal(t, cartID, row.AggregateID)
	assert.Nil(t, row.PublishedAt)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(row.Payload, &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.NotEmpty(t, envelope.EventID)
	require.NotNil(t, envelope.Actor)
	assert.Equal(t, userID, envelope.Actor.UserID)

	var data map[string]any
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, float64(3), data["itemCount"])
}

func TestServiceEmitRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(nil), nil)
	err := svc.Emit(context.Background(), nil, DomainEvent{})
	require.Error(t, err)
}

func TestRepositoryMarkPublishedAndFailed(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.OutboxEventCartCreated,
		AggregateType: enums.OutboxAggregateCart,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"version":1}`),
	}
	tx := db.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, repo.Insert(tx, event))
	require.NoError(t, tx.Commit().Error)

	require.NoError(t, repo.MarkFailed(event.ID, errors.New("publish timeout")))

	rows, err := repo.FetchUnpublished(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].AttemptCount)
	require.NotNil(t, rows[0].LastError)
	assert.Equal(t, "publish timeout", *rows[0].LastError)

	require.NoError(t, repo.MarkPublished(event.ID))

	rows, err = repo.FetchUnpublished(10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
