package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/campusdesk/erp-backend/internal/config"
	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	NotificationBatchSize    = 50
	NotificationBatchTimeout = 2 * time.Second
	NotificationPollTimeout  = 1 * time.Second
)

// NotificationStore persists notifications.
type NotificationStore interface {
	BulkInsert(ctx context.Context, batch []model.Notification) error
	Insert(ctx context.Context, m *model.Notification) error
}

// NotificationWorker drains the notification queue into PostgreSQL.
type NotificationWorker struct {
	store   NotificationStore
	rdb     *redis.Client
	requeue func(ctx context.Context, raw []byte) error
	log     zerolog.Logger
}

func NewNotificationWorker(store NotificationStore, rdb *redis.Client, log zerolog.Logger) *NotificationWorker {
	w := &NotificationWorker{
		store: store,
		rdb:   rdb,
		log:   log.With().Str("component", "notification_worker").Logger(),
	}
	w.requeue = func(ctx context.Context, raw []byte) error {
		return w.rdb.RPush(ctx, config.WorkerKey.PersistNotificationsQueue, raw).Err()
	}
	return w
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("NotificationWorker started")

	batch := make([]model.Notification, 0, NotificationBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= NotificationBatchSize || time.Since(lastFlush) >= NotificationBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, NotificationPollTimeout, config.WorkerKey.PersistNotificationsQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
					time.Sleep(NotificationPollTimeout)
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			n, ok := w.decode(item[1])
			if !ok {
				continue
			}
			batch = append(batch, n)
		}
	}
}

func (w *NotificationWorker) decode(raw string) (model.Notification, bool) {
	var n model.Notification
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		w.log.Error().Err(err).Msg("Invalid JSON payload")
		return n, false
	}
	if n.RecipientID <= 0 || n.Title == "" {
		w.log.Error().Str("payload", raw).Msg("Incomplete notification dropped")
		return n, false
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return n, true
}

// ----------------------------------------------------------------
// Batch insert with single-row fallback
// ----------------------------------------------------------------

func (w *NotificationWorker) flushSafe(ctx context.Context, batch []model.Notification) {
	if len(batch) == 0 {
		return
	}

	err := w.store.BulkInsert(ctx, batch)
	if err == nil {
		w.log.Debug().Int("count", len(batch)).Msg("Notifications persisted")
		return
	}
	w.log.Warn().Err(err).Int("count", len(batch)).Msg("bulk notification insert failed, using fallback")

	for i := range batch {
		n := batch[i]
		err := w.store.Insert(ctx, &n)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrReferencedRowAbsent):
			// Recipient was deleted; retrying cannot succeed.
			w.log.Warn().Int("recipient_id", n.RecipientID).Msg("Notification for missing account dropped")
		default:
			w.log.Error().Err(err).Int("recipient_id", n.RecipientID).Msg("single insert failed, requeueing")
			raw, _ := json.Marshal(n)
			if err := w.requeue(ctx, raw); err != nil {
				w.log.Error().Err(err).Msg("requeue failed, notification lost")
			}
		}
	}
}
