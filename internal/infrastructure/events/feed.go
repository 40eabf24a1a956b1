// internal/infrastructure/events/feed.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Table identifies the row collection a change event belongs to.
const (
	TableCartItems = "cart_items"
	TableOrders    = "orders"
	TableFavorites = "favorites"
)

// Action identifies the kind of row change.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// ChangeEvent is a row-level change notification. Clients that receive one
// are expected to refetch the affected table; the event carries no row data
// beyond its identity, so the server copy is always the source of truth.
type ChangeEvent struct {
	Table  string    `json:"table"`
	Action string    `json:"action"`
	UserID uint      `json:"user_id"`
	RowID  uint      `json:"row_id"`
	At     time.Time `json:"at"`
}

// Feed publishes and delivers change events over Redis pub/sub, one channel
// per table.
type Feed struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

// NewFeed creates a change feed backed by the given Redis client
func NewFeed(redisClient *redis.Client, logger *logrus.Logger) *Feed {
	return &Feed{
		redisClient: redisClient,
		logger:      logger,
	}
}

func channelFor(table string) string {
	return fmt.Sprintf("feed:%s", table)
}

// Publish emits a change event for a row. Failures are logged and swallowed:
// the feed is advisory and must never fail the mutation that triggered it.
func (f *Feed) Publish(ctx context.Context, table, action string, userID, rowID uint) {
	event := ChangeEvent{
		Table:  table,
		Action: action,
		UserID: userID,
		RowID:  rowID,
		At:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		f.logger.WithError(err).Warn("failed to encode change event")
		return
	}

	if err := f.redisClient.Publish(ctx, channelFor(table), payload).Err(); err != nil {
		f.logger.WithError(err).WithFields(logrus.Fields{
			"table":  table,
			"action": action,
		}).Warn("failed to publish change event")
	}
}

// Subscribe delivers change events for the given tables, filtered to a single
// user. The returned channel closes when ctx is cancelled.
func (f *Feed) Subscribe(ctx context.Context, userID uint, tables ...string) <-chan ChangeEvent {
	channels := make([]string, len(tables))
	for i, table := range tables {
		channels[i] = channelFor(table)
	}

	pubsub := f.redisClient.Subscribe(ctx, channels...)
	out := make(chan ChangeEvent)

	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var event ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.logger.WithError(err).Warn("failed to decode change event")
					continue
				}

				if event.UserID != userID {
					continue
				}

				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
