package stream

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// Handler processes one decoded payload. Returning nil acknowledges the entry.
type Handler func(ctx context.Context, p Payload) error

// Consumer reads a stream through a consumer group
type Consumer struct {
	rdb     redis.Cmdable
	stream  string
	group   string
	name    string
	count   int64
	block   time.Duration
	retry   time.Duration
	backoff time.Duration
}

func NewConsumer(rdb redis.Cmdable, stream, group, name string) *Consumer {
	return &Consumer{
		rdb:     rdb,
		stream:  stream,
		group:   group,
		name:    name,
		count:   10,
		block:   5 * time.Second,
		retry:   30 * time.Second,
		backoff: time.Second,
	}
}

// EnsureGroup creates the consumer group, tolerating one that already exists
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	err := c.rdb.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group %s: %w", c.group, err)
	}
	return nil
}

// Run reads and handles entries until ctx is cancelled.
// It starts with the entries already pending for this consumer, then reads new ones.
// Entries that fail to decode are acknowledged and dropped. Handler failures stay
// pending and are read again from the backlog once the retry delay has passed.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	cursor := "0"
	var retryAt time.Time
	var failed bool

	for {
		id, block := ">", c.block
		if cursor != "" {
			// history reads never block
			id, block = cursor, -1
		}

		streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.name,
			Streams:  []string{c.stream, id},
			Count:    c.count,
			Block:    block,
		}).Result()

		if ctx.Err() != nil {
			return nil
		}

		if err != nil && err != redis.Nil {
			log.Printf("Error reading from Redis: %v", err)
			if !sleep(ctx, c.backoff) {
				return nil
			}
			continue
		}

		last := ""
		for _, s := range streams {
			for _, msg := range s.Messages {
				if ctx.Err() != nil {
					return nil
				}
				if !c.handleMessage(ctx, msg, handle) {
					failed = true
					retryAt = time.Now().Add(c.retry)
				}
				last = msg.ID
			}
		}

		if cursor != "" {
			cursor = last
		}
		if cursor == "" && failed && !time.Now().Before(retryAt) {
			cursor, failed = "0", false
		}
	}
}

// handleMessage reports false when the entry is left pending
func (c *Consumer) handleMessage(ctx context.Context, msg redis.XMessage, handle Handler) bool {
	payload, err := Decode(msg)
	if err != nil {
		log.Printf("Dropping message: %v", err)
		c.ack(msg.ID)
		return true
	}

	if err := handle(ctx, payload); err != nil {
		log.Printf("Failed to handle message %s for %s: %v", msg.ID, payload.Location.Name, err)
		return false
	}

	c.ack(msg.ID)
	return true
}

func (c *Consumer) ack(id string) {
	if err := c.rdb.XAck(context.Background(), c.stream, c.group, id).Err(); err != nil {
		log.Printf("Failed to ack message %s: %v", id, err)
	}
}

// sleep waits for d and reports false if ctx ended first
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
