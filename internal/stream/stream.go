package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gsmforecast/internal/config"
	"gsmforecast/internal/present"

	"github.com/go-redis/redis/v8"
)

const dataField = "data"

// ErrNoData is returned for stream entries without a string data field
var ErrNoData = errors.New("stream message has no data field")

// Payload is one forecast report travelling from the collector to the store
type Payload struct {
	Location  config.Location `json:"location"`
	Report    present.Report  `json:"report"`
	Hours     int             `json:"hours"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Encode serializes a payload into stream entry values
func Encode(p Payload) (map[string]interface{}, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload for %s: %w", p.Location.Name, err)
	}
	return map[string]interface{}{dataField: string(data)}, nil
}

// Decode parses a stream entry written by Publish
func Decode(msg redis.XMessage) (Payload, error) {
	raw, ok := msg.Values[dataField].(string)
	if !ok {
		return Payload{}, fmt.Errorf("message %s: %w", msg.ID, ErrNoData)
	}

	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Payload{}, fmt.Errorf("failed to unmarshal message %s: %w", msg.ID, err)
	}
	return p, nil
}

// Publisher appends payloads to a Redis stream
type Publisher struct {
	rdb    redis.Cmdable
	stream string
}

func NewPublisher(rdb redis.Cmdable, stream string) *Publisher {
	return &Publisher{rdb: rdb, stream: stream}
}

// Publish adds p to the stream and returns the entry ID
func (p *Publisher) Publish(ctx context.Context, payload Payload) (string, error) {
	values, err := Encode(payload)
	if err != nil {
		return "", err
	}

	id, err := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish to %s: %w", p.stream, err)
	}
	return id, nil
}

// Stream returns the stream key
func (p *Publisher) Stream() string {
	return p.stream
}
