package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"clinic-server/internal/cache"
	"clinic-server/internal/messaging"
	"clinic-server/internal/search"
)

const clientCacheTTL = 24 * time.Hour

// Indexer replicates record events into the elasticsearch indices and keeps
// the redis client cache warm. Either collaborator may be nil; the indexer
// then skips that side.
type Indexer struct {
	es       search.Client
	cache    cache.Client
	reader   *kafka.Reader
	shutdown chan struct{}
}

func NewIndexer(broker, groupID string, es search.Client, cacheClient cache.Client) *Indexer {
	return &Indexer{
		es:    es,
		cache: cacheClient,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: []string{broker},
			Topic:   messaging.TopicRecordEvents,
			GroupID: groupID,
			MaxWait: 10 * time.Second,
		}),
		shutdown: make(chan struct{}),
	}
}

func (i *Indexer) Start(ctx context.Context) {
	log.Info().Msg("starting record event indexer")

	go func() {
		for {
			select {
			case <-i.shutdown:
				return
			default:
				i.processMessage(ctx)
			}
		}
	}()
}

func (i *Indexer) Stop() {
	close(i.shutdown)
	if err := i.reader.Close(); err != nil {
		log.Error().Err(err).Msg("error closing kafka reader")
	}
}

func (i *Indexer) processMessage(ctx context.Context) {
	msg, err := i.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error().Err(err).Msg("kafka read error (will retry)")
		time.Sleep(5 * time.Second)
		return
	}

	var event messaging.RecordEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal record event")
		return
	}

	// "<entity>_<action>", e.g. "visit_created"
	entity, action, ok := strings.Cut(event.Event, "_")
	if !ok {
		log.Warn().Str("event", event.Event).Msg("unknown record event")
		return
	}

	index := entity + "s"
	switch action {
	case "created", "updated":
		i.handleUpsert(ctx, entity, index, event)
	case "deleted":
		i.handleDelete(ctx, entity, index, event.ID)
	default:
		log.Warn().Str("event", event.Event).Msg("unknown record event")
	}
}

func (i *Indexer) handleUpsert(ctx context.Context, entity, index string, event messaging.RecordEvent) {
	if i.es != nil {
		if err := i.es.Index(ctx, index, event.ID, event.Record); err != nil {
			log.Error().Err(err).Str("index", index).Str("id", event.ID).
				Msg("failed to index record")
		}
	}

	if i.cache != nil && entity == "client" {
		if err := i.cache.Set(ctx, "client:"+event.ID, string(event.Record), clientCacheTTL); err != nil {
			log.Error().Err(err).Str("id", event.ID).Msg("failed to cache client")
		}
	}

	log.Info().Str("event", event.Event).Str("id", event.ID).Msg("processed record event")
}

func (i *Indexer) handleDelete(ctx context.Context, entity, index, id string) {
	if i.es != nil {
		if err := i.es.Delete(ctx, index, id); err != nil {
			log.Error().Err(err).Str("index", index).Str("id", id).
				Msg("failed to remove record from index")
		}
	}

	if i.cache != nil && entity == "client" {
		if err := i.cache.Del(ctx, "client:"+id); err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to drop client from cache")
		}
	}
}
