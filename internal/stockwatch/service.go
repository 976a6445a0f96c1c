// Package stockwatch watches the key pool behind completed purchases and
// keeps per-product availability counters warm in redis.
package stockwatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/keyhaven/keyhaven/internal/checkout"
	kafkax "github.com/keyhaven/keyhaven/internal/kafka"
	"github.com/keyhaven/keyhaven/internal/keypool"
	"github.com/keyhaven/keyhaven/internal/redisx"
)

type Service struct {
	Keys        *keypool.Repo
	Redis       *redis.Client
	ServiceName string
	Threshold   int
	Log         zerolog.Logger
}

// HandlePurchaseCompleted is the consumer handler for purchase.completed.
func (s *Service) HandlePurchaseCompleted(ctx context.Context, m kafkago.Message) error {
	var env checkout.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != checkout.EventPurchaseCompleted {
		return nil
	}

	// dedup by event id
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[checkout.PurchaseCompletedPayload](env.Payload)
	if err != nil {
		return err
	}

	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0, len(p.Lines))
	for _, l := range p.Lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	counts, err := s.Keys.CountAvailable(ctx, ids)
	if err != nil {
		return err
	}
	for id, n := range counts {
		key := fmt.Sprintf(redisx.KeyStockCount, id)
		_ = s.Redis.Set(ctx, key, n, redisx.TTLStockCount).Err()
		if n == 0 {
			s.Log.Warn().Str("product_id", id.String()).Msg("key pool exhausted")
		} else if n <= s.Threshold {
			s.Log.Warn().Str("product_id", id.String()).Int("remaining", n).Msg("key pool running low")
		}
	}
	return nil
}
