package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/keyhaven/keyhaven/internal/kafka"
)

// Repo commits a whole checkout atomically.
type Repo interface {
	Purchase(ctx context.Context, userID uuid.UUID) (Result, error)
}

// Publisher is satisfied by kafkax.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Service struct {
	Repo        Repo
	Producer    Publisher
	ServiceName string
	Log         zerolog.Logger
}

// Purchase runs the checkout for one user and, after the commit, announces it
// on the event bus. Publishing is best-effort and never fails a committed
// purchase. An empty cart succeeds without writes and without an event.
func (s *Service) Purchase(ctx context.Context, userID uuid.UUID, traceID string) (Result, error) {
	res, err := s.Repo.Purchase(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if len(res.Lines) == 0 {
		return res, nil
	}

	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventPurchaseCompleted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       traceID,
		CorrelationID: userID.String(),
		Payload: kafkax.MustMarshal(PurchaseCompletedPayload{
			UserID:     userID,
			Lines:      res.Lines,
			TotalCents: res.TotalCents,
		}),
	}
	s.Producer.Publish(PartitionKey(userID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventPurchaseCompleted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	s.Log.Info().
		Str("user_id", userID.String()).
		Int("lines", len(res.Lines)).
		Int64("total_cents", res.TotalCents).
		Msg("checkout completed")
	return res, nil
}
