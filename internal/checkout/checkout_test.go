package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyhaven/keyhaven/internal/keypool"
)

type mockRepo struct {
	res Result
	err error
}

func (m *mockRepo) Purchase(_ context.Context, _ uuid.UUID) (Result, error) {
	return m.res, m.err
}

type mockPublisher struct {
	messages [][]byte
}

func (m *mockPublisher) Publish(_, value []byte, _ ...kafkago.Header) {
	m.messages = append(m.messages, value)
}

func newService(repo Repo, pub Publisher) *Service {
	return &Service{Repo: repo, Producer: pub, ServiceName: "test-api", Log: zerolog.Nop()}
}

func TestPurchase_PublishesEventAfterCommit(t *testing.T) {
	userID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	repo := &mockRepo{res: Result{
		Lines: []PurchasedLine{
			{ProductID: productA, AmountCents: 450},
			{ProductID: productB, AmountCents: 1000},
		},
		TotalCents: 1450,
	}}
	pub := &mockPublisher{}

	res, err := newService(repo, pub).Purchase(context.Background(), userID, "req-1")

	require.NoError(t, err)
	assert.Equal(t, int64(1450), res.TotalCents)
	require.Len(t, pub.messages, 1)

	var env Envelope
	require.NoError(t, json.Unmarshal(pub.messages[0], &env))
	assert.Equal(t, EventPurchaseCompleted, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "test-api", env.Producer)
	assert.Equal(t, "req-1", env.TraceID)
	assert.Equal(t, userID.String(), env.CorrelationID)

	var payload PurchaseCompletedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, userID, payload.UserID)
	assert.Len(t, payload.Lines, 2)
	assert.Equal(t, int64(1450), payload.TotalCents)
}

func TestPurchase_EmptyCartPublishesNothing(t *testing.T) {
	repo := &mockRepo{res: Result{}}
	pub := &mockPublisher{}

	res, err := newService(repo, pub).Purchase(context.Background(), uuid.New(), "")

	require.NoError(t, err)
	assert.Empty(t, res.Lines)
	assert.Zero(t, res.TotalCents)
	assert.Empty(t, pub.messages)
}

func TestPurchase_OutOfStockPropagatesAndPublishesNothing(t *testing.T) {
	productID := uuid.New()
	repo := &mockRepo{err: keypool.ErrOutOfStock{ProductID: productID}}
	pub := &mockPublisher{}

	_, err := newService(repo, pub).Purchase(context.Background(), uuid.New(), "")

	var oos keypool.ErrOutOfStock
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, productID, oos.ProductID)
	assert.Empty(t, pub.messages)
}

func TestPurchase_StorageErrorPropagates(t *testing.T) {
	repo := &mockRepo{err: errors.New("connection reset")}
	pub := &mockPublisher{}

	_, err := newService(repo, pub).Purchase(context.Background(), uuid.New(), "")

	require.Error(t, err)
	assert.Empty(t, pub.messages)
}
