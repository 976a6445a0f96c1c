package stockwatch

import (
	"context"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlePurchaseCompleted_IgnoresForeignEvents(t *testing.T) {
	s := &Service{ServiceName: "test"}
	m := kafkago.Message{Value: []byte(`{"event_type":"OrderCreated","payload":{}}`)}
	assert.NoError(t, s.HandlePurchaseCompleted(context.Background(), m))
}

func TestHandlePurchaseCompleted_RejectsMalformedEnvelope(t *testing.T) {
	s := &Service{ServiceName: "test"}
	m := kafkago.Message{Value: []byte(`not json`)}
	require.Error(t, s.HandlePurchaseCompleted(context.Background(), m))
}
