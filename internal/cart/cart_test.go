package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Quantity guards reject the request before any storage access, so a zero
// repo is enough here.
func TestAdd_RejectsNonPositiveQuantity(t *testing.T) {
	r := &Repo{}
	err := r.Add(context.Background(), uuid.New(), uuid.New(), 0)
	assert.ErrorIs(t, err, ErrBadQuantity)

	err = r.Add(context.Background(), uuid.New(), uuid.New(), -2)
	assert.ErrorIs(t, err, ErrBadQuantity)
}

func TestSetQuantity_RejectsNonPositiveQuantity(t *testing.T) {
	r := &Repo{}
	err := r.SetQuantity(context.Background(), uuid.New(), uuid.New(), 0)
	assert.ErrorIs(t, err, ErrBadQuantity)
}
