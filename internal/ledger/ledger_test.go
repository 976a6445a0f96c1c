package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageBounds(t *testing.T) {
	offset, limit := pageBounds(1, 5)
	assert.Equal(t, 0, offset)
	assert.Equal(t, 5, limit)

	offset, limit = pageBounds(3, 5)
	assert.Equal(t, 10, offset)
	assert.Equal(t, 5, limit)

	// out-of-range inputs fall back to the first page and default size
	offset, limit = pageBounds(0, 0)
	assert.Equal(t, 0, offset)
	assert.Equal(t, 5, limit)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 5))
	assert.Equal(t, 1, totalPages(5, 5))
	assert.Equal(t, 2, totalPages(6, 5))
}
