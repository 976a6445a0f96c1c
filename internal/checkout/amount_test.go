package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveAmount(t *testing.T) {
	tests := []struct {
		name    string
		price   int64
		percent int
		want    int64
	}{
		{"no discount", 1000, 0, 1000},
		{"twenty percent", 1000, 20, 800},
		{"rounds down", 999, 10, 899}, // 899.1
		{"one cent", 1, 50, 0},
		{"full discount", 1000, 100, 0},
		{"over full clamps to zero", 1000, 150, 0},
		{"negative percent ignored", 1000, -5, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveAmount(tt.price, tt.percent))
		})
	}
}
