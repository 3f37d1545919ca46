package kafka

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
)

func TestParseBrokers(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"localhost:9092", []string{"localhost:9092"}},
		{" a:9092, ,b:9092 ", []string{"a:9092", "b:9092"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseBrokers(tt.in), tt.in)
	}
}

func TestCreateChannel_NoBrokers(t *testing.T) {
	_, _, err := CreateChannel(watermill.NopLogger{}, nil, "seo")
	assert.ErrorIs(t, err, ErrNoBrokers)
}
