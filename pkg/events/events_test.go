package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundlePublished_GetType(t *testing.T) {
	assert.Equal(t, BundlePublishedEvent, BundlePublished{}.GetType())
	assert.Equal(t, StageFailedEvent, StageFailed{}.GetType())
}

func TestBundlePublished_JSON(t *testing.T) {
	event := BundlePublished{
		BaseEvent: NewBaseEvent(BundlePublishedEvent, "req-1"),
		BundleID:  "best-crm-software-abc123",
		Keyword:   "best crm software",
		Title:     "Best CRM Software",
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Equal(t, "bundle.published", fields["type"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "best-crm-software-abc123", fields["bundle_id"])
	assert.NotEmpty(t, fields["id"])
}

func TestNewBaseEvent(t *testing.T) {
	a := NewBaseEvent(StageFailedEvent, "")
	b := NewBaseEvent(StageFailedEvent, "")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, StageFailedEvent, a.Type)
	assert.False(t, a.Timestamp.IsZero())
}
