package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

func TestConnectRequiresURL(t *testing.T) {
	_, err := Connect(config.EventsConfig{})
	require.Error(t, err)
}

func TestBuildEventJSONShape(t *testing.T) {
	ev := BuildEvent{
		BuildID: "b1", Outcome: "success", Pages: 4, Collections: 1,
		Hash: "abc", Start: time.Unix(100, 0).UTC(), End: time.Unix(101, 0).UTC(),
	}
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "b1", m["build_id"])
	assert.Equal(t, "success", m["outcome"])
	assert.Equal(t, float64(4), m["pages"])
	assert.Contains(t, m, "hash")
}

func TestPublisherCloseNilSafe(t *testing.T) {
	var p *Publisher
	p.Close()
}
