package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAppendAndRecent(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	for i, outcome := range []string{"success", "warning", "failed"} {
		require.NoError(t, s.Append(ctx, Record{
			BuildID:     "b" + string(rune('1'+i)),
			Start:       now,
			End:         now.Add(time.Second),
			Outcome:     outcome,
			Pages:       4 + i,
			Collections: 1,
			Hash:        "h",
		}))
	}

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	// Newest first.
	assert.Equal(t, "failed", recent[0].Outcome)
	assert.Equal(t, "warning", recent[1].Outcome)
	assert.Equal(t, "b3", recent[0].BuildID)
	assert.Equal(t, 6, recent[0].Pages)
	assert.Equal(t, now.Unix(), recent[0].Start.Unix())
}

func TestStoreRecentEmpty(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	recent, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestStorePersistsToFile(t *testing.T) {
	path := t.TempDir() + "/history.db"

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), Record{
		BuildID: "b1", Start: time.Now(), End: time.Now(), Outcome: "success", Hash: "h",
	}))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	recent, err := s2.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "b1", recent[0].BuildID)
}
