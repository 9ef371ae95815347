package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithBuildIDAndStage(t *testing.T) {
	ctx := context.Background()
	ctx = WithBuildID(ctx, "build-42")
	ctx = WithStage(ctx, "scan_source")

	lc := extractLogContext(ctx)
	assert.Equal(t, "build-42", lc.BuildID)
	assert.Equal(t, "scan_source", lc.Stage)
}

func TestWithStagePreservesBuildID(t *testing.T) {
	ctx := WithBuildID(context.Background(), "b1")
	ctx = WithStage(ctx, "render_pages")

	attrs := getLogAttrs(ctx)
	require.Len(t, attrs, 2)
	assert.Equal(t, "build.id", attrs[0].Key)
	assert.Equal(t, "stage", attrs[1].Key)
}

func TestEmptyContextHasNoAttrs(t *testing.T) {
	attrs := getLogAttrs(context.Background())
	assert.Empty(t, attrs)
}
