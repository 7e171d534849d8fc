package actor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithActorRoundTrip(t *testing.T) {
	ctx := WithActor(context.Background(), 42)

	id, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestFromContextEmpty(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}

func TestRef(t *testing.T) {
	assert.Nil(t, Ref(context.Background()), "no actor yields a nil reference")

	ref := Ref(WithActor(context.Background(), 7))
	require.NotNil(t, ref)
	assert.Equal(t, int64(7), *ref)
}
