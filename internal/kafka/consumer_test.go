package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront/internal/logx"
)

func TestProcessRetriesUntilHandled(t *testing.T) {
	calls := 0
	h := func(context.Context, kafka.Message) error {
		calls++
		if calls < 3 {
			return errors.New("redis down")
		}
		return nil
	}

	err := process(context.Background(), kafka.Message{Offset: 7}, h, time.Millisecond, logx.Discard())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestProcessStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	h := func(context.Context, kafka.Message) error { return errors.New("always") }

	err := process(ctx, kafka.Message{}, h, 5*time.Millisecond, logx.Discard())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
