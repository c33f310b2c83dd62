package feeds

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_DisabledRunsEveryLoad(t *testing.T) {
	var calls atomic.Int32
	load := func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	first, err := Do(context.Background(), NewCoalescer(false), "k", load)
	require.NoError(t, err)
	second, err := Do(context.Background(), NewCoalescer(false), "k", load)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestDo_DisabledPassesCallerContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, nil, "k", func(ctx context.Context) (string, error) {
		return "", ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_PropagatesLoadError(t *testing.T) {
	boom := errors.New("boom")

	_, err := Do(context.Background(), NewCoalescer(true), "k", func(ctx context.Context) (string, error) {
		return "", boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestDo_SharedLoadSurvivesStartingCallerCancel(t *testing.T) {
	c := NewCoalescer(true)
	release := make(chan struct{})
	var calls atomic.Int32
	load := func(ctx context.Context) (string, error) {
		calls.Add(1)
		select {
		case <-release:
			return "page", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	ctx1, cancel1 := context.WithCancel(context.Background())
	defer cancel1()
	first := make(chan error, 1)
	go func() {
		_, err := Do(ctx1, c, "k", load)
		first <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		val string
		err error
	}
	second := make(chan result, 1)
	go func() {
		v, err := Do(context.Background(), c, "k", load)
		second <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel1()
	select {
	case err := <-first:
		assert.ErrorIs(t, err, ErrTimeout, "starting caller stops waiting once its context is done")
	case <-time.After(time.Second):
		t.Fatal("starting caller did not return after cancel")
	}

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "page", res.val)
	assert.Equal(t, int32(1), calls.Load())
}
