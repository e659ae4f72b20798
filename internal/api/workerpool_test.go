package api

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsTasks(t *testing.T) {
	var failures atomic.Int32
	p := NewWorkerPool(4, 16, func(error) { failures.Add(1) })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	var ran atomic.Int32
	for i := 0; i < 50; i++ {
		fail := i%10 == 0
		err := p.Submit(ctx, func(context.Context) error {
			ran.Add(1)
			if fail {
				return errors.New("boom")
			}
			return nil
		})
		require.NoError(t, err)
	}
	p.Close()

	assert.Equal(t, int32(50), ran.Load())
	assert.Equal(t, int32(5), failures.Load())
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	p := NewWorkerPool(1, 1, nil)
	p.Start(context.Background())
	p.Close()
	p.Close()

	err := p.Submit(context.Background(), func(context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestWorkerPoolSubmitHonoursContext(t *testing.T) {
	p := NewWorkerPool(1, 1, nil)
	// no workers: the second task cannot be queued
	require.NoError(t, p.Submit(context.Background(), func(context.Context) error { return nil }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Submit(ctx, func(context.Context) error { return nil })

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWorkerPoolCloseReleasesBlockedSubmit(t *testing.T) {
	p := NewWorkerPool(1, 1, nil)
	noop := func(context.Context) error { return nil }
	require.NoError(t, p.Submit(context.Background(), noop))

	submitted := make(chan error, 1)
	go func() { submitted <- p.Submit(context.Background(), noop) }()

	closed := make(chan struct{})
	go func() {
		p.Close()
		close(closed)
	}()

	select {
	case err := <-submitted:
		assert.ErrorIs(t, err, ErrPoolClosed)
	case <-time.After(time.Second):
		t.Fatal("Submit still blocked after Close")
	}
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
}
