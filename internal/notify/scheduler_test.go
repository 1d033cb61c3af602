package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Scheduler{Every: 30 * time.Minute}
	assert.Equal(t, now.Add(30*time.Minute), s.Next(now))

	off := &Scheduler{}
	assert.True(t, off.Next(now).IsZero())
}

func TestRunDisabledReturnsImmediately(t *testing.T) {
	done := make(chan struct{})
	go func() {
		(&Scheduler{}).Run(context.Background(), func(context.Context) error { return nil })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRunTicksUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan struct{})
	s := &Scheduler{Every: 5 * time.Millisecond}
	go func() {
		s.Run(ctx, func(context.Context) error {
			if calls.Add(1) == 1 {
				return errors.New("upstream down")
			}
			return nil
		})
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond,
		"a failing run does not stop the loop")
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
