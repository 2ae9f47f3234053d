package service

import (
	"context"
	"testing"
	"time"

	svcMocks "pastebin/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStartSweeper(t *testing.T) {
	t.Run("sweeps on each tick", func(t *testing.T) {
		mSvc := new(svcMocks.MockPasteService)

		ticked := make(chan struct{}, 10)
		mSvc.On("SweepExpired", mock.Anything, 100).
			Run(func(args mock.Arguments) { ticked <- struct{}{} }).
			Return(1, nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := StartSweeper(ctx, mSvc, 10*time.Millisecond, 100)

		select {
		case <-ticked:
		case <-time.After(2 * time.Second):
			t.Fatal("sweeper never ran")
		}

		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("sweeper did not stop after cancel")
		}
	})

	t.Run("stops without ever sweeping when cancelled early", func(t *testing.T) {
		mSvc := new(svcMocks.MockPasteService)

		ctx, cancel := context.WithCancel(context.Background())
		done := StartSweeper(ctx, mSvc, time.Hour, 100)
		cancel()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("sweeper did not stop after cancel")
		}
		mSvc.AssertNotCalled(t, "SweepExpired", mock.Anything, mock.Anything)
	})

	t.Run("keeps ticking after a failed cycle", func(t *testing.T) {
		mSvc := new(svcMocks.MockPasteService)

		calls := make(chan struct{}, 10)
		mSvc.On("SweepExpired", mock.Anything, 100).
			Run(func(args mock.Arguments) { calls <- struct{}{} }).
			Return(0, assert.AnError)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		StartSweeper(ctx, mSvc, 10*time.Millisecond, 100)

		for i := 0; i < 2; i++ {
			select {
			case <-calls:
			case <-time.After(2 * time.Second):
				t.Fatal("sweeper stopped after a failure")
			}
		}
	})
}
