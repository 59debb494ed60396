package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterAfterStartPanics(t *testing.T) {
	s := New(zap.NewNop())
	s.Start()
	require.Panics(t, func() {
		s.Register("late", time.Millisecond, func() error { return nil })
	})
	s.Shutdown(time.Second)
}

func TestTaskRunsRepeatedly(t *testing.T) {
	s := New(zap.NewNop())
	var calls int32
	s.Register("tick", 5*time.Millisecond, func() error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	s.Start()
	time.Sleep(40 * time.Millisecond)
	s.Shutdown(time.Second)

	require.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestErrorIsSwallowed(t *testing.T) {
	s := New(zap.NewNop())
	var calls int32
	s.Register("erroring", 5*time.Millisecond, func() error {
		atomic.AddInt32(&calls, 1)
		return assertErr
	})
	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Shutdown(time.Second)

	require.Greater(t, atomic.LoadInt32(&calls), int32(0))
}

var assertErr = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
