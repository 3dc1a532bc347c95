package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsBadJobs(t *testing.T) {
	s := New()
	require.Error(t, s.Register(Job{Name: "noop", Spec: "* * * * * *"}))
	require.Error(t, s.Register(Job{Name: "bad", Spec: "every minute", Run: func(context.Context) error { return nil }}))
	assert.Equal(t, 0, s.Entries())
}

func TestJobRunsEverySecond(t *testing.T) {
	s := New(WithJobTimeout(time.Second))
	var runs atomic.Int32
	require.NoError(t, s.Register(Job{
		Name: "tick",
		Spec: "* * * * * *",
		Run: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			if runs.Add(1) == 1 {
				return errors.New("first run fails")
			}
			return nil
		},
	}))
	assert.Equal(t, 1, s.Entries())

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
