package helpers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollSucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Poll(context.Background(), time.Second, time.Millisecond, func() (bool, error) {
		calls++
		return calls >= 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPollTimesOut(t *testing.T) {
	err := Poll(context.Background(), 10*time.Millisecond, time.Millisecond, func() (bool, error) {
		return false, nil
	})
	assert.ErrorIs(t, err, ErrPollTimeout)
}

func TestPollKeepsLastError(t *testing.T) {
	observed := errors.New("button still disabled")
	err := Poll(context.Background(), 20*time.Millisecond, time.Millisecond, func() (bool, error) {
		return false, observed
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPollTimeout))
	assert.True(t, errors.Is(err, observed))
}

func TestPollSucceedsImmediately(t *testing.T) {
	calls := 0
	err := Poll(context.Background(), time.Second, time.Hour, func() (bool, error) {
		calls++
		return true, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPollStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Poll(ctx, time.Hour, time.Millisecond, func() (bool, error) { return false, nil })
	assert.ErrorIs(t, err, context.Canceled)
}

type timeoutOption int

func (o timeoutOption) Configure(target *time.Duration) error {
	if o < 0 {
		return errors.New("negative timeout")
	}
	*target = time.Duration(o) * time.Millisecond
	return nil
}

func TestApplyOptions(t *testing.T) {
	var d time.Duration
	require.NoError(t, ApplyOptions(&d, timeoutOption(5), timeoutOption(7)))
	assert.Equal(t, 7*time.Millisecond, d)

	assert.Error(t, ApplyOptions(&d, timeoutOption(-1)))

	require.NoError(t, ApplyOptions(&d, ConfigOptionFunc[time.Duration](func(p *time.Duration) error {
		*p = time.Second
		return nil
	})))
	assert.Equal(t, time.Second, d)
}
