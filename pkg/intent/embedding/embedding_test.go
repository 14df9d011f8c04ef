package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDegenerate(t *testing.T) {
	tests := []struct {
		name string
		vec  []float32
		want bool
	}{
		{name: "nil", vec: nil, want: true},
		{name: "empty", vec: []float32{}, want: true},
		{name: "constant", vec: []float32{0.5, 0.5, 0.5}, want: true},
		{name: "all zero", vec: []float32{0, 0, 0}, want: true},
		{name: "single element", vec: []float32{0.3}, want: true},
		{name: "varied", vec: []float32{0.1, 0.2, 0.3}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDegenerate(tt.vec))
		})
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 0}, b: []float32{1, 0}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "scale invariant", a: []float32{2, 0}, b: []float32{5, 0}, want: 1},
		{name: "length mismatch", a: []float32{1, 0}, b: []float32{1, 0, 0}, want: 0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRetryPolicy_RetriesUntilSuccess(t *testing.T) {
	var slept []time.Duration
	policy := RetryPolicy{
		MaxAttempts: 3,
		Delay:       100 * time.Millisecond,
		Sleep:       func(d time.Duration) { slept = append(slept, d) },
	}

	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("not ready")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, slept, 2, "no sleep after the final attempt")
}

func TestRetryPolicy_ExhaustsAttempts(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond, Sleep: func(time.Duration) {}}

	wantErr := errors.New("provider down")
	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryPolicy{MaxAttempts: 3}.Do(ctx, func() error {
		calls++
		return errors.New("never seen")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestRetryPolicy_ZeroAttemptsMeansOne(t *testing.T) {
	calls := 0
	err := RetryPolicy{}.Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
