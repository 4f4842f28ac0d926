package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDelayExponential(t *testing.T) {
	policy := RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 2,
	}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	assert.Equal(t, 8*time.Second, policy.NextDelay(4))
}

func TestNextDelayClampedToMax(t *testing.T) {
	policy := RetryPolicy{
		InitialDelay:  time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2,
	}

	assert.Equal(t, 10*time.Second, policy.NextDelay(10))
}

func TestNextDelayDefaults(t *testing.T) {
	var policy RetryPolicy

	assert.Equal(t, 2*time.Second, policy.NextDelay(0))
	assert.Equal(t, 4*time.Second, policy.NextDelay(2))
	assert.Equal(t, time.Minute, policy.NextDelay(30))
}

func TestWithDefaultsKeepsExplicitValues(t *testing.T) {
	policy := RetryPolicy{
		MaxRetries:    3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 3,
	}

	filled := policy.withDefaults()
	assert.Equal(t, policy, filled)

	filled = RetryPolicy{}.withDefaults()
	assert.Equal(t, 5, filled.MaxRetries)
	assert.Equal(t, 2*time.Second, filled.InitialDelay)
	assert.Equal(t, time.Minute, filled.MaxDelay)
	assert.Equal(t, float64(2), filled.BackoffFactor)
}
