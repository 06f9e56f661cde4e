package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchedulingKeysRejectsUnrecognizedKey(t *testing.T) {
	t.Setenv("SCHEDULING_TOTALLY_MADE_UP", "1")

	err := validateSchedulingKeys()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEDULING_TOTALLY_MADE_UP")
}

func TestValidateSchedulingKeysAcceptsKnownKeys(t *testing.T) {
	for key := range schedulingKeys {
		t.Setenv(key, "1")
	}

	assert.NoError(t, validateSchedulingKeys())
}

func TestParseDurationFallsBackOnInvalidInput(t *testing.T) {
	fallback := 5 * time.Minute
	assert.Equal(t, fallback, parseDuration("not-a-duration", fallback))
	assert.Equal(t, fallback, parseDuration("", fallback))
	assert.Equal(t, 10*time.Second, parseDuration("10s", fallback))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , b "))
	assert.Nil(t, splitAndTrim(""))
}
