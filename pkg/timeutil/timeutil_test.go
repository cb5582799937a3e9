package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripTimestamp(t *testing.T) {
	ts := NowTimestamp()
	parsed, err := ParseTimestamp(ts)
	require.NoError(t, err)
	assert.Equal(t, ts, parsed.Format(TimestampLayout))
}

func TestValidDatePrefix(t *testing.T) {
	assert.True(t, ValidDatePrefix("2024-01-15"))
	assert.True(t, ValidDatePrefix("2024-01"))
	assert.False(t, ValidDatePrefix("15/01/2024"))
	assert.False(t, ValidDatePrefix(""))
}

func TestConversions(t *testing.T) {
	compressed, err := ToCompressed("2025-02-18 12:30:45")
	require.NoError(t, err)
	assert.Equal(t, "18-02-2025", compressed)

	display, err := ToDisplay("2025-02-18")
	require.NoError(t, err)
	assert.Equal(t, "18/02/2025", display)

	_, err = ToCompressed("18-02-2025")
	assert.Error(t, err)
}

func TestFormatSerial(t *testing.T) {
	assert.Equal(t, "#0000000042", FormatSerial(42))
}
