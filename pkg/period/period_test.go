package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyRange(t *testing.T) {
	ref := time.Date(2026, 8, 12, 15, 30, 0, 0, time.Local)

	r, err := Of(Daily, ref)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 12, 0, 0, 0, 0, time.Local), r.Start)
	assert.Equal(t, time.Date(2026, 8, 13, 0, 0, 0, 0, time.Local), r.End)
	assert.True(t, r.Contains(ref))
	assert.False(t, r.Contains(r.End), "ranges are half-open")
}

func TestWeeklyRangeStartsMonday(t *testing.T) {
	// 2026-08-12 is a Wednesday; its week runs Mon 10th to Mon 17th.
	wednesday := time.Date(2026, 8, 12, 10, 0, 0, 0, time.Local)

	r, err := Of(Weekly, wednesday)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local), r.Start)
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.Local), r.End)

	// A Sunday belongs to the week that began the previous Monday.
	sunday := time.Date(2026, 8, 16, 23, 0, 0, 0, time.Local)
	r2, err := Of(Weekly, sunday)
	require.NoError(t, err)
	assert.Equal(t, r.Start, r2.Start)

	// Monday opens its own week.
	monday := time.Date(2026, 8, 17, 0, 0, 0, 0, time.Local)
	r3, err := Of(Weekly, monday)
	require.NoError(t, err)
	assert.Equal(t, monday, r3.Start)
}

func TestMonthlyRange(t *testing.T) {
	ref := time.Date(2026, 1, 31, 12, 0, 0, 0, time.Local)

	r, err := Of(Monthly, ref)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local), r.Start)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local), r.End)
}

func TestOfUnknownKind(t *testing.T) {
	_, err := Of(Kind("yearly"), time.Now())
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"daily", "weekly", "monthly"} {
		k, err := ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, Kind(s), k)
	}

	_, err := ParseKind("hourly")
	assert.Error(t, err)
}
