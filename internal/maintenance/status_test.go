package maintenance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseInterval(t *testing.T) {
	cases := []struct {
		in       string
		wantN    int
		wantUnit string
		wantOK   bool
	}{
		{"6 months", 6, "month", true},
		{"1 year", 1, "year", true},
		{"2 Weeks", 2, "week", true},
		{"30 days", 30, "day", true},
		{"  3 Months ", 3, "month", true},
		{"", 0, "", false},
		{"monthly", 0, "", false},
		{"0 months", 0, "", false},
		{"six months", 0, "", false},
	}
	for _, tc := range cases {
		n, unit, ok := ParseInterval(tc.in)
		assert.Equal(t, tc.wantOK, ok, "input %q", tc.in)
		if tc.wantOK {
			assert.Equal(t, tc.wantN, n, "input %q", tc.in)
			assert.Equal(t, tc.wantUnit, unit, "input %q", tc.in)
		}
	}
}

func TestDerive_WorkedExample(t *testing.T) {
	// last = 2025-01-01, interval = "6 months", now = 2025-07-10
	// => next = 2025-07-01, overdue, daysUntil = -9
	last := date(2025, time.January, 1)
	res := Derive(&last, "6 months", date(2025, time.July, 10), DefaultDueSoonWindow)

	require.NotNil(t, res.NextMaintenance)
	assert.Equal(t, date(2025, time.July, 1), *res.NextMaintenance)
	assert.Equal(t, StatusOverdue, res.Status)
	require.NotNil(t, res.DaysUntil)
	assert.Equal(t, -9, *res.DaysUntil)
}

func TestDerive_Buckets(t *testing.T) {
	last := date(2025, time.January, 1)

	t.Run("good when far from next", func(t *testing.T) {
		res := Derive(&last, "6 months", date(2025, time.February, 1), DefaultDueSoonWindow)
		assert.Equal(t, StatusGood, res.Status)
	})

	t.Run("due inside the lookahead window", func(t *testing.T) {
		res := Derive(&last, "6 months", date(2025, time.June, 26), DefaultDueSoonWindow)
		assert.Equal(t, StatusDue, res.Status)
		require.NotNil(t, res.DaysUntil)
		assert.Equal(t, 5, *res.DaysUntil)
	})

	t.Run("due exactly on the boundary", func(t *testing.T) {
		res := Derive(&last, "6 months", date(2025, time.June, 24), DefaultDueSoonWindow)
		assert.Equal(t, StatusDue, res.Status)
	})

	t.Run("overdue strictly after next", func(t *testing.T) {
		res := Derive(&last, "6 months", date(2025, time.July, 2), DefaultDueSoonWindow)
		assert.Equal(t, StatusOverdue, res.Status)
	})

	t.Run("never both due and overdue", func(t *testing.T) {
		for d := 0; d < 400; d++ {
			now := date(2025, time.January, 2).AddDate(0, 0, d)
			res := Derive(&last, "6 months", now, DefaultDueSoonWindow)
			if now.After(*res.NextMaintenance) {
				assert.Equal(t, StatusOverdue, res.Status)
			} else {
				assert.NotEqual(t, StatusOverdue, res.Status)
			}
		}
	})
}

func TestDerive_MissingInterval(t *testing.T) {
	// Unparseable interval means no next date: the record stays "good".
	last := date(2025, time.January, 1)
	res := Derive(&last, "", date(2025, time.July, 10), DefaultDueSoonWindow)

	assert.Equal(t, StatusGood, res.Status)
	assert.Nil(t, res.NextMaintenance)
	assert.Nil(t, res.DaysUntil)
}

func TestDerive_MissingLastMaintenance(t *testing.T) {
	// Valid interval but no recorded maintenance: due immediately.
	res := Derive(nil, "6 months", date(2025, time.July, 10), DefaultDueSoonWindow)

	assert.Equal(t, StatusOverdue, res.Status)
	assert.Nil(t, res.NextMaintenance)
}

func TestDerive_YearAndWeekUnits(t *testing.T) {
	last := date(2024, time.February, 29)

	res := Derive(&last, "1 year", date(2025, time.February, 20), DefaultDueSoonWindow)
	require.NotNil(t, res.NextMaintenance)
	assert.Equal(t, date(2025, time.March, 1), *res.NextMaintenance) // AddDate normalizes Feb 29

	res = Derive(&last, "2 weeks", date(2024, time.March, 10), DefaultDueSoonWindow)
	require.NotNil(t, res.NextMaintenance)
	assert.Equal(t, date(2024, time.March, 14), *res.NextMaintenance)
	assert.Equal(t, StatusDue, res.Status)
}
