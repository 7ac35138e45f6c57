package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	// A fixed Wednesday noon keeps day arithmetic predictable.
	now := time.Date(2025, 6, 18, 12, 30, 0, 0, time.UTC)
	day := now.Truncate(24 * time.Hour)

	tests := []struct {
		name     string
		text     string
		wantNil  bool
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			name:     "today english",
			text:     "show today",
			wantFrom: day,
			wantTo:   day.AddDate(0, 0, 1),
		},
		{
			name:     "today russian",
			text:     "сводка за сегодня",
			wantFrom: day,
			wantTo:   day.AddDate(0, 0, 1),
		},
		{
			name:     "yesterday",
			text:     "покажи за вчера",
			wantFrom: day.AddDate(0, 0, -1),
			wantTo:   day,
		},
		{
			name:     "week russian inflected",
			text:     "сколько за неделю",
			wantFrom: day.AddDate(0, 0, -6),
			wantTo:   day.AddDate(0, 0, 1),
		},
		{
			name:     "month english",
			text:     "summary for the month",
			wantFrom: day.AddDate(0, 0, -29),
			wantTo:   day.AddDate(0, 0, 1),
		},
		{
			name:     "this year",
			text:     "итоги за год",
			wantFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "iso date",
			text:     "покажи 2025-06-01",
			wantFrom: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "iso month",
			text:     "summary 2025-05",
			wantFrom: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "n days",
			text:     "report for 10 days",
			wantFrom: day.AddDate(0, 0, -9),
			wantTo:   day.AddDate(0, 0, 1),
		},
		{
			name:     "n days clamped to a year",
			text:     "за 999 дней",
			wantFrom: day.AddDate(0, 0, -364),
			wantTo:   day.AddDate(0, 0, 1),
		},
		{
			name:    "no period named",
			text:    "покажи сводку",
			wantNil: true,
		},
		{
			name:    "plain transaction text",
			text:    "coffee 5",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParsePeriod(tt.text, now)
			if tt.wantNil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.True(t, got.From.Equal(tt.wantFrom), "from: got %v want %v", got.From, tt.wantFrom)
			require.True(t, got.To.Equal(tt.wantTo), "to: got %v want %v", got.To, tt.wantTo)
		})
	}
}

func TestParsePeriodLocalMidnight(t *testing.T) {
	t.Parallel()

	// Late evening local time is already the next day in UTC; "today" must
	// still mean the local calendar day.
	loc := time.FixedZone("UTC-3", -3*60*60)
	now := time.Date(2025, 6, 18, 22, 15, 0, 0, loc)

	p := ParsePeriod("show today", now)
	require.NotNil(t, p)
	require.Equal(t, time.Date(2025, 6, 18, 0, 0, 0, 0, loc), p.From)
	require.Equal(t, time.Date(2025, 6, 19, 0, 0, 0, 0, loc), p.To)
}
