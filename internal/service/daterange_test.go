package service

import (
	"testing"
	"time"
)

var testZone = time.FixedZone("UTC-5", -5*60*60)

func at(y int, m time.Month, d, hh, mm, ss, ms int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, ms*int(time.Millisecond), testZone)
}

func TestResolveFilter(t *testing.T) {
	t.Parallel()

	// Wednesday.
	wednesday := at(2024, time.March, 13, 15, 4, 5, 0)

	tests := []struct {
		name      string
		filter    string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "today",
			filter:    FilterToday,
			now:       wednesday,
			wantStart: at(2024, time.March, 13, 0, 0, 0, 0),
			wantEnd:   at(2024, time.March, 13, 23, 59, 59, 999),
		},
		{
			name:      "this week from midweek",
			filter:    FilterThisWeek,
			now:       wednesday,
			wantStart: at(2024, time.March, 10, 0, 0, 0, 0),
			wantEnd:   at(2024, time.March, 16, 23, 59, 59, 999),
		},
		{
			name:      "this week on sunday",
			filter:    FilterThisWeek,
			now:       at(2024, time.March, 10, 0, 0, 1, 0),
			wantStart: at(2024, time.March, 10, 0, 0, 0, 0),
			wantEnd:   at(2024, time.March, 16, 23, 59, 59, 999),
		},
		{
			name:      "this week on saturday night",
			filter:    FilterThisWeek,
			now:       at(2024, time.March, 16, 23, 59, 0, 0),
			wantStart: at(2024, time.March, 10, 0, 0, 0, 0),
			wantEnd:   at(2024, time.March, 16, 23, 59, 59, 999),
		},
		{
			name:      "last week",
			filter:    FilterLastWeek,
			now:       wednesday,
			wantStart: at(2024, time.March, 3, 0, 0, 0, 0),
			wantEnd:   at(2024, time.March, 9, 23, 59, 59, 999),
		},
		{
			name:      "last week across month boundary",
			filter:    FilterLastWeek,
			now:       at(2024, time.March, 4, 8, 0, 0, 0),
			wantStart: at(2024, time.February, 25, 0, 0, 0, 0),
			wantEnd:   at(2024, time.March, 2, 23, 59, 59, 999),
		},
		{
			name:      "this month",
			filter:    FilterThisMonth,
			now:       wednesday,
			wantStart: at(2024, time.March, 1, 0, 0, 0, 0),
			wantEnd:   at(2024, time.March, 31, 23, 59, 59, 999),
		},
		{
			name:      "last month leap february",
			filter:    FilterLastMonth,
			now:       wednesday,
			wantStart: at(2024, time.February, 1, 0, 0, 0, 0),
			wantEnd:   at(2024, time.February, 29, 23, 59, 59, 999),
		},
		{
			name:      "last month from january rolls year",
			filter:    FilterLastMonth,
			now:       at(2024, time.January, 15, 12, 0, 0, 0),
			wantStart: at(2023, time.December, 1, 0, 0, 0, 0),
			wantEnd:   at(2023, time.December, 31, 23, 59, 59, 999),
		},
		{
			name:      "this month on the 31st",
			filter:    FilterThisMonth,
			now:       at(2023, time.December, 31, 23, 0, 0, 0),
			wantStart: at(2023, time.December, 1, 0, 0, 0, 0),
			wantEnd:   at(2023, time.December, 31, 23, 59, 59, 999),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ResolveFilter(tt.filter, tt.now)
			if !ok {
				t.Fatalf("expected %q to resolve", tt.filter)
			}
			if !got.Start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", got.Start, tt.wantStart)
			}
			if !got.End.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", got.End, tt.wantEnd)
			}
		})
	}
}

func TestResolveFilter_Unknown(t *testing.T) {
	t.Parallel()

	for _, filter := range []string{"", "yesterday", "THIS-WEEK", "next-month"} {
		if _, ok := ResolveFilter(filter, time.Now()); ok {
			t.Errorf("expected %q to be unrecognized", filter)
		}
	}
}

func TestResolveDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantOK  bool
		wantDay time.Time
	}{
		{"date only", "2024-03-15", true, at(2024, time.March, 15, 0, 0, 0, 0)},
		{"rfc3339 converted to local day", "2024-03-15T02:00:00Z", true, at(2024, time.March, 14, 0, 0, 0, 0)},
		{"rfc3339 with offset", "2024-03-15T10:00:00-05:00", true, at(2024, time.March, 15, 0, 0, 0, 0)},
		{"invalid calendar day", "2024-02-30", false, time.Time{}},
		{"wrong layout", "15/03/2024", false, time.Time{}},
		{"garbage", "not-a-date", false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ResolveDate(tt.value, testZone)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !got.Start.Equal(tt.wantDay) {
				t.Errorf("start = %v, want %v", got.Start, tt.wantDay)
			}
			wantEnd := tt.wantDay.Add(24*time.Hour - time.Millisecond)
			if !got.End.Equal(wantEnd) {
				t.Errorf("end = %v, want %v", got.End, wantEnd)
			}
		})
	}
}

func TestDateRange_ContainsBoundaries(t *testing.T) {
	t.Parallel()

	rng, ok := ResolveDate("2024-03-15", testZone)
	if !ok {
		t.Fatal("expected date to resolve")
	}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"start boundary", at(2024, time.March, 15, 0, 0, 0, 0), true},
		{"end boundary", at(2024, time.March, 15, 23, 59, 59, 999), true},
		{"midday", at(2024, time.March, 15, 12, 0, 0, 0), true},
		{"just before", at(2024, time.March, 14, 23, 59, 59, 999), false},
		{"next day", at(2024, time.March, 16, 0, 0, 0, 0), false},
	}

	for _, tt := range tests {
		if got := rng.Contains(tt.t); got != tt.want {
			t.Errorf("%s: Contains(%v) = %v, want %v", tt.name, tt.t, got, tt.want)
		}
	}
}
