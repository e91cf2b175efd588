package daterange

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSelector_DefaultsToMonthToDate(t *testing.T) {
	s := NewSelector(WithClock(fixedClock))

	assert.Equal(t, MonthToDate, s.SelectedRange())
	assert.Equal(t, date(2024, time.March, 1), s.EffectiveStart())
	assert.Equal(t, fixedNow, s.EffectiveEnd())
}

func TestSelector_PresetStarts(t *testing.T) {
	tests := []struct {
		preset Preset
		now    time.Time
		want   time.Time
	}{
		{MonthToDate, fixedNow, date(2024, time.March, 1)},
		{YearToDate, fixedNow, date(2024, time.January, 1)},
		{LastMonth, fixedNow, date(2024, time.February, 1)},
		{LastMonth, time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC), date(2023, time.December, 1)},
		{Custom, fixedNow, date(2024, time.March, 1)},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset)+"@"+tt.now.Format(time.DateOnly), func(t *testing.T) {
			now := tt.now
			s := NewSelector(WithClock(func() time.Time { return now }))
			require.NoError(t, s.SetRange(tt.preset))

			assert.Equal(t, tt.want, s.EffectiveStart())
		})
	}
}

func TestSelector_EffectiveEndIsNowForPresets(t *testing.T) {
	for _, p := range []Preset{MonthToDate, YearToDate, LastMonth} {
		t.Run(string(p), func(t *testing.T) {
			s := NewSelector(WithClock(fixedClock))
			require.NoError(t, s.SetRange(p))

			assert.Equal(t, fixedNow, s.EffectiveEnd())
		})
	}
}

func TestSelector_CustomBounds(t *testing.T) {
	s := NewSelector(WithClock(fixedClock))
	a, b := date(2023, time.June, 1), date(2023, time.June, 30)

	require.NoError(t, s.SetRange(Custom))
	require.NoError(t, s.SetCustomBounds(a, b))

	assert.Equal(t, a, s.EffectiveStart())
	assert.Equal(t, b, s.EffectiveEnd())
}

func TestSelector_CustomBoundsSameDay(t *testing.T) {
	s := NewSelector(WithClock(fixedClock))
	a := date(2023, time.June, 1)

	require.NoError(t, s.SetCustomRange(a, a))

	assert.Equal(t, Custom, s.SelectedRange())
	assert.Equal(t, a, s.EffectiveStart())
	assert.Equal(t, a, s.EffectiveEnd())
}

func TestSelector_SetCustomBoundsDoesNotSwitchMode(t *testing.T) {
	s := NewSelector(WithClock(fixedClock))
	require.NoError(t, s.SetRange(YearToDate))

	require.NoError(t, s.SetCustomBounds(date(2022, time.May, 1), date(2022, time.May, 31)))

	assert.Equal(t, YearToDate, s.SelectedRange())
	assert.Equal(t, date(2024, time.January, 1), s.EffectiveStart())
	assert.Equal(t, fixedNow, s.EffectiveEnd())
}

func TestSelector_LeavingCustomClearsBounds(t *testing.T) {
	s := NewSelector(WithClock(fixedClock))
	require.NoError(t, s.SetCustomRange(date(2023, time.June, 1), date(2023, time.June, 30)))

	require.NoError(t, s.SetRange(LastMonth))
	_, ok := s.CustomBounds()
	assert.False(t, ok)

	require.NoError(t, s.SetRange(Custom))
	_, ok = s.CustomBounds()
	assert.False(t, ok)
	assert.Equal(t, date(2024, time.March, 1), s.EffectiveStart())
	assert.Equal(t, fixedNow, s.EffectiveEnd())
}

func TestSelector_InvalidInput(t *testing.T) {
	s := NewSelector(WithClock(fixedClock))
	require.NoError(t, s.SetRange(YearToDate))

	err := s.SetRange("quarterToDate")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, YearToDate, s.SelectedRange())

	err = s.SetCustomBounds(date(2023, time.July, 1), date(2023, time.June, 1))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = s.SetCustomRange(time.Time{}, date(2023, time.June, 1))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, YearToDate, s.SelectedRange())
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("lastMonth")
	require.NoError(t, err)
	assert.Equal(t, LastMonth, p)

	_, err = ParsePreset("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSelector_Snapshot(t *testing.T) {
	s := NewSelector(WithClock(fixedClock), WithPreset(YearToDate))

	st := s.Snapshot()
	assert.Equal(t, YearToDate, st.SelectedRange)
	assert.Nil(t, st.CustomBounds)
	assert.Equal(t, date(2024, time.January, 1), st.Start)
	assert.Equal(t, fixedNow, st.End)

	require.NoError(t, s.SetCustomRange(date(2023, time.June, 1), date(2023, time.June, 30)))
	st = s.Snapshot()
	require.NotNil(t, st.CustomBounds)
	assert.Equal(t, date(2023, time.June, 30), st.CustomBounds.End)
}

func TestSelector_ConcurrentReaders(t *testing.T) {
	s := NewSelector(WithClock(fixedClock))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				st := s.Snapshot()
				assert.False(t, st.Start.After(st.End))
			}
		}()
	}
	for j := 0; j < 100; j++ {
		if j%2 == 0 {
			_ = s.SetRange(YearToDate)
		} else {
			_ = s.SetCustomRange(date(2023, time.June, 1), date(2023, time.June, 30))
		}
	}
	wg.Wait()
}
