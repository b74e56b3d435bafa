package period_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/provia-hq/provia/modules/billing/domain/period"
)

func TestMonthBounds(t *testing.T) {
	p := period.Month(2026, time.February)

	require.True(t, p.Contains(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, p.Contains(time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)))
	require.False(t, p.Contains(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.False(t, p.Contains(time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)))
	require.Equal(t, "2026-02", p.Label())
}

func TestQuarter(t *testing.T) {
	p, err := period.Quarter(2026, 2)
	require.NoError(t, err)
	require.True(t, p.Contains(time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)))
	require.True(t, p.Contains(time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)))
	require.False(t, p.Contains(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "Q2 2026", p.Label())

	_, err = period.Quarter(2026, 5)
	var verr *period.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "quarter", verr.Field)
}

func TestYear(t *testing.T) {
	p := period.Year(2026)
	require.True(t, p.Contains(time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)))
	require.False(t, p.Contains(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "2026", p.Label())
}

func TestCustomRejectsInvertedRange(t *testing.T) {
	_, err := period.Custom(
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	)
	var verr *period.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "end", verr.Field)
}

func TestUnmarshalRejectsInvertedRange(t *testing.T) {
	var p period.ReportPeriod
	err := json.Unmarshal([]byte(`{"kind":"custom","start":"2026-03-10T00:00:00Z","end":"2026-03-01T00:00:00Z"}`), &p)
	var verr *period.ValidationError
	require.ErrorAs(t, err, &verr)
	require.True(t, p.IsZero())
}

func TestCustomSameDay(t *testing.T) {
	day := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	p, err := period.Custom(day, day)
	require.NoError(t, err)
	require.True(t, p.Contains(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))
	require.True(t, p.Contains(time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)))
	require.False(t, p.Contains(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)))
}

func TestJSONRoundTrip(t *testing.T) {
	p, err := period.Quarter(2026, 1)
	require.NoError(t, err)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got period.ReportPeriod
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, p.Kind(), got.Kind())
	require.True(t, p.Start().Equal(got.Start()))
	require.True(t, p.End().Equal(got.End()))
	require.Equal(t, p.Label(), got.Label())
}
