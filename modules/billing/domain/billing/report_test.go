package billing_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/provia-hq/provia/modules/billing/domain/billing"
	"github.com/provia-hq/provia/modules/billing/domain/period"
)

func sampleReport(t *testing.T) *billing.BillingReport {
	t.Helper()
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	own := []billing.LineItem{
		{Source: billing.SourceOwn, TransactionID: uuid.New(), Date: day(15), CommissionNet: 84.03, CommissionVat: 15.97, CommissionGross: 100},
		{Source: billing.SourceOwn, TransactionID: uuid.New(), Date: day(3), CommissionNet: 42.02, CommissionVat: 7.98, CommissionGross: 50},
	}
	hier := []billing.LineItem{
		{Source: billing.SourceHierarchy, TransactionID: uuid.New(), Date: day(10), CommissionNet: 21.01, CommissionVat: 3.99, CommissionGross: 25},
	}
	tip := []billing.LineItem{
		{Source: billing.SourceTipProvider, TransactionID: uuid.New(), Date: day(3), CommissionNet: 10, CommissionGross: 10},
	}
	return billing.NewReport(
		"PR-2026-0042",
		billing.EmployeeSnapshot{ID: uuid.New(), Name: "Anna Schmidt"},
		period.Month(2026, time.March),
		own, hier, tip,
		"system",
		time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	)
}

func TestReportTotals(t *testing.T) {
	r := sampleReport(t)

	require.Equal(t, 2, r.OwnSummary().EntryCount)
	require.Equal(t, 1, r.HierarchySummary().EntryCount)
	require.Equal(t, 1, r.TipProviderSummary().EntryCount)

	total := r.Total()
	require.Equal(t, 4, total.EntryCount)
	require.InDelta(t, 185.0, total.TotalProvisionGross, 1e-9)
	require.InDelta(t,
		r.OwnSummary().TotalProvision+r.HierarchySummary().TotalProvision+r.TipProviderSummary().TotalProvision,
		total.TotalProvision, 1e-9)
}

func TestAllItemsChronological(t *testing.T) {
	r := sampleReport(t)

	all := r.AllItems()
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		require.False(t, all[i].Date.Before(all[i-1].Date))
	}
	// Same-day tie breaks on source tag.
	require.Equal(t, billing.SourceOwn, all[0].Source)
	require.Equal(t, billing.SourceTipProvider, all[1].Source)
}

func TestGettersReturnCopies(t *testing.T) {
	r := sampleReport(t)

	items := r.OwnItems()
	items[0].CommissionGross = -1
	require.InDelta(t, 100.0, r.OwnItems()[0].CommissionGross, 1e-9)
}

func TestReportJSONRoundTrip(t *testing.T) {
	r := sampleReport(t)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var got billing.BillingReport
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, r.Number(), got.Number())
	require.Equal(t, r.Employee(), got.Employee())
	require.Equal(t, r.Total(), got.Total())
	require.Equal(t, r.Period().Label(), got.Period().Label())
	require.True(t, r.GeneratedAt().Equal(got.GeneratedAt()))
	require.Len(t, got.AllItems(), 4)
}
