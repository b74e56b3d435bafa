package billing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/provia-hq/provia/modules/billing/domain/billing"
)

func TestSummarize(t *testing.T) {
	items := []billing.LineItem{
		{TransactionNet: 100, TransactionVat: 19, TransactionGross: 119, CommissionNet: 42.02, CommissionVat: 7.98, CommissionGross: 50},
		{TransactionNet: 200, TransactionVat: 38, TransactionGross: 238, CommissionNet: 84.03, CommissionVat: 15.97, CommissionGross: 100},
	}
	s := billing.Summarize(items)
	require.Equal(t, 2, s.EntryCount)
	require.InDelta(t, 300.0, s.TotalNet, 1e-9)
	require.InDelta(t, 57.0, s.TotalVat, 1e-9)
	require.InDelta(t, 357.0, s.TotalGross, 1e-9)
	require.InDelta(t, 126.05, s.TotalProvision, 1e-9)
	require.InDelta(t, 23.95, s.TotalProvisionVat, 1e-9)
	require.InDelta(t, 150.0, s.TotalProvisionGross, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	s := billing.Summarize(nil)
	require.Zero(t, s.EntryCount)
	require.Zero(t, s.TotalGross)
}

func TestAddAssociativeCommutative(t *testing.T) {
	a := billing.ProvisionSummary{EntryCount: 1, TotalNet: 10.5, TotalProvisionGross: 5.25}
	b := billing.ProvisionSummary{EntryCount: 2, TotalNet: 20.25, TotalProvisionGross: 6.5}
	c := billing.ProvisionSummary{EntryCount: 3, TotalNet: 30.125, TotalProvisionGross: 7.125}

	require.Equal(t, a.Add(b), b.Add(a))
	require.Equal(t, a.Add(b).Add(c), a.Add(b.Add(c)))

	sum := a.Add(b).Add(c)
	require.Equal(t, 6, sum.EntryCount)
	require.InDelta(t, 60.875, sum.TotalNet, 1e-9)
	require.InDelta(t, 18.875, sum.TotalProvisionGross, 1e-9)
}

func TestSummarizeAccumulatesWithoutDrift(t *testing.T) {
	// Plain float64 accumulation of 0.1 cents drifts
	// (0.1+0.1+0.1 == 0.30000000000000004); the decimal fold must not.
	items := []billing.LineItem{
		{CommissionNet: 0.1},
		{CommissionNet: 0.1},
		{CommissionNet: 0.1},
	}
	s := billing.Summarize(items)
	require.Equal(t, 0.3, s.TotalProvision)

	half := billing.ProvisionSummary{TotalProvision: 0.1}
	require.Equal(t, 0.3, half.Add(billing.ProvisionSummary{TotalProvision: 0.2}).TotalProvision)
}

func TestAddZeroIsIdentity(t *testing.T) {
	a := billing.ProvisionSummary{EntryCount: 4, TotalGross: 99.99}
	require.Equal(t, a, a.Add(billing.ProvisionSummary{}))
}
