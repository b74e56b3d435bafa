package billing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/provia-hq/provia/modules/billing/domain/billing"
)

func bankEmployee(rate float64) billing.EmployeeSnapshot {
	return billing.EmployeeSnapshot{
		ID:   uuid.New(),
		Name: "Anna Schmidt",
		Rates: billing.ProvisionRates{
			Bank: rate,
		},
	}
}

func bankTransaction(gross float64) *billing.Transaction {
	return &billing.Transaction{
		ID:           uuid.New(),
		Date:         time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CustomerName: "Kunde GmbH",
		CategoryType: "bank",
		CategoryName: "Bank",
		ProductName:  "Girokonto",
		GrossAmount:  gross,
		HasVAT:       true,
		VATRate:      19,
		Status:       "paid",
	}
}

func TestOwnItemCommission(t *testing.T) {
	a := billing.NewAssembler(bankEmployee(50), 19)

	item := a.OwnItem(bankTransaction(200))
	require.Equal(t, billing.SourceOwn, item.Source)
	require.InDelta(t, 50.0, item.Percent, 1e-9)
	require.InDelta(t, 100.0, item.CommissionGross, 1e-9)
	require.InDelta(t, 84.03, item.CommissionNet, 1e-9)
	require.InDelta(t, 15.97, item.CommissionVat, 1e-9)
	require.InDelta(t, item.CommissionGross, item.CommissionNet+item.CommissionVat, 1e-9)
}

func TestOwnItemDeductsTipProviderShare(t *testing.T) {
	a := billing.NewAssembler(bankEmployee(50), 19)

	tx := bankTransaction(200)
	tx.TipProviderPercent = 10
	item := a.OwnItem(tx)
	require.InDelta(t, 40.0, item.Percent, 1e-9)
	require.InDelta(t, 80.0, item.CommissionGross, 1e-9)
}

func TestOwnItemPercentFlooredAtZero(t *testing.T) {
	a := billing.NewAssembler(bankEmployee(5), 19)

	tx := bankTransaction(200)
	tx.TipProviderPercent = 10
	item := a.OwnItem(tx)
	require.Zero(t, item.Percent)
	require.Zero(t, item.CommissionGross)
	require.Zero(t, item.CommissionNet)
	require.Zero(t, item.CommissionVat)
}

func TestOwnItemCommissionTypeOverride(t *testing.T) {
	emp := bankEmployee(50)
	emp.Rates.RealEstate = 30
	a := billing.NewAssembler(emp, 19)

	tx := bankTransaction(100)
	tx.CommissionType = "real_estate"
	item := a.OwnItem(tx)
	require.InDelta(t, 30.0, item.Percent, 1e-9)
}

func TestSmallBusinessSkipsVATExtraction(t *testing.T) {
	emp := bankEmployee(50)
	emp.SmallBusiness = true
	a := billing.NewAssembler(emp, 19)

	item := a.OwnItem(bankTransaction(238))
	require.InDelta(t, 119.0, item.CommissionGross, 1e-9)
	require.InDelta(t, 119.0, item.CommissionNet, 1e-9)
	require.Zero(t, item.CommissionVat)
}

func TestVATFreeTransactionKeepsAmountWhole(t *testing.T) {
	a := billing.NewAssembler(bankEmployee(50), 19)

	tx := bankTransaction(238)
	tx.HasVAT = false
	item := a.OwnItem(tx)
	require.InDelta(t, 119.0, item.CommissionNet, 1e-9)
	require.Zero(t, item.CommissionVat)
}

func TestHierarchyItemCopiesManagerProvision(t *testing.T) {
	a := billing.NewAssembler(bankEmployee(50), 19)

	ownerID := uuid.New()
	tx := bankTransaction(200)
	tx.OwnerEmployeeID = &ownerID
	tx.OwnerEmployeeName = "Bernd Bauer"
	tx.ManagerProvision = &billing.ManagerProvision{Percent: 12.5, Amount: 25}

	item := a.HierarchyItem(tx)
	require.Equal(t, billing.SourceHierarchy, item.Source)
	require.InDelta(t, 12.5, item.Percent, 1e-9)
	require.InDelta(t, 25.0, item.CommissionGross, 1e-9)
	require.InDelta(t, 21.01, item.CommissionNet, 1e-9)
	require.InDelta(t, 3.99, item.CommissionVat, 1e-9)
	require.Equal(t, "Bernd Bauer", item.SubordinateName)
	require.Equal(t, ownerID, *item.SubordinateID)
}

func TestHierarchyItemWithoutProvisionIsZero(t *testing.T) {
	a := billing.NewAssembler(bankEmployee(50), 19)

	item := a.HierarchyItem(bankTransaction(200))
	require.Zero(t, item.Percent)
	require.Zero(t, item.CommissionGross)
}

func TestTipProviderItemLookup(t *testing.T) {
	a := billing.NewAssembler(bankEmployee(0), 19)

	providerID := uuid.New()
	tx := bankTransaction(200)
	tx.TipProviderPercent = 5
	tx.TipProviderAmount = 10
	tx.TipProviders = []billing.TipProviderAllocation{
		{ID: providerID, Name: "Tippgeber Nord", Percent: 8, Amount: 16},
	}

	item := a.TipProviderItem(tx, providerID)
	require.Equal(t, billing.SourceTipProvider, item.Source)
	require.InDelta(t, 8.0, item.Percent, 1e-9)
	require.InDelta(t, 16.0, item.CommissionGross, 1e-9)
}

func TestTipProviderItemFallsBackToFlatFields(t *testing.T) {
	a := billing.NewAssembler(bankEmployee(0), 19)

	tx := bankTransaction(200)
	tx.TipProviderPercent = 5
	tx.TipProviderAmount = 10

	item := a.TipProviderItem(tx, uuid.New())
	require.InDelta(t, 5.0, item.Percent, 1e-9)
	require.InDelta(t, 10.0, item.CommissionGross, 1e-9)
}

func TestOwnerNameFallbackChain(t *testing.T) {
	a := billing.NewAssembler(bankEmployee(0), 19)

	tx := bankTransaction(100)
	item := a.HierarchyItem(tx)
	require.Equal(t, "unknown", item.SubordinateName)

	ownerID := uuid.New()
	tx.OwnerEmployeeID = &ownerID
	item = a.HierarchyItem(tx)
	require.Equal(t, ownerID.String(), item.SubordinateName)

	tx.OwnerEmployeeName = "Clara Cordes"
	item = a.HierarchyItem(tx)
	require.Equal(t, "Clara Cordes", item.SubordinateName)
}

func TestBillableReadsNestedOriginalStatus(t *testing.T) {
	tx := bankTransaction(100)
	require.True(t, tx.Billable())

	tx.Status = "rejected"
	require.False(t, tx.Billable())

	derived := bankTransaction(100)
	derived.Status = "paid"
	derived.Original = &billing.Transaction{Status: "cancelled"}
	require.False(t, derived.Billable())
}
