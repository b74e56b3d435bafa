package billing

import "github.com/provia-hq/provia/pkg/money"

// ProvisionSummary aggregates a line-item list. Amount fields carry
// already-rounded components; the folds use money.Add so accumulating many
// rounded cents never drifts, and Add never re-rounds them.
type ProvisionSummary struct {
	EntryCount          int     `json:"entry_count"`
	TotalNet            float64 `json:"total_net"`
	TotalVat            float64 `json:"total_vat"`
	TotalGross          float64 `json:"total_gross"`
	TotalProvision      float64 `json:"total_provision"`
	TotalProvisionVat   float64 `json:"total_provision_vat"`
	TotalProvisionGross float64 `json:"total_provision_gross"`
}

func Summarize(items []LineItem) ProvisionSummary {
	var s ProvisionSummary
	for _, item := range items {
		s.EntryCount++
		s.TotalNet = money.Add(s.TotalNet, item.TransactionNet)
		s.TotalVat = money.Add(s.TotalVat, item.TransactionVat)
		s.TotalGross = money.Add(s.TotalGross, item.TransactionGross)
		s.TotalProvision = money.Add(s.TotalProvision, item.CommissionNet)
		s.TotalProvisionVat = money.Add(s.TotalProvisionVat, item.CommissionVat)
		s.TotalProvisionGross = money.Add(s.TotalProvisionGross, item.CommissionGross)
	}
	return s
}

// Add returns the field-wise sum of two summaries.
func (s ProvisionSummary) Add(other ProvisionSummary) ProvisionSummary {
	return ProvisionSummary{
		EntryCount:          s.EntryCount + other.EntryCount,
		TotalNet:            money.Add(s.TotalNet, other.TotalNet),
		TotalVat:            money.Add(s.TotalVat, other.TotalVat),
		TotalGross:          money.Add(s.TotalGross, other.TotalGross),
		TotalProvision:      money.Add(s.TotalProvision, other.TotalProvision),
		TotalProvisionVat:   money.Add(s.TotalProvisionVat, other.TotalProvisionVat),
		TotalProvisionGross: money.Add(s.TotalProvisionGross, other.TotalProvisionGross),
	}
}
