package billing

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/provia-hq/provia/modules/billing/domain/period"
)

// BillingReport is the finished commission report for one employee and
// one period. It is immutable after construction; getters hand out
// copies of the item slices.
type BillingReport struct {
	number      string
	employee    EmployeeSnapshot
	period      period.ReportPeriod
	ownItems    []LineItem
	hierItems   []LineItem
	tipItems    []LineItem
	ownSummary  ProvisionSummary
	hierSummary ProvisionSummary
	tipSummary  ProvisionSummary
	total       ProvisionSummary
	generatedBy string
	generatedAt time.Time
}

func NewReport(
	number string,
	employee EmployeeSnapshot,
	p period.ReportPeriod,
	own, hierarchy, tipProvider []LineItem,
	generatedBy string,
	generatedAt time.Time,
) *BillingReport {
	ownSummary := Summarize(own)
	hierSummary := Summarize(hierarchy)
	tipSummary := Summarize(tipProvider)
	return &BillingReport{
		number:      number,
		employee:    employee,
		period:      p,
		ownItems:    copyItems(own),
		hierItems:   copyItems(hierarchy),
		tipItems:    copyItems(tipProvider),
		ownSummary:  ownSummary,
		hierSummary: hierSummary,
		tipSummary:  tipSummary,
		total:       ownSummary.Add(hierSummary).Add(tipSummary),
		generatedBy: generatedBy,
		generatedAt: generatedAt,
	}
}

func (r *BillingReport) Number() string                       { return r.number }
func (r *BillingReport) Employee() EmployeeSnapshot           { return r.employee }
func (r *BillingReport) Period() period.ReportPeriod          { return r.period }
func (r *BillingReport) OwnItems() []LineItem                 { return copyItems(r.ownItems) }
func (r *BillingReport) HierarchyItems() []LineItem           { return copyItems(r.hierItems) }
func (r *BillingReport) TipProviderItems() []LineItem         { return copyItems(r.tipItems) }
func (r *BillingReport) OwnSummary() ProvisionSummary         { return r.ownSummary }
func (r *BillingReport) HierarchySummary() ProvisionSummary   { return r.hierSummary }
func (r *BillingReport) TipProviderSummary() ProvisionSummary { return r.tipSummary }
func (r *BillingReport) Total() ProvisionSummary              { return r.total }
func (r *BillingReport) GeneratedBy() string                  { return r.generatedBy }
func (r *BillingReport) GeneratedAt() time.Time               { return r.generatedAt }

// AllItems returns every line item across the three sources sorted by
// transaction date, then source, then transaction id for a stable order.
func (r *BillingReport) AllItems() []LineItem {
	out := make([]LineItem, 0, len(r.ownItems)+len(r.hierItems)+len(r.tipItems))
	out = append(out, r.ownItems...)
	out = append(out, r.hierItems...)
	out = append(out, r.tipItems...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].TransactionID.String() < out[j].TransactionID.String()
	})
	return out
}

func copyItems(items []LineItem) []LineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

// ReportSnapshot is the serialized form of a BillingReport.
type ReportSnapshot struct {
	Number             string              `json:"number"`
	Employee           EmployeeSnapshot    `json:"employee"`
	Period             period.ReportPeriod `json:"period"`
	OwnItems           []LineItem          `json:"own_items"`
	HierarchyItems     []LineItem          `json:"hierarchy_items"`
	TipProviderItems   []LineItem          `json:"tip_provider_items"`
	OwnSummary         ProvisionSummary    `json:"own_summary"`
	HierarchySummary   ProvisionSummary    `json:"hierarchy_summary"`
	TipProviderSummary ProvisionSummary    `json:"tip_provider_summary"`
	Total              ProvisionSummary    `json:"total"`
	GeneratedBy        string              `json:"generated_by"`
	GeneratedAt        time.Time           `json:"generated_at"`
}

func (r *BillingReport) Snapshot() ReportSnapshot {
	return ReportSnapshot{
		Number:             r.number,
		Employee:           r.employee,
		Period:             r.period,
		OwnItems:           copyItems(r.ownItems),
		HierarchyItems:     copyItems(r.hierItems),
		TipProviderItems:   copyItems(r.tipItems),
		OwnSummary:         r.ownSummary,
		HierarchySummary:   r.hierSummary,
		TipProviderSummary: r.tipSummary,
		Total:              r.total,
		GeneratedBy:        r.generatedBy,
		GeneratedAt:        r.generatedAt,
	}
}

func HydrateReport(s ReportSnapshot) *BillingReport {
	return NewReport(s.Number, s.Employee, s.Period, s.OwnItems, s.HierarchyItems, s.TipProviderItems, s.GeneratedBy, s.GeneratedAt)
}

func (r *BillingReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Snapshot())
}

func (r *BillingReport) UnmarshalJSON(data []byte) error {
	var s ReportSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = *HydrateReport(s)
	return nil
}
