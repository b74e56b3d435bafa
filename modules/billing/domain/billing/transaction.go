package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Transaction statuses relevant to billing. Anything else is treated as
// billable.
const (
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// TipProviderAllocation is one tip provider's share of a transaction.
type TipProviderAllocation struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Percent float64   `json:"percent"`
	Amount  float64   `json:"amount"`
}

// ManagerProvision carries the hierarchy commission pre-computed upstream.
// The assembler copies it verbatim and never recomputes it.
type ManagerProvision struct {
	Percent float64 `json:"percent"`
	Amount  float64 `json:"amount"`
}

// Transaction is the consumed record the billing pipeline runs over. It
// arrives fully resolved; this package never loads anything.
type Transaction struct {
	ID              uuid.UUID `json:"id"`
	Date            time.Time `json:"date"`
	CustomerName    string    `json:"customer_name"`
	CustomerAddress string    `json:"customer_address"`
	CategoryType    string    `json:"category_type"`
	CategoryName    string    `json:"category_name"`
	ProductName     string    `json:"product_name"`
	ProviderName    string    `json:"provider_name"`

	NetAmount   float64 `json:"net_amount"`
	VatAmount   float64 `json:"vat_amount"`
	GrossAmount float64 `json:"gross_amount"`
	HasVAT      bool    `json:"has_vat"`
	VATRate     float64 `json:"vat_rate"`

	Status        string `json:"status"`
	Source        string `json:"source"`
	ManualBilling bool   `json:"manual_billing"`

	// CommissionType overrides the category-derived bucket when set.
	CommissionType string `json:"commission_type,omitempty"`

	TipProviderPercent float64                 `json:"tip_provider_percent"`
	TipProviderAmount  float64                 `json:"tip_provider_amount"`
	TipProviders       []TipProviderAllocation `json:"tip_providers,omitempty"`

	OwnerEmployeeID   *uuid.UUID `json:"owner_employee_id,omitempty"`
	OwnerEmployeeName string     `json:"owner_employee_name,omitempty"`

	ManagerProvision *ManagerProvision `json:"manager_provision,omitempty"`

	// Original is the nested original-transaction view present on derived
	// records. Status checks read it when set.
	Original *Transaction `json:"original,omitempty"`
}

// EffectiveStatus resolves the status used for the billable filter,
// preferring the nested original view.
func (t *Transaction) EffectiveStatus() string {
	if t.Original != nil && strings.TrimSpace(t.Original.Status) != "" {
		return t.Original.Status
	}
	return t.Status
}

// Billable reports whether the transaction survives the status filter.
func (t *Transaction) Billable() bool {
	switch strings.ToLower(strings.TrimSpace(t.EffectiveStatus())) {
	case StatusRejected, StatusCancelled:
		return false
	}
	return true
}

// EffectiveVATRate returns the transaction's VAT rate, falling back to the
// given default when unset.
func (t *Transaction) EffectiveVATRate(defaultRate float64) float64 {
	if t.VATRate > 0 {
		return t.VATRate
	}
	return defaultRate
}

// TipProvider finds the allocation for the given provider id.
func (t *Transaction) TipProvider(id uuid.UUID) (TipProviderAllocation, bool) {
	for _, a := range t.TipProviders {
		if a.ID == id {
			return a, true
		}
	}
	return TipProviderAllocation{}, false
}
