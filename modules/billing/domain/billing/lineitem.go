package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/provia-hq/provia/pkg/money"
)

// LineItemSource tags where a line item's commission comes from.
type LineItemSource string

const (
	SourceOwn         LineItemSource = "OWN"
	SourceHierarchy   LineItemSource = "HIERARCHY"
	SourceTipProvider LineItemSource = "TIP_PROVIDER"
)

// LineItem is one billable transaction's commission facts.
type LineItem struct {
	Source        LineItemSource `json:"source"`
	TransactionID uuid.UUID      `json:"transaction_id"`
	Date          time.Time      `json:"date"`
	Customer      string         `json:"customer"`
	Category      string         `json:"category"`
	Product       string         `json:"product"`
	Provider      string         `json:"provider"`

	TransactionNet   float64 `json:"transaction_net"`
	TransactionVat   float64 `json:"transaction_vat"`
	TransactionGross float64 `json:"transaction_gross"`

	Percent         float64 `json:"percent"`
	CommissionNet   float64 `json:"commission_net"`
	CommissionVat   float64 `json:"commission_vat"`
	CommissionGross float64 `json:"commission_gross"`

	SubordinateID   *uuid.UUID `json:"subordinate_id,omitempty"`
	SubordinateName string     `json:"subordinate_name,omitempty"`
}

// Assembler turns transactions into commission line items for one
// employee. All three paths share the VAT extraction rule; only the way
// percent and gross commission are obtained differs.
type Assembler struct {
	employee EmployeeSnapshot
	vatRate  float64
}

func NewAssembler(employee EmployeeSnapshot, defaultVATRate float64) *Assembler {
	if defaultVATRate <= 0 {
		defaultVATRate = money.DefaultVATRate
	}
	return &Assembler{employee: employee, vatRate: defaultVATRate}
}

// OwnItem builds the line item for a transaction the employee closed
// themselves. Percent is the base rate for the inferred bucket minus the
// tip-provider share already carved out, floored at zero.
func (a *Assembler) OwnItem(tx *Transaction) LineItem {
	bucket := InferBucket(tx.CategoryType, tx.CommissionType)
	percent := a.employee.Rates.For(bucket) - tx.TipProviderPercent
	if percent < 0 {
		percent = 0
	}
	gross := money.PercentOf(tx.GrossAmount, percent)

	item := a.baseItem(SourceOwn, tx)
	item.Percent = percent
	a.applyVAT(&item, tx, gross)
	return item
}

// HierarchyItem reshapes the pre-computed manager provision of a
// subordinate's transaction. Nothing is recomputed here.
func (a *Assembler) HierarchyItem(tx *Transaction) LineItem {
	item := a.baseItem(SourceHierarchy, tx)
	item.SubordinateID = tx.OwnerEmployeeID
	item.SubordinateName = ownerName(tx)

	var gross float64
	if tx.ManagerProvision != nil {
		item.Percent = tx.ManagerProvision.Percent
		gross = tx.ManagerProvision.Amount
	}
	a.applyVAT(&item, tx, gross)
	return item
}

// TipProviderItem builds the line item for the given tip provider's share
// of the transaction.
func (a *Assembler) TipProviderItem(tx *Transaction, providerID uuid.UUID) LineItem {
	item := a.baseItem(SourceTipProvider, tx)
	item.SubordinateID = tx.OwnerEmployeeID
	item.SubordinateName = ownerName(tx)

	percent := tx.TipProviderPercent
	gross := tx.TipProviderAmount
	if alloc, ok := tx.TipProvider(providerID); ok {
		percent = alloc.Percent
		gross = alloc.Amount
	}
	item.Percent = percent
	a.applyVAT(&item, tx, gross)
	return item
}

func (a *Assembler) baseItem(source LineItemSource, tx *Transaction) LineItem {
	return LineItem{
		Source:           source,
		TransactionID:    tx.ID,
		Date:             tx.Date,
		Customer:         tx.CustomerName,
		Category:         tx.CategoryName,
		Product:          tx.ProductName,
		Provider:         tx.ProviderName,
		TransactionNet:   tx.NetAmount,
		TransactionVat:   tx.VatAmount,
		TransactionGross: tx.GrossAmount,
	}
}

// applyVAT fills the commission amounts. A VAT-liable transaction billed
// by a regular filer carries its commission VAT-inclusive; the net is
// carved out of the gross. Exempt employees and VAT-free transactions
// keep the amount whole.
func (a *Assembler) applyVAT(item *LineItem, tx *Transaction, gross float64) {
	gross = money.Round(gross)
	item.CommissionGross = gross
	if tx.HasVAT && !a.employee.SmallBusiness {
		net, vat := money.SplitInclusive(gross, tx.EffectiveVATRate(a.vatRate))
		item.CommissionNet = net
		item.CommissionVat = vat
		return
	}
	item.CommissionNet = gross
	item.CommissionVat = 0
}

func ownerName(tx *Transaction) string {
	if strings.TrimSpace(tx.OwnerEmployeeName) != "" {
		return tx.OwnerEmployeeName
	}
	if tx.OwnerEmployeeID != nil {
		return tx.OwnerEmployeeID.String()
	}
	return "unknown"
}
