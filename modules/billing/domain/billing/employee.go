package billing

import (
	"strings"

	"github.com/google/uuid"
)

// CommissionBucket selects which base rate applies to a transaction.
type CommissionBucket string

const (
	BucketBank       CommissionBucket = "bank"
	BucketInsurance  CommissionBucket = "insurance"
	BucketRealEstate CommissionBucket = "real_estate"
)

// ProvisionRates are an employee's configured base commission percentages
// per bucket.
type ProvisionRates struct {
	Bank       float64 `json:"bank"`
	Insurance  float64 `json:"insurance"`
	RealEstate float64 `json:"real_estate"`
}

func (r ProvisionRates) For(bucket CommissionBucket) float64 {
	switch bucket {
	case BucketInsurance:
		return r.Insurance
	case BucketRealEstate:
		return r.RealEstate
	default:
		return r.Bank
	}
}

// EmployeeSnapshot is the resolved employee view a report is built for.
// TaxNumber and IBAN are opaque display fields passed through to report
// metadata.
type EmployeeSnapshot struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Rates         ProvisionRates `json:"rates"`
	SmallBusiness bool           `json:"small_business"`
	Has34d        bool           `json:"has_34d"`
	TaxNumber     string         `json:"tax_number,omitempty"`
	IBAN          string         `json:"iban,omitempty"`
}

// InferBucket maps a transaction's category and optional explicit override
// to a commission bucket. The override wins when recognized.
func InferBucket(categoryType, override string) CommissionBucket {
	if b, ok := parseBucket(override); ok {
		return b
	}
	if b, ok := parseBucket(categoryType); ok {
		return b
	}
	return BucketBank
}

func parseBucket(s string) (CommissionBucket, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bank", "banking":
		return BucketBank, true
	case "insurance", "versicherung":
		return BucketInsurance, true
	case "real_estate", "real-estate", "realestate", "immobilien":
		return BucketRealEstate, true
	}
	return "", false
}
