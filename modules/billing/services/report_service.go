package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/provia-hq/provia/modules/billing/domain/billing"
	"github.com/provia-hq/provia/modules/billing/domain/period"
	"github.com/provia-hq/provia/modules/orgchart/domain/tree"
	"github.com/provia-hq/provia/pkg/money"
)

type ServiceError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func newServiceError(status int, code, message string, cause error) *ServiceError {
	return &ServiceError{Status: status, Code: code, Message: message, Cause: cause}
}

// BuildReportInput carries everything a report needs, fully resolved. The
// hierarchy and tip-provider transaction views arrive pre-filtered by the
// upstream that derived them; the exclusion engine runs on own
// transactions only.
type BuildReportInput struct {
	Employee    billing.EmployeeSnapshot
	Period      period.ReportPeriod
	Own         []*billing.Transaction
	Hierarchy   []*billing.Transaction
	TipProvider []*billing.Transaction
	Tree        *tree.HierarchyTree
	GeneratedBy string
}

// ReportService assembles billing reports. Pure in-memory orchestration;
// every input is resolved before Build runs.
type ReportService struct {
	log     *logrus.Logger
	vatRate float64
	seq     atomic.Uint64
}

func NewReportService(log *logrus.Logger, defaultVATRate float64) *ReportService {
	if defaultVATRate <= 0 {
		defaultVATRate = money.DefaultVATRate
	}
	return &ReportService{log: log, vatRate: defaultVATRate}
}

func (s *ReportService) Build(ctx context.Context, in BuildReportInput) (*billing.BillingReport, error) {
	if in.Employee.ID == uuid.Nil {
		return nil, newServiceError(400, "BILLING_NO_EMPLOYEE", "report requires an employee snapshot", nil)
	}
	if in.Period.IsZero() {
		return nil, newServiceError(400, "BILLING_INVALID_PERIOD", "report requires a period", nil)
	}
	if in.Tree != nil && !in.Tree.HasNode(in.Employee.ID) {
		return nil, newServiceError(404, "BILLING_EMPLOYEE_NOT_IN_TREE",
			fmt.Sprintf("employee %s is not part of the supplied hierarchy", in.Employee.ID), nil)
	}

	assembler := billing.NewAssembler(in.Employee, s.vatRate)

	ownItems := make([]billing.LineItem, 0, len(in.Own))
	for _, tx := range s.filter(in.Own, in.Period, true, in.Employee.Has34d) {
		ownItems = append(ownItems, assembler.OwnItem(tx))
	}

	hierItems := make([]billing.LineItem, 0, len(in.Hierarchy))
	for _, tx := range s.filter(in.Hierarchy, in.Period, false, false) {
		hierItems = append(hierItems, assembler.HierarchyItem(tx))
	}

	tipItems := make([]billing.LineItem, 0, len(in.TipProvider))
	for _, tx := range s.filter(in.TipProvider, in.Period, false, false) {
		tipItems = append(tipItems, assembler.TipProviderItem(tx, in.Employee.ID))
	}

	generatedBy := in.GeneratedBy
	if generatedBy == "" {
		generatedBy = "system"
	}
	now := time.Now().UTC()
	number := fmt.Sprintf("PR-%d-%04d", now.Year(), s.seq.Add(1))

	report := billing.NewReport(number, in.Employee, in.Period, ownItems, hierItems, tipItems, generatedBy, now)

	s.log.WithFields(logrus.Fields{
		"report_number": number,
		"employee_id":   in.Employee.ID,
		"period":        in.Period.Label(),
		"own_items":     len(ownItems),
		"hier_items":    len(hierItems),
		"tip_items":     len(tipItems),
	}).Info("billing report assembled")

	return report, nil
}

// filter applies the status filter, the exclusion engine (own
// transactions only, manual-billing records bypass it) and the period
// containment check, in that order.
func (s *ReportService) filter(txs []*billing.Transaction, p period.ReportPeriod, applyExclusion, has34d bool) []*billing.Transaction {
	out := make([]*billing.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx == nil || !tx.Billable() {
			continue
		}
		if applyExclusion && !tx.ManualBilling &&
			billing.ShouldExclude(tx.CategoryType, tx.ProductName, has34d, tx.Source) {
			continue
		}
		if !p.Contains(tx.Date) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
