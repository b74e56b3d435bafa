package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/provia-hq/provia/modules/billing/domain/billing"
	"github.com/provia-hq/provia/modules/billing/domain/period"
	"github.com/provia-hq/provia/modules/billing/services"
	"github.com/provia-hq/provia/pkg/configuration"
	"github.com/provia-hq/provia/pkg/httpapi"
)

type BillingAPIController struct {
	reports   *services.ReportService
	apiPrefix string
}

func NewBillingAPIController(reports *services.ReportService) *BillingAPIController {
	return &BillingAPIController{
		reports:   reports,
		apiPrefix: "/billing/api",
	}
}

func (c *BillingAPIController) Key() string {
	return c.apiPrefix
}

func (c *BillingAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()
	api.HandleFunc("/reports:build", c.BuildReport).Methods(http.MethodPost)
}

// BuildReportRequest is the full payload a report build consumes. The
// period accepts either a named kind (month/quarter/year) or explicit
// custom bounds.
type BuildReportRequest struct {
	Employee    billing.EmployeeSnapshot `json:"employee"`
	Period      period.ReportPeriod      `json:"period"`
	Own         []*billing.Transaction   `json:"own_transactions"`
	Hierarchy   []*billing.Transaction   `json:"hierarchy_transactions"`
	TipProvider []*billing.Transaction   `json:"tip_provider_transactions"`
	GeneratedBy string                   `json:"generated_by"`
}

func (c *BillingAPIController) BuildReport(w http.ResponseWriter, r *http.Request) {
	var req BuildReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}

	report, err := c.reports.Build(r.Context(), services.BuildReportInput{
		Employee:    req.Employee,
		Period:      req.Period,
		Own:         req.Own,
		Hierarchy:   req.Hierarchy,
		TipProvider: req.TipProvider,
		GeneratedBy: req.GeneratedBy,
	})
	if err != nil {
		var serr *services.ServiceError
		if errors.As(err, &serr) {
			c.writeError(w, r, serr.Status, serr.Code, serr.Message)
			return
		}
		c.writeError(w, r, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "unexpected error")
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, report)
}

func (c *BillingAPIController) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := r.Header.Get(configuration.Use().RequestIDHeader)
	_ = httpapi.WriteError(w, status, code, message, httpapi.RequestMeta(requestID, r.URL.Path))
}
