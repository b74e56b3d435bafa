package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/provia-hq/provia/modules/billing/domain/billing"
	"github.com/provia-hq/provia/modules/billing/domain/period"
	"github.com/provia-hq/provia/modules/billing/services"
	"github.com/provia-hq/provia/pkg/money"
)

// buildPayload mirrors the reports:build API body.
type buildPayload struct {
	Employee    billing.EmployeeSnapshot `json:"employee"`
	Period      period.ReportPeriod      `json:"period"`
	Own         []*billing.Transaction   `json:"own_transactions"`
	Hierarchy   []*billing.Transaction   `json:"hierarchy_transactions"`
	TipProvider []*billing.Transaction   `json:"tip_provider_transactions"`
	GeneratedBy string                   `json:"generated_by"`
}

func newBuildCmd() *cobra.Command {
	var (
		inputPath string
		outPath   string
		vatRate   float64
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a commission report from a resolved input payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("read --input: %w", err)
			}
			var payload buildPayload
			if err := json.Unmarshal(data, &payload); err != nil {
				return fmt.Errorf("parse --input: %w", err)
			}

			logger := logrus.New()
			logger.SetLevel(logrus.WarnLevel)

			svc := services.NewReportService(logger, vatRate)
			report, err := svc.Build(cmd.Context(), services.BuildReportInput{
				Employee:    payload.Employee,
				Period:      payload.Period,
				Own:         payload.Own,
				Hierarchy:   payload.Hierarchy,
				TipProvider: payload.TipProvider,
				GeneratedBy: payload.GeneratedBy,
			})
			if err != nil {
				return err
			}

			printSummary(report)

			if outPath != "" {
				if err := writeReportJSON(outPath, report); err != nil {
					return fmt.Errorf("write --out: %w", err)
				}
				fmt.Printf("\nreport written to %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "path to the input payload JSON (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "path to write the report JSON")
	cmd.Flags().Float64Var(&vatRate, "vat-rate", money.DefaultVATRate, "default VAT rate for transactions without one")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
