package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/provia-hq/provia/modules/billing/domain/billing"
)

func printSummary(report *billing.BillingReport) {
	fmt.Printf("Report %s for %s (%s)\n\n", report.Number(), report.Employee().Name, report.Period().Label())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tITEMS\tPROVISION NET\tPROVISION VAT\tPROVISION GROSS")
	writeSummaryRow(w, "own", report.OwnSummary())
	writeSummaryRow(w, "hierarchy", report.HierarchySummary())
	writeSummaryRow(w, "tip provider", report.TipProviderSummary())
	writeSummaryRow(w, "total", report.Total())
	_ = w.Flush()
}

func writeSummaryRow(w *tabwriter.Writer, label string, s billing.ProvisionSummary) {
	fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\n",
		label, s.EntryCount, s.TotalProvision, s.TotalProvisionVat, s.TotalProvisionGross)
}

func writeReportJSON(path string, report *billing.BillingReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
