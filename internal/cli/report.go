package cli

import (
	"context"
	"fmt"
)

// Report prints the compliance summary: per-department outcome counts and
// the open NOK findings.
func (a *App) Report(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	sum := a.reports.Summary()
	printlnFn(fmt.Sprintf("Assessments: %d, kick-off meetings: %d", sum.Assessments, sum.Meetings))

	if len(sum.Departments) > 0 {
		printlnFn(fmt.Sprintf("%-16s %5s %5s %5s %5s %5s", "department", "total", "ok", "nok", "resvd", "pend"))
		for _, d := range sum.Departments {
			printlnFn(fmt.Sprintf("%-16s %5d %5d %5d %5d %5d",
				d.Department, d.Total, d.OK, d.NOK, d.Resolved, d.Pending))
		}
	}

	if len(sum.OpenNOK) > 0 {
		printlnFn("Open NOK findings:")
		for _, item := range sum.OpenNOK {
			printlnFn(fmt.Sprintf("  %s  %s (%s)", shortID(item.ID), item.Title, item.Department))
		}
	}
	return nil
}

// ExportReport writes the assessments to a CSV file and prints its path.
func (a *App) ExportReport(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	path, err := a.reports.ExportCSV()
	if err != nil {
		printlnFn("Export failed:", err.Error())
		return err
	}
	printlnFn("Report written to", path)
	return nil
}
