package business

import (
	"fmt"
	"strings"
)

// maxOperatorsInText 文本报告中最多展示的问题投手数量
const maxOperatorsInText = 10

// FormatDiagnosticReport renders the diagnostic report as plain text for
// pasting into chat tools. Sections always appear in the same order.
func FormatDiagnosticReport(report *DiagnosticReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "==== Monthly Business Diagnosis %d-%02d ====\n", report.Year, report.Month)
	fmt.Fprintf(&b, "generated at: %s\n\n", report.GeneratedAt)

	// 1. 总体情况
	s := report.OverallSummary
	b.WriteString("[1] Overall\n")
	fmt.Fprintf(&b, "  income:  %.2f CNY\n", s.TotalIncomeCNY)
	fmt.Fprintf(&b, "  spend:   %.2f CNY\n", s.TotalSpendCNY)
	fmt.Fprintf(&b, "  salary:  %.2f CNY\n", s.TotalSalaryCNY)
	fmt.Fprintf(&b, "  cost:    %.2f CNY\n", s.TotalCostCNY)
	fmt.Fprintf(&b, "  profit:  %.2f CNY (%s)\n", s.TotalProfitCNY, s.ProfitStatus)
	fmt.Fprintf(&b, "  ROI:     %.2f%%, margin: %.2f%%\n", s.OverallRoi, s.ProfitMargin)
	fmt.Fprintf(&b, "  projects: %d, operators: %d\n\n", s.ProjectCount, s.OperatorCount)

	// 2. 盈利最高的项目
	b.WriteString("[2] Top Profitable Project\n")
	if report.TopProfitableProject != nil {
		p := report.TopProfitableProject
		fmt.Fprintf(&b, "  %s: profit %.2f CNY\n", p.ProjectName, p.ProfitCNY)
		for _, reason := range p.Reasons {
			fmt.Fprintf(&b, "  - %s\n", reason)
		}
	} else {
		b.WriteString("  no profitable project this month\n")
	}
	b.WriteString("\n")

	// 3. ROI 下滑的项目
	b.WriteString("[3] Projects With Declining ROI\n")
	if len(report.RoiDecliningProjects) == 0 {
		b.WriteString("  none\n")
	}
	for _, p := range report.RoiDecliningProjects {
		fmt.Fprintf(&b, "  %s: ROI %.2f%% -> %.2f%% (down %.2f pp)\n",
			p.ProjectName, p.PreviousRoi, p.CurrentRoi, p.RoiDecline)
		for _, reason := range p.Reasons {
			fmt.Fprintf(&b, "  - %s\n", reason)
		}
	}
	b.WriteString("\n")

	// 4. 问题投手，最多展示10个
	b.WriteString("[4] Operators Needing Attention\n")
	shown := 0
	for _, op := range report.OperatorAnalysis {
		if len(op.Issues) == 0 {
			continue
		}
		if shown >= maxOperatorsInText {
			fmt.Fprintf(&b, "  ... and more, see the JSON report\n")
			break
		}
		fmt.Fprintf(&b, "  %s: spend %.2f, income %.2f, ROI %.2f%%, reports %d\n",
			op.OperatorName, op.SpendCNY, op.IncomeCNY, op.Roi, op.ReportCount)
		for _, issue := range op.Issues {
			fmt.Fprintf(&b, "  - %s\n", issue.Message)
		}
		shown++
	}
	if shown == 0 {
		b.WriteString("  none\n")
	}
	b.WriteString("\n")

	// 5. 建议
	b.WriteString("[5] Suggestions\n")
	writeSuggestionGroup(&b, "project", report.Suggestions.ProjectSuggestions)
	writeSuggestionGroup(&b, "operator", report.Suggestions.OperatorSuggestions)
	writeSuggestionGroup(&b, "finance", report.Suggestions.FinanceSuggestions)

	return b.String()
}

func writeSuggestionGroup(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s:\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}
