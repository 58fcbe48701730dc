package business

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"adcontrol/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// MinMonthlyReportCount 每月最少应有的消耗上报次数，低于视为可能漏报
	MinMonthlyReportCount = 20
	// RoiDeclineThreshold ROI 下降超过该百分点视为显著下滑
	RoiDeclineThreshold = 5
)

// CalculateRoi 计算 ROI = (利润 / 成本) * 100，成本为0时返回0
func CalculateRoi(profit, cost decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}
	return profit.Div(cost).Mul(decimal.NewFromInt(100))
}

// OverallSummary 本月总体情况
type OverallSummary struct {
	TotalIncomeCNY float64 `json:"total_income_cny"`
	TotalSpendCNY  float64 `json:"total_spend_cny"`
	TotalSalaryCNY float64 `json:"total_salary_cny"`
	TotalCostCNY   float64 `json:"total_cost_cny"`
	TotalProfitCNY float64 `json:"total_profit_cny"`
	OverallRoi     float64 `json:"overall_roi"`
	ProjectCount   int     `json:"project_count"`
	OperatorCount  int     `json:"operator_count"`
	ProfitStatus   string  `json:"profit_status"` // "profit" or "loss"
	ProfitMargin   float64 `json:"profit_margin"`
}

// TopProfitableProject 盈利最高的项目及原因
type TopProfitableProject struct {
	ProjectName string   `json:"project_name"`
	ProfitCNY   float64  `json:"profit_cny"`
	Reasons     []string `json:"reasons"`
}

// RoiDecliningProject ROI 下滑的项目及可能原因
type RoiDecliningProject struct {
	ProjectName string   `json:"project_name"`
	CurrentRoi  float64  `json:"current_roi"`
	PreviousRoi float64  `json:"previous_roi"`
	RoiDecline  float64  `json:"roi_decline"`
	Reasons     []string `json:"reasons"`
}

// OperatorIssueKind enumerates detectable operator problems.
type OperatorIssueKind string

const (
	IssueUnderReporting    OperatorIssueKind = "under_reporting"
	IssueNegativeRoi       OperatorIssueKind = "negative_roi"
	IssueLowRoi            OperatorIssueKind = "low_roi"
	IssueBurnWithoutOutput OperatorIssueKind = "burn_without_output"
)

// OperatorIssue is a detected problem with its rendered message.
type OperatorIssue struct {
	Kind    OperatorIssueKind `json:"kind"`
	Message string            `json:"message"`
}

// OperatorAnalysis 投手工作状态分析
type OperatorAnalysis struct {
	OperatorName string          `json:"operator_name"`
	SpendCNY     float64         `json:"spend_cny"`
	IncomeCNY    float64         `json:"income_cny"`
	SalaryCNY    float64         `json:"salary_cny"`
	Roi          float64         `json:"roi"`
	ReportCount  int             `json:"report_count"`
	Issues       []OperatorIssue `json:"issues"`
}

// HasIssue reports whether the analysis carries an issue of the given kind.
func (a OperatorAnalysis) HasIssue(kind OperatorIssueKind) bool {
	for _, issue := range a.Issues {
		if issue.Kind == kind {
			return true
		}
	}
	return false
}

// ReportSuggestions 建议调整
type ReportSuggestions struct {
	ProjectSuggestions  []string `json:"project_suggestions"`
	OperatorSuggestions []string `json:"operator_suggestions"`
	FinanceSuggestions  []string `json:"finance_suggestions"`
}

// DiagnosticReport 月度经营诊断报告
type DiagnosticReport struct {
	Year                 int                   `json:"year"`
	Month                int                   `json:"month"`
	OverallSummary       OverallSummary        `json:"overall_summary"`
	TopProfitableProject *TopProfitableProject `json:"top_profitable_project"`
	RoiDecliningProjects []RoiDecliningProject `json:"roi_declining_projects"`
	OperatorAnalysis     []OperatorAnalysis    `json:"operator_analysis"`
	Suggestions          ReportSuggestions     `json:"suggestions"`
	GeneratedAt          string                `json:"generated_at"`
}

// operatorStats feeds the issue detection rules.
type operatorStats struct {
	SpendCNY    decimal.Decimal
	IncomeCNY   decimal.Decimal
	SalaryCNY   decimal.Decimal
	Roi         decimal.Decimal
	ReportCount int
}

type operatorIssueRule struct {
	Kind    OperatorIssueKind
	Detect  func(s operatorStats) bool
	Message func(s operatorStats) string
}

var operatorIssueRules = []operatorIssueRule{
	{
		Kind: IssueUnderReporting,
		Detect: func(s operatorStats) bool {
			return s.ReportCount < MinMonthlyReportCount
		},
		Message: func(s operatorStats) string {
			return fmt.Sprintf("only %d spend reports this month, possible underreporting", s.ReportCount)
		},
	},
	{
		Kind: IssueNegativeRoi,
		Detect: func(s operatorStats) bool {
			return s.Roi.IsNegative()
		},
		Message: func(s operatorStats) string {
			return "ROI is negative, operating at a loss"
		},
	},
	{
		Kind: IssueLowRoi,
		Detect: func(s operatorStats) bool {
			return !s.Roi.IsNegative() && s.Roi.LessThan(decimal.NewFromInt(20))
		},
		Message: func(s operatorStats) string {
			return "ROI below 20%, low efficiency"
		},
	},
	{
		Kind: IssueBurnWithoutOutput,
		Detect: func(s operatorStats) bool {
			return s.SpendCNY.GreaterThan(decimal.NewFromInt(10000)) &&
				s.IncomeCNY.LessThan(s.SpendCNY.Mul(decimal.NewFromFloat(0.5)))
		},
		Message: func(s operatorStats) string {
			return "spend above 10,000 with income below 50% of spend, burn without output"
		},
	},
}

func detectOperatorIssues(s operatorStats) []OperatorIssue {
	var issues []OperatorIssue
	for _, rule := range operatorIssueRules {
		if rule.Detect(s) {
			issues = append(issues, OperatorIssue{Kind: rule.Kind, Message: rule.Message(s)})
		}
	}
	return issues
}

// previousMonth rolls the year back at January.
func previousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// projectFeeSum 汇总某项目在窗口内的财务手续费
func projectFeeSum(db *gorm.DB, projectID uint, start, end time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := db.Model(&models.LedgerTransaction{}).
		Select("COALESCE(SUM(fee_amount), 0) AS total").
		Where("project_id = ? AND tx_date >= ? AND tx_date < ?", projectID, start, end).
		Scan(&row).Error
	return row.Total, err
}

// GenerateDiagnosticReport derives the monthly business diagnosis from the two
// performance tables plus the raw spend and ledger rows. Read-only.
func GenerateDiagnosticReport(db *gorm.DB, year, month int) (*DiagnosticReport, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	var projectPerfs []models.MonthlyProjectPerformance
	if err := db.Where("year = ? AND month = ?", year, month).Find(&projectPerfs).Error; err != nil {
		return nil, err
	}
	var operatorPerfs []models.MonthlyOperatorPerformance
	if err := db.Where("year = ? AND month = ?", year, month).Find(&operatorPerfs).Error; err != nil {
		return nil, err
	}

	// 项目、投手名称查询，仅用于展示
	projectNames := make(map[uint]string)
	if len(projectPerfs) > 0 {
		ids := make([]uint, 0, len(projectPerfs))
		for _, p := range projectPerfs {
			ids = append(ids, p.ProjectID)
		}
		var projects []models.Project
		if err := db.Where("id IN ?", ids).Find(&projects).Error; err != nil {
			return nil, err
		}
		for _, p := range projects {
			projectNames[p.ID] = p.Name
		}
	}

	operatorNames := make(map[uint]string)
	operatorProjects := make(map[uint]uint)
	if len(operatorPerfs) > 0 {
		ids := make([]uint, 0, len(operatorPerfs))
		for _, o := range operatorPerfs {
			ids = append(ids, o.OperatorID)
		}
		var operators []models.Operator
		if err := db.Where("id IN ?", ids).Find(&operators).Error; err != nil {
			return nil, err
		}
		for _, o := range operators {
			operatorNames[o.ID] = o.Name
			if o.ProjectID != nil {
				operatorProjects[o.ID] = *o.ProjectID
			}
		}
	}

	projectName := func(id uint) string {
		if name, ok := projectNames[id]; ok {
			return name
		}
		return fmt.Sprintf("project %d", id)
	}
	operatorName := func(id uint) string {
		if name, ok := operatorNames[id]; ok {
			return name
		}
		return fmt.Sprintf("operator %d", id)
	}

	// 1. 总体情况
	totalIncomeCNY := decimal.Zero
	totalSpendCNY := decimal.Zero
	totalProfitCNY := decimal.Zero
	for _, p := range projectPerfs {
		totalIncomeCNY = totalIncomeCNY.Add(p.TotalIncomeCNY)
		totalSpendCNY = totalSpendCNY.Add(p.TotalSpendCNY)
		totalProfitCNY = totalProfitCNY.Add(p.NetProfitCNY)
	}
	totalSalaryCNY := decimal.Zero
	for _, o := range operatorPerfs {
		totalSalaryCNY = totalSalaryCNY.Add(o.SalaryCostCNY)
	}
	totalCostCNY := totalSpendCNY.Add(totalSalaryCNY)
	overallRoi := CalculateRoi(totalProfitCNY, totalCostCNY)

	profitStatus := "loss"
	if totalProfitCNY.IsPositive() {
		profitStatus = "profit"
	}
	profitMargin := decimal.Zero
	if totalIncomeCNY.IsPositive() {
		profitMargin = totalProfitCNY.Div(totalIncomeCNY).Mul(decimal.NewFromInt(100))
	}

	summary := OverallSummary{
		TotalIncomeCNY: totalIncomeCNY.InexactFloat64(),
		TotalSpendCNY:  totalSpendCNY.InexactFloat64(),
		TotalSalaryCNY: totalSalaryCNY.InexactFloat64(),
		TotalCostCNY:   totalCostCNY.InexactFloat64(),
		TotalProfitCNY: totalProfitCNY.InexactFloat64(),
		OverallRoi:     overallRoi.InexactFloat64(),
		ProjectCount:   len(projectPerfs),
		OperatorCount:  len(operatorPerfs),
		ProfitStatus:   profitStatus,
		ProfitMargin:   profitMargin.InexactFloat64(),
	}

	// 2. 盈利最高的项目及原因
	type profitableProject struct {
		perf models.MonthlyProjectPerformance
	}
	var profitable []models.MonthlyProjectPerformance
	for _, p := range projectPerfs {
		if p.NetProfitCNY.IsPositive() {
			profitable = append(profitable, p)
		}
	}
	sort.SliceStable(profitable, func(i, j int) bool {
		return profitable[i].NetProfitCNY.GreaterThan(profitable[j].NetProfitCNY)
	})

	var topProject *TopProfitableProject
	if len(profitable) > 0 {
		top := profitable[0]
		roi := CalculateRoi(top.NetProfitCNY, top.TotalSpendCNY)

		var reasons []string
		if top.ProfitMargin != nil && top.ProfitMargin.GreaterThan(decimal.NewFromInt(30)) {
			reasons = append(reasons,
				fmt.Sprintf("profit margin at %.1f%%, strong cost control", top.ProfitMargin.InexactFloat64()))
		}
		if roi.GreaterThan(decimal.NewFromInt(100)) {
			reasons = append(reasons, "ROI above 100%, excellent return on spend")
		}
		if totalIncomeCNY.IsPositive() &&
			top.TotalIncomeCNY.GreaterThan(totalIncomeCNY.Mul(decimal.NewFromFloat(0.3))) {
			reasons = append(reasons, "largest share of monthly income, primary profit driver")
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "healthy income and cost structure")
		}

		topProject = &TopProfitableProject{
			ProjectName: projectName(top.ProjectID),
			ProfitCNY:   top.NetProfitCNY.InexactFloat64(),
			Reasons:     reasons,
		}
	}

	// 每个项目下投手的消耗合计，用于按消耗比例分摊收入
	projectPerfByID := make(map[uint]models.MonthlyProjectPerformance, len(projectPerfs))
	for _, p := range projectPerfs {
		projectPerfByID[p.ProjectID] = p
	}
	projectOperatorSpend := make(map[uint]decimal.Decimal)
	for _, o := range operatorPerfs {
		projID, ok := operatorProjects[o.OperatorID]
		if !ok {
			continue
		}
		projectOperatorSpend[projID] = projectOperatorSpend[projID].Add(o.TotalSpendCNY)
	}

	// apportionIncome 按消耗占比近似推算投手收入
	apportionIncome := func(operatorID uint, spendCNY decimal.Decimal) decimal.Decimal {
		projID, ok := operatorProjects[operatorID]
		if !ok {
			return decimal.Zero
		}
		perf, ok := projectPerfByID[projID]
		if !ok {
			return decimal.Zero
		}
		totalSpend := projectOperatorSpend[projID]
		if !totalSpend.IsPositive() {
			return decimal.Zero
		}
		return perf.TotalIncomeCNY.Mul(spendCNY).Div(totalSpend)
	}

	// 3. ROI 下滑的项目
	prevYear, prevMonth := previousMonth(year, month)
	var prevPerfs []models.MonthlyProjectPerformance
	if err := db.Where("year = ? AND month = ?", prevYear, prevMonth).Find(&prevPerfs).Error; err != nil {
		return nil, err
	}
	prevPerfByID := make(map[uint]models.MonthlyProjectPerformance, len(prevPerfs))
	for _, p := range prevPerfs {
		prevPerfByID[p.ProjectID] = p
	}

	start, end := MonthWindow(year, month)
	prevStart, prevEnd := MonthWindow(prevYear, prevMonth)

	var declining []RoiDecliningProject
	for _, curr := range projectPerfs {
		prev, ok := prevPerfByID[curr.ProjectID]
		if !ok {
			continue
		}

		currRoi := CalculateRoi(curr.NetProfitCNY, curr.TotalSpendCNY)
		prevRoi := CalculateRoi(prev.NetProfitCNY, prev.TotalSpendCNY)
		if !currRoi.LessThan(prevRoi.Sub(decimal.NewFromInt(RoiDeclineThreshold))) {
			continue
		}

		var reasons []string

		// 消耗上升超过10%
		if curr.TotalSpendCNY.GreaterThan(prev.TotalSpendCNY.Mul(decimal.NewFromFloat(1.1))) {
			pct := 0.0
			if prev.TotalSpendCNY.IsPositive() {
				pct = curr.TotalSpendCNY.Sub(prev.TotalSpendCNY).
					Div(prev.TotalSpendCNY).Mul(decimal.NewFromInt(100)).InexactFloat64()
			}
			reasons = append(reasons, fmt.Sprintf("ad spend up %.1f%% month-over-month", pct))
		}

		// 收入下降超过10%
		if curr.TotalIncomeCNY.LessThan(prev.TotalIncomeCNY.Mul(decimal.NewFromFloat(0.9))) {
			pct := 0.0
			if prev.TotalIncomeCNY.IsPositive() {
				pct = prev.TotalIncomeCNY.Sub(curr.TotalIncomeCNY).
					Div(prev.TotalIncomeCNY).Mul(decimal.NewFromInt(100)).InexactFloat64()
			}
			reasons = append(reasons,
				fmt.Sprintf("income down %.1f%%, possibly delayed bookings or lower conversion", pct))
		}

		// 手续费上升超过20%
		currFees, err := projectFeeSum(db, curr.ProjectID, start, end)
		if err != nil {
			return nil, err
		}
		prevFees, err := projectFeeSum(db, curr.ProjectID, prevStart, prevEnd)
		if err != nil {
			return nil, err
		}
		if currFees.GreaterThan(prevFees.Mul(decimal.NewFromFloat(1.2))) && prevFees.IsPositive() {
			pct := currFees.Sub(prevFees).Div(prevFees).Mul(decimal.NewFromInt(100)).InexactFloat64()
			reasons = append(reasons, fmt.Sprintf("ledger fees up %.1f%%", pct))
		}

		// 该项目下投手的近似 ROI 偏低
		var projectOperators []models.MonthlyOperatorPerformance
		for _, o := range operatorPerfs {
			if operatorProjects[o.OperatorID] == curr.ProjectID {
				projectOperators = append(projectOperators, o)
			}
		}
		if len(projectOperators) > 0 {
			avgRoi := decimal.Zero
			for _, o := range projectOperators {
				income := apportionIncome(o.OperatorID, o.TotalSpendCNY)
				opRoi := decimal.Zero
				if o.TotalSpendCNY.IsPositive() {
					opRoi = CalculateRoi(income.Sub(o.TotalSpendCNY), o.TotalSpendCNY)
				}
				avgRoi = avgRoi.Add(opRoi)
			}
			avgRoi = avgRoi.Div(decimal.NewFromInt(int64(len(projectOperators))))
			if avgRoi.LessThan(decimal.NewFromInt(50)) {
				reasons = append(reasons, "average operator ROI below 50%, efficiency may be declining")
			}
		}

		if len(reasons) == 0 {
			reasons = append(reasons, "overall cost structure change drove the ROI decline")
		}

		declining = append(declining, RoiDecliningProject{
			ProjectName: projectName(curr.ProjectID),
			CurrentRoi:  currRoi.InexactFloat64(),
			PreviousRoi: prevRoi.InexactFloat64(),
			RoiDecline:  prevRoi.Sub(currRoi).InexactFloat64(),
			Reasons:     reasons,
		})
	}

	// 4. 投手工作状态分析
	var operatorAnalysis []OperatorAnalysis
	for _, o := range operatorPerfs {
		var reportCount int64
		if err := db.Model(&models.AdSpendDaily{}).
			Where("operator_id = ? AND spend_date >= ? AND spend_date < ?", o.OperatorID, start, end).
			Count(&reportCount).Error; err != nil {
			return nil, err
		}

		incomeCNY := apportionIncome(o.OperatorID, o.TotalSpendCNY)
		cost := o.TotalSpendCNY.Add(o.SalaryCostCNY)
		profit := incomeCNY.Sub(cost)
		roi := CalculateRoi(profit, cost)

		stats := operatorStats{
			SpendCNY:    o.TotalSpendCNY,
			IncomeCNY:   incomeCNY,
			SalaryCNY:   o.SalaryCostCNY,
			Roi:         roi,
			ReportCount: int(reportCount),
		}

		operatorAnalysis = append(operatorAnalysis, OperatorAnalysis{
			OperatorName: operatorName(o.OperatorID),
			SpendCNY:     o.TotalSpendCNY.InexactFloat64(),
			IncomeCNY:    incomeCNY.InexactFloat64(),
			SalaryCNY:    o.SalaryCostCNY.InexactFloat64(),
			Roi:          roi.InexactFloat64(),
			ReportCount:  int(reportCount),
			Issues:       detectOperatorIssues(stats),
		})
	}

	// 5. 建议调整
	suggestions := buildSuggestions(declining, profitable, operatorAnalysis,
		projectName, totalProfitCNY, overallRoi)

	return &DiagnosticReport{
		Year:                 year,
		Month:                month,
		OverallSummary:       summary,
		TopProfitableProject: topProject,
		RoiDecliningProjects: declining,
		OperatorAnalysis:     operatorAnalysis,
		Suggestions:          suggestions,
		GeneratedAt:          time.Now().Format("2006-01-02 15:04:05"),
	}, nil
}

func buildSuggestions(
	declining []RoiDecliningProject,
	profitable []models.MonthlyProjectPerformance,
	operatorAnalysis []OperatorAnalysis,
	projectName func(uint) string,
	totalProfitCNY, overallRoi decimal.Decimal,
) ReportSuggestions {
	var s ReportSuggestions

	if len(declining) > 0 {
		s.ProjectSuggestions = append(s.ProjectSuggestions,
			fmt.Sprintf("focus on %d projects with declining ROI; review cost structure and income conversion", len(declining)))
	}
	if len(profitable) > 0 {
		top := profitable
		if len(top) > 3 {
			top = top[:3]
		}
		names := make([]string, 0, len(top))
		for _, p := range top {
			names = append(names, projectName(p.ProjectID))
		}
		s.ProjectSuggestions = append(s.ProjectSuggestions,
			fmt.Sprintf("scale up profitable projects: %s performing well, consider increasing budget", strings.Join(names, ", ")))
	}

	lowRoiCount := 0
	burnCount := 0
	underReportCount := 0
	for _, op := range operatorAnalysis {
		if op.Roi < 20 && op.Roi > -100 {
			lowRoiCount++
		}
		if op.HasIssue(IssueBurnWithoutOutput) {
			burnCount++
		}
		if op.HasIssue(IssueUnderReporting) {
			underReportCount++
		}
	}
	if lowRoiCount > 0 {
		s.OperatorSuggestions = append(s.OperatorSuggestions,
			fmt.Sprintf("optimize low-ROI operators: %d operators below 20%% ROI, schedule training", lowRoiCount))
	}
	if burnCount > 0 {
		s.OperatorSuggestions = append(s.OperatorSuggestions,
			fmt.Sprintf("pause or adjust inefficient operators: %d operators burning spend without output", burnCount))
	}
	if underReportCount > 0 {
		s.OperatorSuggestions = append(s.OperatorSuggestions,
			fmt.Sprintf("tighten reporting discipline: %d operators submitted too few spend reports", underReportCount))
	}

	if totalProfitCNY.IsNegative() {
		s.FinanceSuggestions = append(s.FinanceSuggestions,
			"overall loss this month; audit the full cost structure and rebalance spend")
	}
	if overallRoi.LessThan(decimal.NewFromInt(30)) {
		s.FinanceSuggestions = append(s.FinanceSuggestions,
			"overall ROI below 30%; improve income conversion or cut operating costs")
	}
	s.FinanceSuggestions = append(s.FinanceSuggestions,
		"record ledger entries promptly so delayed income does not distort the report",
		"review fee spend regularly and optimize payment channels")

	return s
}
