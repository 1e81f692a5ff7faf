package main

import (
	"strings"
	"time"
)

func f64(v float64) *float64 { return &v }
func iptr(v int) *int        { return &v }

type financialImpact struct {
	EstimatedLossBRLYear *float64 `json:"estimated_loss_brl_year,omitempty"`
	EstimatedGainBRLYear *float64 `json:"estimated_gain_brl_year,omitempty"`
	ReformCostBRL        *float64 `json:"reform_cost_brl,omitempty"`
	PaybackMonths        *int     `json:"payback_months,omitempty"`
}

type recommendation struct {
	Action   string `json:"action"`
	Priority string `json:"priority"`
	Reason   string `json:"reason"`
}

type zone struct {
	ZoneID             string          `json:"zone_id"`
	AreaHa             float64         `json:"area_ha"`
	AvgYieldTHa        float64         `json:"avg_yield_t_ha"`
	ExpectedYieldTHa   float64         `json:"expected_yield_t_ha"`
	ProfitabilityScore float64         `json:"profitability_score"`
	Status             string          `json:"status"`
	Recommendation     recommendation  `json:"recommendation"`
	FinancialImpact    financialImpact `json:"financial_impact"`
}

type summary struct {
	TotalEstimatedImpactBRL float64 `json:"total_estimated_impact_brl"`
	AvgProfitabilityScore   float64 `json:"avg_profitability_score"`
}

type fieldReport struct {
	FieldID       string  `json:"field_id"`
	Crop          string  `json:"crop"`
	Season        string  `json:"season"`
	HarvestNumber int     `json:"harvest_number"`
	TotalAreaHa   float64 `json:"total_area_ha"`
	AnalysisDate  string  `json:"analysis_date"`
	Summary       summary `json:"summary"`
	Zones         []zone  `json:"zones"`
}

// reportFor serves the canned analyses. Long identifiers like
// "F001-UsinaGuarani-Piracicaba" resolve by their short prefix.
func reportFor(fieldID string) (*fieldReport, bool) {
	key := fieldID
	if i := strings.Index(key, "-"); i > 0 {
		key = key[:i]
	}

	report, ok := cannedReports[key]
	if !ok {
		return nil, false
	}

	out := *report
	out.FieldID = fieldID
	out.AnalysisDate = time.Now().UTC().Format("2006-01-02")
	return &out, true
}

var cannedReports = map[string]*fieldReport{
	"F001": {
		Crop:          "sugarcane",
		Season:        "2024/2025",
		HarvestNumber: 3,
		TotalAreaHa:   120.5,
		Summary: summary{
			TotalEstimatedImpactBRL: 158000,
			AvgProfitabilityScore:   0.57,
		},
		Zones: []zone{
			{
				ZoneID:             "Z1",
				AreaHa:             40,
				AvgYieldTHa:        55,
				ExpectedYieldTHa:   85,
				ProfitabilityScore: 0.25,
				Status:             "critical",
				Recommendation: recommendation{
					Action:   "reform",
					Priority: "high",
					Reason:   "Soqueira degradada após 3 cortes, compactação severa do solo",
				},
				FinancialImpact: financialImpact{
					EstimatedLossBRLYear: f64(-98000),
					ReformCostBRL:        f64(120000),
					PaybackMonths:        iptr(18),
				},
			},
			{
				ZoneID:             "Z2",
				AreaHa:             50,
				AvgYieldTHa:        78,
				ExpectedYieldTHa:   85,
				ProfitabilityScore: 0.55,
				Status:             "warning",
				Recommendation: recommendation{
					Action:   "adjust_fertilization",
					Priority: "medium",
					Reason:   "Deficiência de potássio detectada na análise foliar",
				},
				FinancialImpact: financialImpact{
					EstimatedGainBRLYear: f64(25000),
				},
			},
			{
				ZoneID:             "Z3",
				AreaHa:             30.5,
				AvgYieldTHa:        84,
				ExpectedYieldTHa:   85,
				ProfitabilityScore: 0.91,
				Status:             "optimal",
				Recommendation: recommendation{
					Action:   "maintain",
					Priority: "low",
					Reason:   "Produtividade dentro do esperado para o ciclo",
				},
				FinancialImpact: financialImpact{
					EstimatedGainBRLYear: f64(35000),
				},
			},
		},
	},
	"F002": {
		Crop:          "sugarcane",
		Season:        "2024/2025",
		HarvestNumber: 1,
		TotalAreaHa:   85,
		Summary: summary{
			TotalEstimatedImpactBRL: 42000,
			AvgProfitabilityScore:   0.78,
		},
		Zones: []zone{
			{
				ZoneID:             "Z1",
				AreaHa:             45,
				AvgYieldTHa:        92,
				ExpectedYieldTHa:   95,
				ProfitabilityScore: 0.82,
				Status:             "optimal",
				Recommendation: recommendation{
					Action:   "maintain",
					Priority: "low",
					Reason:   "Cana planta com desenvolvimento uniforme",
				},
				FinancialImpact: financialImpact{
					EstimatedGainBRLYear: f64(30000),
				},
			},
			{
				ZoneID:             "Z2",
				AreaHa:             40,
				AvgYieldTHa:        80,
				ExpectedYieldTHa:   95,
				ProfitabilityScore: 0.45,
				Status:             "warning",
				Recommendation: recommendation{
					Action:   "irrigation_review",
					Priority: "medium",
					Reason:   "Estresse hídrico na borda leste do talhão",
				},
				FinancialImpact: financialImpact{
					EstimatedGainBRLYear: f64(12000),
				},
			},
		},
	},
	"F003": {
		Crop:          "sugarcane",
		Season:        "2024/2025",
		HarvestNumber: 5,
		TotalAreaHa:   60,
		Summary: summary{
			TotalEstimatedImpactBRL: 210000,
			AvgProfitabilityScore:   0.31,
		},
		Zones: []zone{
			{
				ZoneID:             "Z1",
				AreaHa:             35,
				AvgYieldTHa:        48,
				ExpectedYieldTHa:   80,
				ProfitabilityScore: 0.18,
				Status:             "critical",
				Recommendation: recommendation{
					Action:   "replant",
					Priority: "critical",
					Reason:   "Quinto corte com queda acentuada de produtividade",
				},
				FinancialImpact: financialImpact{
					EstimatedLossBRLYear: f64(-145000),
					ReformCostBRL:        f64(180000),
					PaybackMonths:        iptr(14),
				},
			},
			{
				ZoneID:             "Z2",
				AreaHa:             25,
				AvgYieldTHa:        58,
				ExpectedYieldTHa:   80,
				ProfitabilityScore: 0.38,
				Status:             "critical",
				Recommendation: recommendation{
					Action:   "reform",
					Priority: "high",
					Reason:   "Falhas de brotação acima de 20% na linha",
				},
				FinancialImpact: financialImpact{
					EstimatedLossBRLYear: f64(-65000),
					ReformCostBRL:        f64(90000),
					PaybackMonths:        iptr(20),
				},
			},
		},
	},
}
