package domain

// ZoneStatus is the agronomic status assigned by the Precision Platform.
type ZoneStatus string

const (
	ZoneStatusOptimal  ZoneStatus = "optimal"
	ZoneStatusWarning  ZoneStatus = "warning"
	ZoneStatusCritical ZoneStatus = "critical"
)

// ActionPriority is the urgency attached to a recommended action.
type ActionPriority string

const (
	PriorityLow      ActionPriority = "low"
	PriorityMedium   ActionPriority = "medium"
	PriorityHigh     ActionPriority = "high"
	PriorityCritical ActionPriority = "critical"
)

// ZoneRecommendation is the agronomic recommendation for a management zone.
type ZoneRecommendation struct {
	Action   string         `json:"action"` // reform, maintain, replant, ...
	Priority ActionPriority `json:"priority"`
	Reason   string         `json:"reason"`
}

// FinancialImpact carries the estimated financial effect of a zone's status.
// Losses arrive as negative yearly amounts, gains as positive ones.
type FinancialImpact struct {
	EstimatedLossBRLYear *float64 `json:"estimated_loss_brl_year,omitempty"`
	EstimatedGainBRLYear *float64 `json:"estimated_gain_brl_year,omitempty"`
	ReformCostBRL        *float64 `json:"reform_cost_brl,omitempty"`
	PaybackMonths        *int     `json:"payback_months,omitempty"`
}

// ManagementZone is a sub-area of a field with its own profitability
// assessment and recommended action.
type ManagementZone struct {
	ZoneID             string             `json:"zone_id"`
	AreaHa             float64            `json:"area_ha"`
	AvgYieldTHa        float64            `json:"avg_yield_t_ha"`
	ExpectedYieldTHa   float64            `json:"expected_yield_t_ha"`
	ProfitabilityScore float64            `json:"profitability_score"`
	Status             ZoneStatus         `json:"status"`
	Recommendation     ZoneRecommendation `json:"recommendation"`
	FinancialImpact    FinancialImpact    `json:"financial_impact"`
}

// FieldSummary aggregates the field-level financial view.
type FieldSummary struct {
	TotalEstimatedImpactBRL float64 `json:"total_estimated_impact_brl"`
	AvgProfitabilityScore   float64 `json:"avg_profitability_score"`
}

// FieldReport is one complete field analysis fetched from the Precision
// Platform. Reports are immutable: each fetch produces a fresh value that is
// classified, presented and appended to history, never updated in place.
// Zone IDs are unique within a report.
type FieldReport struct {
	FieldID       string           `json:"field_id"`
	Crop          string           `json:"crop"`
	Season        string           `json:"season"`
	HarvestNumber int              `json:"harvest_number"`
	TotalAreaHa   float64          `json:"total_area_ha"`
	AnalysisDate  string           `json:"analysis_date"`
	Summary       FieldSummary     `json:"summary"`
	Zones         []ManagementZone `json:"zones"`
}

// ZoneROI resolves the yearly financial swing of a zone: the estimated gain
// when present, otherwise the estimated loss (negative losses are gains).
func (z *ManagementZone) ZoneROI() float64 {
	if z.FinancialImpact.EstimatedGainBRLYear != nil {
		return *z.FinancialImpact.EstimatedGainBRLYear
	}
	if z.FinancialImpact.EstimatedLossBRLYear != nil {
		return *z.FinancialImpact.EstimatedLossBRLYear
	}
	return 0
}
