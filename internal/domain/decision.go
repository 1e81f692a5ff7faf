package domain

// PriorityLevel is the overall urgency of acting on a field.
type PriorityLevel struct {
	Level  ActionPriority `json:"level"`
	Score  float64        `json:"score"` // 0-10
	Reason string         `json:"reason"`
}

// DecisionAction is a recommended intervention with its financial case.
type DecisionAction struct {
	Action                string         `json:"action"`
	Priority              ActionPriority `json:"priority"`
	EstimatedROIBRLYear   float64        `json:"estimated_roi_brl_year"`
	ImplementationCostBRL *float64       `json:"implementation_cost_brl,omitempty"`
	PaybackMonths         *int           `json:"payback_months,omitempty"`
	Justification         string         `json:"justification"`
}

// ZoneDecision is the decision for a single management zone.
type ZoneDecision struct {
	ZoneID        string         `json:"zone_id"`
	AreaHa        float64        `json:"area_ha"`
	CurrentStatus ZoneStatus     `json:"current_status"`
	Action        DecisionAction `json:"action"`
}

// FieldDecision is the actionable output handed to the field manager: the
// prioritized set of zone interventions derived from one FieldReport.
type FieldDecision struct {
	FieldID                  string         `json:"field_id"`
	Crop                     string         `json:"crop"`
	Season                   string         `json:"season"`
	TotalAreaHa              float64        `json:"total_area_ha"`
	AnalysisDate             string         `json:"analysis_date"`
	DecisionDate             string         `json:"decision_date"`
	Priority                 PriorityLevel  `json:"priority"`
	TotalEstimatedROIBRLYear float64        `json:"total_estimated_roi_brl_year"`
	Zones                    []ZoneDecision `json:"zones"`
	NextSteps                []string       `json:"next_steps"`
}
