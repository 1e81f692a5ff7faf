package decision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
	"github.com/avilaops/canaswarm-intelligence/internal/mocks"
)

func f64(v float64) *float64 { return &v }
func iptr(v int) *int        { return &v }

func sampleReport() *domain.FieldReport {
	return &domain.FieldReport{
		FieldID:       "F001",
		Crop:          "sugarcane",
		Season:        "2024/2025",
		HarvestNumber: 3,
		TotalAreaHa:   120.5,
		AnalysisDate:  "2025-06-01",
		Summary: domain.FieldSummary{
			TotalEstimatedImpactBRL: 158000,
			AvgProfitabilityScore:   0.62,
		},
		Zones: []domain.ManagementZone{
			{
				ZoneID:             "Z1",
				AreaHa:             40,
				AvgYieldTHa:        55,
				ExpectedYieldTHa:   85,
				ProfitabilityScore: 0.25,
				Status:             domain.ZoneStatusCritical,
				Recommendation: domain.ZoneRecommendation{
					Action:   "reform",
					Priority: domain.PriorityHigh,
					Reason:   "soil compaction",
				},
				FinancialImpact: domain.FinancialImpact{
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
				Status:             domain.ZoneStatusWarning,
				Recommendation: domain.ZoneRecommendation{
					Action:   "adjust_fertilization",
					Priority: domain.PriorityMedium,
					Reason:   "nutrient deficit",
				},
				FinancialImpact: domain.FinancialImpact{
					EstimatedGainBRLYear: f64(25000),
				},
			},
			{
				ZoneID:             "Z3",
				AreaHa:             30.5,
				AvgYieldTHa:        84,
				ExpectedYieldTHa:   85,
				ProfitabilityScore: 0.91,
				Status:             domain.ZoneStatusOptimal,
				Recommendation: domain.ZoneRecommendation{
					Action:   "maintain",
					Priority: domain.PriorityLow,
					Reason:   "on target",
				},
			},
		},
	}
}

func TestDecideZoneActions(t *testing.T) {
	svc := NewService(&mocks.MockDecisionRepository{}, zap.NewNop())
	decision := svc.Decide(sampleReport())

	if len(decision.Zones) != 3 {
		t.Fatalf("expected 3 zone decisions, got %d", len(decision.Zones))
	}

	z1 := decision.Zones[0]
	if z1.ZoneID != "Z1" || z1.CurrentStatus != domain.ZoneStatusCritical {
		t.Errorf("unexpected first zone: %+v", z1)
	}
	if z1.Action.EstimatedROIBRLYear != 98000 {
		t.Errorf("expected ROI 98000 (abs of loss), got %v", z1.Action.EstimatedROIBRLYear)
	}
	if z1.Action.ImplementationCostBRL == nil || *z1.Action.ImplementationCostBRL != 120000 {
		t.Errorf("expected implementation cost 120000, got %v", z1.Action.ImplementationCostBRL)
	}
	if !strings.Contains(z1.Action.Justification, "Reform will recover R$ 98,000/year") {
		t.Errorf("unexpected justification: %q", z1.Action.Justification)
	}
	if !strings.Contains(z1.Action.Justification, "18-month payback") {
		t.Errorf("justification missing payback: %q", z1.Action.Justification)
	}

	z2 := decision.Zones[1]
	if !strings.Contains(z2.Action.Justification, "Expected gain: R$ 25,000/year") {
		t.Errorf("unexpected warning justification: %q", z2.Action.Justification)
	}

	z3 := decision.Zones[2]
	if !strings.Contains(z3.Action.Justification, "Maintain current management") {
		t.Errorf("unexpected optimal justification: %q", z3.Action.Justification)
	}

	// total ROI is the absolute sum of zone swings: -98000 + 25000 = -73000
	if decision.TotalEstimatedROIBRLYear != 73000 {
		t.Errorf("expected total ROI 73000, got %v", decision.TotalEstimatedROIBRLYear)
	}
}

func TestCalculatePriority(t *testing.T) {
	tests := []struct {
		name     string
		critical int
		warning  int
		avgScore float64
		level    domain.ActionPriority
		score    float64
	}{
		{"critical zones dominate", 2, 1, 0.5, domain.PriorityCritical, 10.0},
		{"single critical zone", 1, 0, 0.8, domain.PriorityCritical, 9.5},
		{"multiple warnings", 0, 3, 0.6, domain.PriorityHigh, 8.5},
		{"single warning", 0, 1, 0.6, domain.PriorityMedium, 5.3},
		{"all optimal", 0, 0, 0.9, domain.PriorityLow, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := calculatePriority(tt.critical, tt.warning, tt.avgScore)
			if p.Level != tt.level {
				t.Errorf("expected level %s, got %s", tt.level, p.Level)
			}
			if diff := p.Score - tt.score; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected score %v, got %v", tt.score, p.Score)
			}
			if p.Reason == "" {
				t.Error("expected non-empty reason")
			}
		})
	}
}

func TestDecideNextSteps(t *testing.T) {
	svc := NewService(&mocks.MockDecisionRepository{}, zap.NewNop())
	decision := svc.Decide(sampleReport())

	joined := strings.Join(decision.NextSteps, "\n")
	for _, want := range []string{
		"URGENT: Schedule soil analysis for critical zones: Z1",
		"Request reform quotes for zones: Z1",
		"Schedule intervention for warning zones: Z2",
		"Monitor optimal zones: Z3",
		"Budget allocation: R$ 120,000 for reforms",
		"Schedule follow-up analysis in 30 days",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("next steps missing %q:\n%s", want, joined)
		}
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	svc := NewService(&mocks.MockDecisionRepository{}, zap.NewNop())
	report := sampleReport()

	first := svc.Decide(report)
	second := svc.Decide(report)

	if first.Priority != second.Priority {
		t.Errorf("priority differs between runs: %+v vs %+v", first.Priority, second.Priority)
	}
	if first.TotalEstimatedROIBRLYear != second.TotalEstimatedROIBRLYear {
		t.Error("total ROI differs between runs")
	}
	if first.DecisionDate != "" {
		t.Errorf("Decide must not stamp a decision date, got %q", first.DecisionDate)
	}
}

func TestProcessAppendsDecision(t *testing.T) {
	repo := &mocks.MockDecisionRepository{}
	svc := NewService(repo, zap.NewNop())

	decision, err := svc.Process(context.Background(), sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.DecisionDate == "" {
		t.Error("expected decision date to be stamped")
	}
	if len(repo.Appended) != 1 {
		t.Fatalf("expected 1 appended decision, got %d", len(repo.Appended))
	}
	if repo.Appended[0].FieldID != "F001" {
		t.Errorf("unexpected appended field id: %s", repo.Appended[0].FieldID)
	}
}

func TestProcessRepositoryFailure(t *testing.T) {
	repo := &mocks.MockDecisionRepository{
		AppendFunc: func(ctx context.Context, decision *domain.FieldDecision) error {
			return errors.New("connection refused")
		},
	}
	svc := NewService(repo, zap.NewNop())

	if _, err := svc.Process(context.Background(), sampleReport()); err == nil {
		t.Fatal("expected error when append fails")
	}
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{98000, "98,000"},
		{158000, "158,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatBRL(tt.in); got != tt.want {
			t.Errorf("formatBRL(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
