package decision

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
	"github.com/avilaops/canaswarm-intelligence/internal/observability/telemetry"
	"github.com/avilaops/canaswarm-intelligence/internal/ports"
)

// Service derives actionable field decisions from ingested reports and keeps
// their append-only history.
type Service struct {
	decisions ports.DecisionRepository
	log       *zap.Logger
}

func NewService(decisions ports.DecisionRepository, log *zap.Logger) *Service {
	return &Service{
		decisions: decisions,
		log:       log,
	}
}

// Decide derives the decision for one report. Pure: the same report always
// yields the same zones, priority and next steps. DecisionDate is stamped by
// Process, not here.
func (s *Service) Decide(report *domain.FieldReport) *domain.FieldDecision {
	var (
		zones         = make([]domain.ZoneDecision, 0, len(report.Zones))
		totalROI      float64
		criticalZones int
		warningZones  int
	)

	for i := range report.Zones {
		zone := &report.Zones[i]
		roi := zone.ZoneROI()
		totalROI += roi

		switch zone.Status {
		case domain.ZoneStatusCritical:
			criticalZones++
		case domain.ZoneStatusWarning:
			warningZones++
		}

		zones = append(zones, domain.ZoneDecision{
			ZoneID:        zone.ZoneID,
			AreaHa:        zone.AreaHa,
			CurrentStatus: zone.Status,
			Action: domain.DecisionAction{
				Action:                zone.Recommendation.Action,
				Priority:              zone.Recommendation.Priority,
				EstimatedROIBRLYear:   math.Abs(roi),
				ImplementationCostBRL: zone.FinancialImpact.ReformCostBRL,
				PaybackMonths:         zone.FinancialImpact.PaybackMonths,
				Justification:         justification(zone, roi),
			},
		})
	}

	return &domain.FieldDecision{
		FieldID:                  report.FieldID,
		Crop:                     report.Crop,
		Season:                   report.Season,
		TotalAreaHa:              report.TotalAreaHa,
		AnalysisDate:             report.AnalysisDate,
		Priority:                 calculatePriority(criticalZones, warningZones, report.Summary.AvgProfitabilityScore),
		TotalEstimatedROIBRLYear: math.Abs(totalROI),
		Zones:                    zones,
		NextSteps:                nextSteps(report, criticalZones, warningZones),
	}
}

// Process decides, stamps the decision date and appends to history.
func (s *Service) Process(ctx context.Context, report *domain.FieldReport) (*domain.FieldDecision, error) {
	decision := s.Decide(report)
	decision.DecisionDate = time.Now().UTC().Format(time.RFC3339)

	if err := s.decisions.Append(ctx, decision); err != nil {
		return nil, fmt.Errorf("failed to append decision to history: %w", err)
	}

	telemetry.DecisionsGeneratedTotal.WithLabelValues(string(decision.Priority.Level)).Inc()
	s.log.Info("Decision generated",
		zap.String("field_id", decision.FieldID),
		zap.String("priority", string(decision.Priority.Level)),
		zap.Float64("total_roi_brl_year", decision.TotalEstimatedROIBRLYear),
	)
	return decision, nil
}

func (s *Service) LatestDecision(ctx context.Context, fieldID string) (*domain.FieldDecision, error) {
	return s.decisions.FindLatest(ctx, fieldID)
}

func calculatePriority(criticalZones, warningZones int, avgScore float64) domain.PriorityLevel {
	var p domain.PriorityLevel

	switch {
	case criticalZones > 0:
		p.Level = domain.PriorityCritical
		p.Score = 9.0 + math.Min(float64(criticalZones)*0.5, 1.0)
		p.Reason = fmt.Sprintf("%d critical zone(s) require immediate intervention", criticalZones)
	case warningZones > 1:
		p.Level = domain.PriorityHigh
		p.Score = 7.0 + math.Min(float64(warningZones)*0.5, 2.0)
		p.Reason = fmt.Sprintf("%d zone(s) require intervention", warningZones)
	case warningZones == 1:
		p.Level = domain.PriorityMedium
		p.Score = 5.0 + avgScore/2
		p.Reason = "1 zone requires attention"
	default:
		p.Level = domain.PriorityLow
		p.Score = avgScore
		p.Reason = "Field performing optimally"
	}

	p.Score = math.Min(p.Score, 10.0)
	return p
}

func justification(zone *domain.ManagementZone, roi float64) string {
	gapPct := 0.0
	if zone.ExpectedYieldTHa > 0 {
		gapPct = (zone.ExpectedYieldTHa - zone.AvgYieldTHa) / zone.ExpectedYieldTHa * 100
	}

	if zone.Status == domain.ZoneStatusOptimal {
		return fmt.Sprintf("Zone %s: Performing at %.0f%% of potential. Maintain current management.",
			zone.ZoneID, 100-gapPct)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Zone %s: %.0f%% yield gap. ", zone.ZoneID, gapPct)

	if roi < 0 {
		fmt.Fprintf(&b, "%s will recover R$ %s/year",
			titleAction(zone.Recommendation.Action), formatBRL(math.Abs(roi)))
		if zone.FinancialImpact.PaybackMonths != nil {
			fmt.Fprintf(&b, " with %d-month payback", *zone.FinancialImpact.PaybackMonths)
		}
	} else {
		fmt.Fprintf(&b, "Expected gain: R$ %s/year", formatBRL(roi))
	}

	b.WriteString(".")
	return b.String()
}

func nextSteps(report *domain.FieldReport, criticalZones, warningZones int) []string {
	var criticalIDs, warningIDs, optimalIDs []string
	for i := range report.Zones {
		switch report.Zones[i].Status {
		case domain.ZoneStatusCritical:
			criticalIDs = append(criticalIDs, report.Zones[i].ZoneID)
		case domain.ZoneStatusWarning:
			warningIDs = append(warningIDs, report.Zones[i].ZoneID)
		case domain.ZoneStatusOptimal:
			optimalIDs = append(optimalIDs, report.Zones[i].ZoneID)
		}
	}

	steps := make([]string, 0, 6)
	if len(criticalIDs) > 0 {
		steps = append(steps,
			fmt.Sprintf("URGENT: Schedule soil analysis for critical zones: %s", strings.Join(criticalIDs, ", ")),
			fmt.Sprintf("Request reform quotes for zones: %s", strings.Join(criticalIDs, ", ")),
		)
	}
	if len(warningIDs) > 0 {
		steps = append(steps,
			fmt.Sprintf("Schedule intervention for warning zones: %s", strings.Join(warningIDs, ", ")))
	}
	if len(optimalIDs) > 0 {
		steps = append(steps,
			fmt.Sprintf("Monitor optimal zones: %s", strings.Join(optimalIDs, ", ")))
	}

	if criticalZones > 0 || warningZones > 0 {
		var totalReformCost float64
		for i := range report.Zones {
			zone := &report.Zones[i]
			if zone.Status != domain.ZoneStatusCritical && zone.Status != domain.ZoneStatusWarning {
				continue
			}
			if zone.FinancialImpact.ReformCostBRL != nil {
				totalReformCost += *zone.FinancialImpact.ReformCostBRL
			}
		}
		if totalReformCost > 0 {
			steps = append(steps,
				fmt.Sprintf("Budget allocation: R$ %s for reforms", formatBRL(totalReformCost)))
		}
	}

	steps = append(steps, "Schedule follow-up analysis in 30 days")
	return steps
}

func titleAction(action string) string {
	words := strings.Split(strings.ReplaceAll(action, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formatBRL renders a monetary amount with thousands separators and no
// decimals, e.g. 158000 -> "158,000".
func formatBRL(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
		if len(s) > lead {
			b.WriteString(",")
		}
	}
	for i := lead; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteString(",")
		}
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
