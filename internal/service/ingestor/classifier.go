package ingestor

import (
	"fmt"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
)

// Classifier partitions the zones of a field report by profitability score.
type Classifier struct {
	threshold float64
}

// NewClassifier creates a classifier with the given critical-score threshold.
// A non-positive threshold falls back to the default.
func NewClassifier(threshold float64) *Classifier {
	if threshold <= 0 {
		threshold = domain.DefaultCriticalThreshold
	}
	return &Classifier{threshold: threshold}
}

// Threshold returns the active critical-score threshold.
func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Classify marks each zone critical iff its profitability score is strictly
// below the threshold and emits one alert per critical zone. Zone order from
// the input is preserved within both partitions. Pure: the report is not
// mutated and classifying the same report twice yields identical results.
func (c *Classifier) Classify(report *domain.FieldReport) *domain.ClassifiedReport {
	classified := &domain.ClassifiedReport{
		Report:                  report,
		CriticalZoneIDs:         []string{},
		NormalZoneIDs:           []string{},
		Alerts:                  []domain.Alert{},
		TotalEstimatedImpactBRL: report.Summary.TotalEstimatedImpactBRL,
	}

	for _, zone := range report.Zones {
		if zone.ProfitabilityScore < c.threshold {
			classified.CriticalZoneIDs = append(classified.CriticalZoneIDs, zone.ZoneID)
			classified.Alerts = append(classified.Alerts, c.alertFor(report.FieldID, zone))
		} else {
			classified.NormalZoneIDs = append(classified.NormalZoneIDs, zone.ZoneID)
		}
	}

	return classified
}

func (c *Classifier) alertFor(fieldID string, zone domain.ManagementZone) domain.Alert {
	severity := domain.SeverityWarning
	if zone.Recommendation.Priority == domain.PriorityHigh ||
		zone.Recommendation.Priority == domain.PriorityCritical {
		severity = domain.SeverityCritical
	}

	msg := fmt.Sprintf("Talhão %s, zona %s: score de rentabilidade %.2f abaixo do limiar %.2f",
		fieldID, zone.ZoneID, zone.ProfitabilityScore, c.threshold)
	if zone.Recommendation.Action != "" {
		msg += fmt.Sprintf(". Ação recomendada: %s (prioridade %s)",
			zone.Recommendation.Action, zone.Recommendation.Priority)
	}

	return domain.Alert{
		ZoneID:   zone.ZoneID,
		Severity: severity,
		Message:  msg,
	}
}
