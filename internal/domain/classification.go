package domain

// DefaultCriticalThreshold is the profitability score below which a zone
// raises an alert. The comparison is strict: a score of exactly 0.4 is not
// critical.
const DefaultCriticalThreshold = 0.4

// AlertSeverity grades a zone alert for the notification dispatcher.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a single zone-level alert produced by classification. Alerts are
// values; identifiers and timestamps are attached by the dispatcher when an
// alert actually leaves the process.
type Alert struct {
	ZoneID   string        `json:"zone_id"`
	Severity AlertSeverity `json:"severity"`
	Message  string        `json:"message"`
}

// ClassifiedReport is the result of running threshold classification over a
// FieldReport. Zone order from the source report is preserved in both
// partitions, and the summary impact is carried through verbatim.
type ClassifiedReport struct {
	Report          *FieldReport `json:"report"`
	CriticalZoneIDs []string     `json:"critical_zone_ids"`
	NormalZoneIDs   []string     `json:"normal_zone_ids"`
	Alerts          []Alert      `json:"alerts"`

	// TotalEstimatedImpactBRL mirrors Report.Summary, unmodified.
	TotalEstimatedImpactBRL float64 `json:"total_estimated_impact_brl"`
}
