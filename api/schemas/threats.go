package schemas

import "time"

// -- Threat Schemas --

// ThreatType is one of the six STRIDE threat categories.
type ThreatType string

// The STRIDE taxonomy. The values are the display names used in reports.
const (
	ThreatSpoofing              ThreatType = "Spoofing"
	ThreatTampering             ThreatType = "Tampering"
	ThreatRepudiation           ThreatType = "Repudiation"
	ThreatInformationDisclosure ThreatType = "Information Disclosure"
	ThreatDenialOfService       ThreatType = "Denial of Service"
	ThreatElevationOfPrivilege  ThreatType = "Elevation of Privilege"
)

// Severity represents the severity level assigned to a threat.
type Severity string

// Constants defining the standard severity levels for threats.
const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// ElementType classifies a diagram element for threat analysis purposes.
// It is derived from a shape's subtype (or kind, when no subtype is set).
type ElementType string

// Element classes recognized by the STRIDE mapping. Anything else is
// analyzed as ElementProcess.
const (
	ElementActor     ElementType = "actor"
	ElementProcess   ElementType = "process"
	ElementDatastore ElementType = "datastore"
	ElementServer    ElementType = "server"
	ElementBoundary  ElementType = "boundary"
	ElementExternal  ElementType = "external"
	ElementDatabase  ElementType = "database"
	ElementUser      ElementType = "user"
	ElementDataflow  ElementType = "dataflow"
)

// ThreatInfo is a single threat finding produced by an analysis engine.
// Instances are immutable once created; the full set is regenerated on
// every analysis run.
type ThreatInfo struct {
	// ID is a short display label derived from the element name and threat
	// type. It is deterministic but not guaranteed unique across elements.
	ID          string     `json:"id"`
	ElementName string     `json:"element_name"`
	ElementType string     `json:"element_type"`
	ThreatType  ThreatType `json:"threat_type"`
	Severity    Severity   `json:"severity"`
	Description string     `json:"description"`
	// Condition describes the security gap that makes the threat applicable.
	Condition   string   `json:"condition"`
	Likelihood  string   `json:"likelihood"`
	Impact      string   `json:"impact"`
	Mitigations []string `json:"mitigations"`
	References  []string `json:"references"`
}

// -- Report Schemas --

// ThreatSummary aggregates an analysis run's results by severity and category.
type ThreatSummary struct {
	Total             int                `json:"total"`
	BySeverity        map[Severity]int   `json:"by_severity"`
	ByType            map[ThreatType]int `json:"by_type"`
	ElementsAnalyzed  int                `json:"elements_analyzed"`
	DataflowsAnalyzed int                `json:"dataflows_analyzed"`
}

// ReportMetadata describes the provenance of a threat report.
type ReportMetadata struct {
	ModelName   string    `json:"model_name"`
	GeneratedAt time.Time `json:"generated_at"`
	Tool        string    `json:"tool"`
	// AnalysisEngine names the engine that produced the per-element threats,
	// e.g. "Built-in STRIDE" or an external engine's name.
	AnalysisEngine string `json:"analysis_engine"`
}

// ThreatReport is the top-level threat report export format.
type ThreatReport struct {
	Metadata        ReportMetadata `json:"metadata"`
	Summary         ThreatSummary  `json:"summary"`
	Threats         []ThreatInfo   `json:"threats"`
	Recommendations []string       `json:"recommendations"`
}
