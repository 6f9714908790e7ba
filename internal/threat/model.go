package threat

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stridecanvas/stridecanvas-cli/api/schemas"
	"github.com/stridecanvas/stridecanvas-cli/internal/diagram"
)

// ThreatModel orchestrates an analysis run over a snapshot of shapes and
// connectors. The threat list is cleared and regenerated on every run; there
// is no incremental update.
type ThreatModel struct {
	Name      string
	CreatedAt time.Time

	shapes     []*diagram.Shape
	connectors []*diagram.Connector
	threats    []schemas.ThreatInfo

	builtin  *BuiltinEngine
	external AnalysisEngine
	// engineUsed names the engine that produced the last run's per-element
	// threats, for report metadata.
	engineUsed string

	logger *zap.Logger
}

// NewThreatModel builds a model over the given snapshot. The shape and
// connector slices are shared by reference, not cloned; callers must not
// mutate the diagram while an analysis runs.
func NewThreatModel(name string, shapes []*diagram.Shape, connectors []*diagram.Connector, logger *zap.Logger) *ThreatModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	if name == "" {
		name = "Diagram Threat Model"
	}
	logger = logger.Named("threat-model")
	return &ThreatModel{
		Name:       name,
		CreatedAt:  time.Now(),
		shapes:     shapes,
		connectors: connectors,
		builtin:    NewBuiltinEngine(logger),
		logger:     logger,
	}
}

// SetExternalEngine configures an optional external analysis engine tried
// ahead of the built-in one.
func (m *ThreatModel) SetExternalEngine(engine AnalysisEngine) {
	m.external = engine
}

// EngineName reports which engine produced the current threat set.
func (m *ThreatModel) EngineName() string {
	if m.engineUsed == "" {
		return m.builtin.Name()
	}
	return m.engineUsed
}

// Threats returns the current threat list.
func (m *ThreatModel) Threats() []schemas.ThreatInfo {
	return m.threats
}

// RunAnalysis clears prior results and re-analyzes the snapshot. When an
// external engine is configured it is tried first; any failure is logged and
// the built-in engine takes over. The two are never combined: the built-in
// engine only fires when the external path yielded nothing. Dataflow threats
// are appended afterwards regardless of which engine ran.
func (m *ThreatModel) RunAnalysis() []schemas.ThreatInfo {
	m.threats = nil
	m.engineUsed = m.builtin.Name()

	if m.external != nil {
		external, err := m.external.Analyze(m.shapes, m.connectors)
		if err != nil {
			m.logger.Warn("External analysis failed, falling back to builtin",
				zap.String("engine", m.external.Name()),
				zap.Error(err))
		} else if len(external) > 0 {
			m.threats = external
			m.engineUsed = m.external.Name()
			m.logger.Info("External analysis completed",
				zap.String("engine", m.external.Name()),
				zap.Int("threats", len(external)))
		}
	}

	if len(m.threats) == 0 {
		builtin, _ := m.builtin.Analyze(m.shapes, m.connectors)
		m.threats = builtin
		m.engineUsed = m.builtin.Name()
		m.logger.Info("Builtin analysis completed", zap.Int("threats", len(m.threats)))
	}

	m.threats = append(m.threats, m.dataflowThreats()...)
	return m.threats
}

// dataflowThreats synthesizes one Information Disclosure finding per
// unencrypted connector. Connectors missing either endpoint are skipped.
func (m *ThreatModel) dataflowThreats() []schemas.ThreatInfo {
	var threats []schemas.ThreatInfo
	for _, conn := range m.connectors {
		if conn.Start == nil || conn.End == nil {
			continue
		}
		if conn.Metadata.Encrypted {
			continue
		}
		startName := conn.Start.DisplayName()
		endName := conn.End.DisplayName()
		threats = append(threats, schemas.ThreatInfo{
			ID:          threatID("DF", startName+endName),
			ElementName: fmt.Sprintf("%s -> %s", startName, endName),
			ElementType: string(schemas.ElementDataflow),
			ThreatType:  schemas.ThreatInformationDisclosure,
			Severity:    schemas.SeverityMedium,
			Description: "Unencrypted data flow could expose sensitive information",
			Condition:   "Data transmitted without encryption",
			Likelihood:  "Medium",
			Impact:      "Medium",
			Mitigations: []string{"Implement TLS encryption", "Use VPN for internal communications"},
			References:  []string{},
		})
	}
	return threats
}

// Summary groups the current threat list by severity and category.
func (m *ThreatModel) Summary() schemas.ThreatSummary {
	summary := schemas.ThreatSummary{
		Total:             len(m.threats),
		BySeverity:        map[schemas.Severity]int{},
		ByType:            map[schemas.ThreatType]int{},
		ElementsAnalyzed:  len(m.shapes),
		DataflowsAnalyzed: len(m.connectors),
	}
	for _, threat := range m.threats {
		summary.BySeverity[threat.Severity]++
		summary.ByType[threat.ThreatType]++
	}
	return summary
}

// Recommendations derives high-level priority statements from the summary.
func (m *ThreatModel) Recommendations() []string {
	if len(m.threats) == 0 {
		return []string{"Run threat analysis to get recommendations"}
	}

	summary := m.Summary()
	var recs []string

	urgent := summary.BySeverity[schemas.SeverityHigh] + summary.BySeverity[schemas.SeverityCritical]
	if urgent > 0 {
		recs = append(recs, fmt.Sprintf("Address %d high/critical severity threats immediately", urgent))
	}
	if summary.ByType[schemas.ThreatSpoofing] > 0 {
		recs = append(recs, "Implement strong authentication mechanisms across all components")
	}
	if summary.ByType[schemas.ThreatInformationDisclosure] > 0 {
		recs = append(recs, "Review and strengthen data protection and access controls")
	}
	if summary.ByType[schemas.ThreatTampering] > 0 {
		recs = append(recs, "Implement data integrity protection and secure communications")
	}
	if len(recs) == 0 {
		recs = append(recs, "Continue monitoring and regular security assessments")
	}
	return recs
}

// Report assembles the exportable threat report for the last run.
func (m *ThreatModel) Report() schemas.ThreatReport {
	threats := m.threats
	if threats == nil {
		threats = []schemas.ThreatInfo{}
	}
	return schemas.ThreatReport{
		Metadata: schemas.ReportMetadata{
			ModelName:      m.Name,
			GeneratedAt:    time.Now(),
			Tool:           "stridecanvas",
			AnalysisEngine: m.EngineName(),
		},
		Summary:         m.Summary(),
		Threats:         threats,
		Recommendations: m.Recommendations(),
	}
}

// QuickAnalysis runs a one-shot analysis over a diagram document and returns
// the threats with their summary.
func QuickAnalysis(doc *diagram.Document, logger *zap.Logger) ([]schemas.ThreatInfo, schemas.ThreatSummary) {
	model := NewThreatModel("", doc.Shapes(), doc.Connectors(), logger)
	threats := model.RunAnalysis()
	return threats, model.Summary()
}
