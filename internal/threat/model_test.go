package threat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stridecanvas/stridecanvas-cli/api/schemas"
	"github.com/stridecanvas/stridecanvas-cli/internal/diagram"
)

// stubEngine is a canned external engine for fallback policy tests.
type stubEngine struct {
	name    string
	threats []schemas.ThreatInfo
	err     error
	calls   int
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) Analyze([]*diagram.Shape, []*diagram.Connector) ([]schemas.ThreatInfo, error) {
	s.calls++
	return s.threats, s.err
}

// loginScenario builds a user -> process -> datastore diagram with one
// unencrypted and one encrypted dataflow.
func loginScenario(t *testing.T) *diagram.Document {
	t.Helper()
	doc := diagram.NewDocument(zap.NewNop())

	user := diagram.NewShape(diagram.KindCircle, 0, 0, 80, 80)
	user.Label = "Customer"
	user.ShapeSubtype = "user"

	login := diagram.NewShape(diagram.KindRect, 200, 0, 100, 60)
	login.Label = "Login Service"
	login.ShapeSubtype = "process"
	login.Metadata.Trust.NetworkZone = "Internet"

	db := diagram.NewShape(diagram.KindRect, 400, 0, 120, 40)
	db.Label = "UserDB"
	db.ShapeSubtype = "datastore"
	db.Metadata.Security.DataClassification = "Confidential"

	doc.AddShape(user)
	doc.AddShape(login)
	doc.AddShape(db)

	doc.Connect(user, login, diagram.ConnectorArrow)
	secure := doc.Connect(login, db, diagram.ConnectorArrow)
	secure.Metadata.Encrypted = true
	return doc
}

func TestRunAnalysisBuiltinOnly(t *testing.T) {
	doc := loginScenario(t)
	model := NewThreatModel("Login Flow", doc.Shapes(), doc.Connectors(), zap.NewNop())

	threats := model.RunAnalysis()

	// user 2 + process 4 + datastore 3, plus one dataflow threat for the
	// unencrypted connector.
	assert.Len(t, threats, 10)
	assert.Equal(t, "Built-in STRIDE", model.EngineName())
}

func TestDataflowThreatsOnlyForUnencrypted(t *testing.T) {
	doc := loginScenario(t)
	model := NewThreatModel("", doc.Shapes(), doc.Connectors(), zap.NewNop())
	model.RunAnalysis()

	var dataflow []schemas.ThreatInfo
	for _, threat := range model.Threats() {
		if threat.ElementType == "dataflow" {
			dataflow = append(dataflow, threat)
		}
	}
	require.Len(t, dataflow, 1)

	df := dataflow[0]
	assert.Equal(t, "Customer -> Login Service", df.ElementName)
	assert.Equal(t, schemas.ThreatInformationDisclosure, df.ThreatType)
	assert.Equal(t, schemas.SeverityMedium, df.Severity)
	assert.Regexp(t, `^DF\d{3}$`, df.ID)
	assert.Contains(t, df.Mitigations, "Implement TLS encryption")
}

func TestExternalEngineWinsWhenItProduces(t *testing.T) {
	doc := loginScenario(t)
	model := NewThreatModel("", doc.Shapes(), doc.Connectors(), zap.NewNop())

	external := &stubEngine{
		name: "acme-engine",
		threats: []schemas.ThreatInfo{{
			ID: "T001", ElementName: "Login Service",
			ThreatType: schemas.ThreatSpoofing, Severity: schemas.SeverityHigh,
		}},
	}
	model.SetExternalEngine(external)
	threats := model.RunAnalysis()

	assert.Equal(t, 1, external.calls)
	assert.Equal(t, "acme-engine", model.EngineName())
	// The external finding plus the dataflow threat; builtin stays out.
	assert.Len(t, threats, 2)
}

func TestExternalEngineFailureFallsBack(t *testing.T) {
	doc := loginScenario(t)
	model := NewThreatModel("", doc.Shapes(), doc.Connectors(), zap.NewNop())

	external := &stubEngine{name: "acme-engine", err: errors.New("boom")}
	model.SetExternalEngine(external)
	threats := model.RunAnalysis()

	assert.Equal(t, 1, external.calls)
	assert.Equal(t, "Built-in STRIDE", model.EngineName())
	assert.Len(t, threats, 10)
}

func TestExternalEngineEmptyResultFallsBack(t *testing.T) {
	doc := loginScenario(t)
	model := NewThreatModel("", doc.Shapes(), doc.Connectors(), zap.NewNop())

	model.SetExternalEngine(&stubEngine{name: "acme-engine"})
	model.RunAnalysis()

	assert.Equal(t, "Built-in STRIDE", model.EngineName())
}

func TestRunAnalysisClearsPreviousResults(t *testing.T) {
	doc := loginScenario(t)
	model := NewThreatModel("", doc.Shapes(), doc.Connectors(), zap.NewNop())

	first := model.RunAnalysis()
	second := model.RunAnalysis()
	assert.Equal(t, len(first), len(second))
}

func TestSummaryCounts(t *testing.T) {
	doc := loginScenario(t)
	model := NewThreatModel("", doc.Shapes(), doc.Connectors(), zap.NewNop())
	model.RunAnalysis()

	summary := model.Summary()
	assert.Equal(t, 10, summary.Total)
	assert.Equal(t, 3, summary.ElementsAnalyzed)
	assert.Equal(t, 2, summary.DataflowsAnalyzed)

	var bySeverity int
	for _, n := range summary.BySeverity {
		bySeverity += n
	}
	assert.Equal(t, summary.Total, bySeverity)
}

func TestRecommendations(t *testing.T) {
	doc := loginScenario(t)
	model := NewThreatModel("", doc.Shapes(), doc.Connectors(), zap.NewNop())

	// Before any analysis there is only the placeholder.
	recs := model.Recommendations()
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "Run threat analysis")

	model.RunAnalysis()
	recs = model.Recommendations()
	assert.Contains(t, recs, "Implement strong authentication mechanisms across all components")
	assert.Contains(t, recs, "Review and strengthen data protection and access controls")
}

func TestReportMetadata(t *testing.T) {
	doc := loginScenario(t)
	model := NewThreatModel("Login Flow", doc.Shapes(), doc.Connectors(), zap.NewNop())
	model.RunAnalysis()

	report := model.Report()
	assert.Equal(t, "Login Flow", report.Metadata.ModelName)
	assert.Equal(t, "stridecanvas", report.Metadata.Tool)
	assert.Equal(t, "Built-in STRIDE", report.Metadata.AnalysisEngine)
	assert.False(t, report.Metadata.GeneratedAt.IsZero())
	assert.Len(t, report.Threats, report.Summary.Total)
}

func TestQuickAnalysis(t *testing.T) {
	doc := loginScenario(t)
	threats, summary := QuickAnalysis(doc, zap.NewNop())

	assert.Len(t, threats, 10)
	assert.Equal(t, 10, summary.Total)
}
