package threat

import (
	"github.com/stridecanvas/stridecanvas-cli/internal/diagram"
)

// sensitiveClassifications mark an element as handling data that raises
// impact and severity.
var sensitiveClassifications = map[string]bool{
	"Confidential": true,
	"Restricted":   true,
}

// ElementSecurityProperties is the normalized security posture derived from
// a shape's metadata. It is computed on demand and never persisted.
type ElementSecurityProperties struct {
	HasAuthentication   bool
	HasAuthorization    bool
	HasEncryptedTransit bool
	HasEncryptionRest   bool
	HasInputValidation  bool
	HasLogging          bool
	HasMonitoring       bool
	IsInternetFacing    bool
	HandlesPII          bool
	DataClassification  string
	TrustLevel          string
}

// ExtractSecurityProperties normalizes a shape's metadata record. A control
// set to "None" (or left empty) counts as absent; classification defaults to
// "Public" and trust level to "Low".
func ExtractSecurityProperties(shape *diagram.Shape) ElementSecurityProperties {
	security := shape.Metadata.Security
	trust := shape.Metadata.Trust

	classification := security.DataClassification
	if classification == "" {
		classification = "Public"
	}
	trustLevel := trust.TrustLevel
	if trustLevel == "" {
		trustLevel = "Low"
	}

	return ElementSecurityProperties{
		HasAuthentication:   present(security.Authentication),
		HasAuthorization:    present(security.Authorization),
		HasEncryptedTransit: present(security.EncryptionTransit),
		HasEncryptionRest:   present(security.EncryptionRest),
		// The panel exposes no dedicated input-validation field; the
		// logging flag stands in for it.
		HasInputValidation: trust.LoggingEnabled,
		HasLogging:         trust.LoggingEnabled,
		HasMonitoring:      trust.MonitoringEnabled,
		IsInternetFacing:   trust.NetworkZone == "Internet",
		HandlesPII:         sensitiveClassifications[classification],
		DataClassification: classification,
		TrustLevel:         trustLevel,
	}
}

func present(control string) bool {
	return control != "" && control != "None"
}

// RiskScore is an additive 0-10 heuristic over the element's gaps. The
// weights are fixed design constants, not a probabilistic model.
func (p ElementSecurityProperties) RiskScore() int {
	score := 0
	if !p.HasAuthentication {
		score += 2
	}
	if !p.HasAuthorization {
		score += 2
	}
	if !p.HasEncryptedTransit {
		score++
	}
	if !p.HasInputValidation {
		score += 3
	}
	if p.IsInternetFacing {
		score += 2
	}
	if p.HandlesPII {
		score += 2
	}
	if sensitiveClassifications[p.DataClassification] {
		score++
	}
	return min(score, 10)
}

// sensitive reports whether the element's posture raises impact: PII or a
// sensitive classification.
func (p ElementSecurityProperties) sensitive() bool {
	return p.HandlesPII || sensitiveClassifications[p.DataClassification]
}
