package threat

import (
	"fmt"
	"hash/fnv"
	"strings"

	"go.uber.org/zap"

	"github.com/stridecanvas/stridecanvas-cli/api/schemas"
	"github.com/stridecanvas/stridecanvas-cli/internal/diagram"
)

// AnalysisEngine is the pluggable per-element threat source. The built-in
// STRIDE engine is always available; an external engine may be configured
// and is tried first, with explicit fallback handled by the ThreatModel.
type AnalysisEngine interface {
	// Name identifies the engine in report metadata.
	Name() string
	// Analyze enumerates threats for a snapshot of shapes and connectors.
	Analyze(shapes []*diagram.Shape, connectors []*diagram.Connector) ([]schemas.ThreatInfo, error)
}

// strideMapping fixes the applicable STRIDE subset per element class.
var strideMapping = map[schemas.ElementType][]schemas.ThreatType{
	schemas.ElementActor:    {schemas.ThreatSpoofing, schemas.ThreatRepudiation},
	schemas.ElementExternal: {schemas.ThreatSpoofing, schemas.ThreatRepudiation},
	schemas.ElementUser:     {schemas.ThreatSpoofing, schemas.ThreatRepudiation},
	schemas.ElementProcess: {
		schemas.ThreatTampering, schemas.ThreatInformationDisclosure,
		schemas.ThreatDenialOfService, schemas.ThreatElevationOfPrivilege,
	},
	schemas.ElementServer: {
		schemas.ThreatTampering, schemas.ThreatInformationDisclosure,
		schemas.ThreatDenialOfService, schemas.ThreatElevationOfPrivilege,
	},
	schemas.ElementDatastore: {
		schemas.ThreatTampering, schemas.ThreatInformationDisclosure,
		schemas.ThreatDenialOfService,
	},
	schemas.ElementDatabase: {
		schemas.ThreatTampering, schemas.ThreatInformationDisclosure,
		schemas.ThreatDenialOfService,
	},
	schemas.ElementBoundary: {schemas.ThreatSpoofing, schemas.ThreatTampering},
}

// baseSeverity is the starting severity score per STRIDE category, before
// posture adjustments.
var baseSeverity = map[schemas.ThreatType]int{
	schemas.ThreatSpoofing:              2,
	schemas.ThreatTampering:             3,
	schemas.ThreatRepudiation:           1,
	schemas.ThreatInformationDisclosure: 3,
	schemas.ThreatDenialOfService:       2,
	schemas.ThreatElevationOfPrivilege:  4,
}

// BuiltinEngine is the rule-based STRIDE engine. It is state-free: every
// method derives its output purely from the inputs and fixed tables.
type BuiltinEngine struct {
	logger *zap.Logger
}

// NewBuiltinEngine returns the built-in engine.
func NewBuiltinEngine(logger *zap.Logger) *BuiltinEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuiltinEngine{logger: logger.Named("builtin-engine")}
}

// Name implements AnalysisEngine.
func (e *BuiltinEngine) Name() string {
	return "Built-in STRIDE"
}

// Analyze implements AnalysisEngine over a full diagram snapshot.
func (e *BuiltinEngine) Analyze(shapes []*diagram.Shape, _ []*diagram.Connector) ([]schemas.ThreatInfo, error) {
	var threats []schemas.ThreatInfo
	for _, shape := range shapes {
		props := ExtractSecurityProperties(shape)
		threats = append(threats, e.AnalyzeElement(shape.DisplayName(), shape.ElementType(), props)...)
	}
	return threats, nil
}

// AnalyzeElement enumerates the applicable STRIDE categories for one element
// and synthesizes a threat per category. Unrecognized element types are
// analyzed as processes.
func (e *BuiltinEngine) AnalyzeElement(name, elementType string, props ElementSecurityProperties) []schemas.ThreatInfo {
	elemType := schemas.ElementType(strings.ToLower(elementType))
	applicable, ok := strideMapping[elemType]
	if !ok {
		elemType = schemas.ElementProcess
		applicable = strideMapping[elemType]
	}

	threats := make([]schemas.ThreatInfo, 0, len(applicable))
	for _, threatType := range applicable {
		threats = append(threats, e.createThreat(name, elemType, threatType, props))
	}
	return threats
}

func (e *BuiltinEngine) createThreat(name string, elemType schemas.ElementType, threatType schemas.ThreatType, props ElementSecurityProperties) schemas.ThreatInfo {
	description, condition := threatDetails(elemType, threatType)
	return schemas.ThreatInfo{
		ID:          threatID("T", name+string(threatType)),
		ElementName: name,
		ElementType: string(elemType),
		ThreatType:  threatType,
		Severity:    calculateSeverity(threatType, props),
		Description: description,
		Condition:   condition,
		Likelihood:  calculateLikelihood(props),
		Impact:      calculateImpact(threatType, props),
		Mitigations: mitigationsFor(threatType, elemType),
		References:  []string{},
	}
}

// threatID derives a short display label from a stable FNV-1a hash of the
// seed, so ids are reproducible across runs. Collisions across elements are
// possible and accepted; the id is a label, not a key.
func threatID(prefix, seed string) string {
	h := fnv.New32a()
	h.Write([]byte(seed))
	return fmt.Sprintf("%s%03d", prefix, h.Sum32()%1000)
}

// calculateSeverity starts from the category base, adjusts for overall risk
// and posture, and maps the final score onto the severity scale.
func calculateSeverity(threatType schemas.ThreatType, props ElementSecurityProperties) schemas.Severity {
	score := baseSeverity[threatType]
	if score == 0 {
		score = 2
	}

	risk := props.RiskScore()
	if risk >= 7 {
		score++
	}
	if risk <= 3 {
		score--
	}
	if props.sensitive() {
		score++
	}
	if props.IsInternetFacing {
		score++
	}

	switch {
	case score >= 4:
		return schemas.SeverityCritical
	case score >= 3:
		return schemas.SeverityHigh
	case score >= 2:
		return schemas.SeverityMedium
	default:
		return schemas.SeverityLow
	}
}

func calculateLikelihood(props ElementSecurityProperties) string {
	switch {
	case props.IsInternetFacing:
		return "High"
	case props.RiskScore() >= 6:
		return "Medium"
	default:
		return "Low"
	}
}

func calculateImpact(threatType schemas.ThreatType, props ElementSecurityProperties) string {
	if props.sensitive() {
		return "High"
	}
	if threatType == schemas.ThreatInformationDisclosure || threatType == schemas.ThreatElevationOfPrivilege {
		return "Medium"
	}
	return "Low"
}

type detailKey struct {
	element schemas.ElementType
	threat  schemas.ThreatType
}

// specificDetails covers the element/category pairs with tailored wording;
// everything else falls back to the generic per-category template.
var specificDetails = map[detailKey][2]string{
	{schemas.ElementActor, schemas.ThreatSpoofing}: {
		"An attacker could impersonate this user or system.",
		"No strong authentication mechanism is in place.",
	},
	{schemas.ElementProcess, schemas.ThreatTampering}: {
		"Process data or code could be modified by an attacker.",
		"Insufficient integrity protection mechanisms.",
	},
	{schemas.ElementDatastore, schemas.ThreatInformationDisclosure}: {
		"Sensitive data could be accessed by unauthorized parties.",
		"Inadequate access controls or encryption.",
	},
	{schemas.ElementServer, schemas.ThreatDenialOfService}: {
		"Server availability could be compromised by resource exhaustion.",
		"No rate limiting or DDoS protection is in place.",
	},
}

func threatDetails(elemType schemas.ElementType, threatType schemas.ThreatType) (string, string) {
	if details, ok := specificDetails[detailKey{elemType, threatType}]; ok {
		return details[0], details[1]
	}

	switch threatType {
	case schemas.ThreatSpoofing:
		return fmt.Sprintf("Identity spoofing attack against %s.", elemType),
			"Weak or missing authentication controls."
	case schemas.ThreatTampering:
		return fmt.Sprintf("Data or system tampering attack against %s.", elemType),
			"Insufficient integrity protection."
	case schemas.ThreatRepudiation:
		return fmt.Sprintf("Actions could be denied or disputed by %s.", elemType),
			"Inadequate logging and audit trails."
	case schemas.ThreatInformationDisclosure:
		return fmt.Sprintf("Sensitive information could be exposed from %s.", elemType),
			"Weak access controls or encryption."
	case schemas.ThreatDenialOfService:
		return fmt.Sprintf("Service availability could be compromised for %s.", elemType),
			"No protection against resource exhaustion."
	case schemas.ThreatElevationOfPrivilege:
		return fmt.Sprintf("Attacker could gain elevated privileges on %s.", elemType),
			"Insufficient privilege management."
	default:
		return "Unknown threat", "Unknown condition"
	}
}

// generalMitigations lists up to four mitigations per category.
var generalMitigations = map[schemas.ThreatType][]string{
	schemas.ThreatSpoofing: {
		"Implement strong authentication (multi-factor preferred)",
		"Use digital certificates for system authentication",
		"Enable mutual authentication for system-to-system communication",
		"Implement account lockout policies",
	},
	schemas.ThreatTampering: {
		"Implement digital signatures for data integrity",
		"Use secure communication protocols (TLS 1.3)",
		"Enable file integrity monitoring",
		"Implement access controls and privilege separation",
	},
	schemas.ThreatRepudiation: {
		"Implement comprehensive audit logging",
		"Use digital signatures for non-repudiation",
		"Enable secure time stamping",
		"Implement log integrity protection",
	},
	schemas.ThreatInformationDisclosure: {
		"Encrypt sensitive data at rest and in transit",
		"Implement proper access controls (principle of least privilege)",
		"Use data loss prevention (DLP) tools",
		"Regular security assessments and penetration testing",
	},
	schemas.ThreatDenialOfService: {
		"Implement rate limiting and throttling",
		"Use load balancing and redundancy",
		"Deploy DDoS protection services",
		"Implement resource monitoring and alerting",
	},
	schemas.ThreatElevationOfPrivilege: {
		"Implement principle of least privilege",
		"Use role-based access control (RBAC)",
		"Regular privilege reviews and access certification",
		"Implement privilege escalation monitoring",
	},
}

// maxMitigations caps the mitigation list per threat. Type-specific entries
// appended past the cap are dropped, so a full general list shadows them.
const maxMitigations = 4

func mitigationsFor(threatType schemas.ThreatType, elemType schemas.ElementType) []string {
	base, ok := generalMitigations[threatType]
	if !ok {
		base = []string{"Review and implement appropriate security controls"}
	}
	mitigations := make([]string, len(base), len(base)+3)
	copy(mitigations, base)

	switch elemType {
	case schemas.ElementDatastore:
		mitigations = append(mitigations,
			"Database access controls", "Data encryption", "Database activity monitoring")
	case schemas.ElementServer:
		mitigations = append(mitigations,
			"Server hardening", "Security patches", "Host-based intrusion detection")
	}

	if len(mitigations) > maxMitigations {
		mitigations = mitigations[:maxMitigations]
	}
	return mitigations
}
