package schemas

// -- Diagram Document Schemas --
//
// These types define the on-disk JSON format for diagram files. Connector
// records reference shapes by 0-based index into the shapes array as written;
// indices are validated on load.

// ShapeRecord is the serialized form of a single shape.
type ShapeRecord struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	// Metadata carries the four property groups edited in the side panel.
	Metadata      ShapeMetadata `json:"metadata"`
	ShapeCategory string        `json:"shape_category"`
	// ShapeSubtype records the palette tool that created the shape, e.g. a
	// "datastore" drawn as a rect. It takes precedence over Type when the
	// shape is classified for threat analysis.
	ShapeSubtype string `json:"shape_subtype"`
}

// ConnectorRecord is the serialized form of a connector between two shapes.
type ConnectorRecord struct {
	Start    int               `json:"start"`
	End      int               `json:"end"`
	Type     string            `json:"type"`
	Metadata ConnectorMetadata `json:"metadata"`
}

// DocumentMetadata describes a saved diagram file.
type DocumentMetadata struct {
	Version         string `json:"version"`
	CreatedAt       string `json:"created_at"`
	ShapeCount      int    `json:"shape_count"`
	ConnectorsCount int    `json:"connectors_count"`
}

// DiagramDocument is the persistence unit: all shapes, all connectors, and
// the file-level metadata.
type DiagramDocument struct {
	Shapes     []ShapeRecord     `json:"shapes"`
	Connectors []ConnectorRecord `json:"connectors"`
	Metadata   DocumentMetadata  `json:"metadata"`
}

// -- Element Metadata Schemas --

// ShapeMetadata groups the property-panel records attached to a shape.
// Each group is a flat record with documented defaults; absent fields take
// their zero value and are normalized by the consumer.
type ShapeMetadata struct {
	Basic     BasicMetadata     `json:"basic"`
	Security  SecurityMetadata  `json:"security"`
	Technical TechnicalMetadata `json:"technical"`
	Trust     TrustMetadata     `json:"trust"`
}

// BasicMetadata holds descriptive, non-security fields.
type BasicMetadata struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Owner       string `json:"owner"`
	ID          string `json:"id"`
	Version     string `json:"version"`
	Created     string `json:"created"`
	Modified    string `json:"modified"`
}

// SecurityMetadata holds access-control and data-protection fields.
// "None" (or empty) means the control is absent.
type SecurityMetadata struct {
	Authentication    string `json:"authentication"`
	Authorization     string `json:"authorization"`
	Privileges        string `json:"privileges"`
	EncryptionTransit string `json:"encryption_transit"`
	EncryptionRest    string `json:"encryption_rest"`
	// DataClassification defaults to "Public". "Confidential" and
	// "Restricted" mark the element as handling sensitive data.
	DataClassification string   `json:"data_classification"`
	ThreatLevel        string   `json:"threat_level"`
	Threats            []string `json:"threats"`
}

// TechnicalMetadata holds network, system and database facts.
type TechnicalMetadata struct {
	IPAddress        string `json:"ip_address"`
	Ports            string `json:"ports"`
	Protocol         string `json:"protocol"`
	Domain           string `json:"domain"`
	OperatingSystem  string `json:"operating_system"`
	ServiceAccount   string `json:"service_account"`
	Dependencies     string `json:"dependencies"`
	DBType           string `json:"db_type"`
	DBVersion        string `json:"db_version"`
	ConnectionString string `json:"connection_string"`
}

// TrustMetadata holds trust-boundary and compliance fields.
type TrustMetadata struct {
	// TrustLevel defaults to "Low".
	TrustLevel string `json:"trust_level"`
	// NetworkZone marks the element internet-facing when set to "Internet".
	NetworkZone          string `json:"network_zone"`
	BoundaryType         string `json:"boundary_type"`
	ComplianceFrameworks string `json:"compliance_frameworks"`
	SecurityStandards    string `json:"security_standards"`
	AuditRequired        bool   `json:"audit_required"`
	LoggingEnabled       bool   `json:"logging_enabled"`
	MonitoringEnabled    bool   `json:"monitoring_enabled"`
	BusinessImpact       string `json:"business_impact"`
	DataRetention        string `json:"data_retention"`
	BackupFrequency      string `json:"backup_frequency"`
}

// -- Connector Metadata --

// FlowDirection describes which way data travels along a connector.
type FlowDirection string

const (
	FlowForward       FlowDirection = "Forward"
	FlowBackward      FlowDirection = "Backward"
	FlowBidirectional FlowDirection = "Bidirectional"
	FlowNone          FlowDirection = "None"
)

// ConnectorMetadata holds the dataflow facts attached to a connector.
type ConnectorMetadata struct {
	Label string `json:"label"`
	// DataFlow defaults to Bidirectional for new connectors.
	DataFlow FlowDirection `json:"data_flow"`
	Protocol string        `json:"protocol"`
	// Encrypted gates the dataflow threat: unencrypted connectors yield an
	// Information Disclosure finding.
	Encrypted     bool   `json:"encrypted"`
	Authenticated bool   `json:"authenticated"`
	DataType      string `json:"data_type"`
	Frequency     string `json:"frequency"`
}
