package persistence

import (
	"fmt"
	"os"

	json "github.com/json-iterator/go"

	"github.com/stridecanvas/stridecanvas-cli/api/schemas"
)

// ValidateFile checks a diagram file without building a document. It returns
// one message per problem that LoadDocument would silently skip over, so a
// clean file yields an empty slice. Envelope problems (unreadable file,
// invalid JSON, missing shapes) are returned as the error instead.
func ValidateFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid diagram file %s: %w", path, err)
	}
	shapesRaw, ok := raw["shapes"]
	if !ok {
		return nil, fmt.Errorf("invalid diagram file %s: missing shapes", path)
	}

	var shapeItems []json.RawMessage
	if err := json.Unmarshal(shapesRaw, &shapeItems); err != nil {
		return nil, fmt.Errorf("invalid diagram file %s: shapes is not an array: %w", path, err)
	}

	var problems []string
	for i, item := range shapeItems {
		var rec schemas.ShapeRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			problems = append(problems, fmt.Sprintf("shape %d: malformed record: %v", i, err))
			continue
		}
		if rec.Type == "" {
			problems = append(problems, fmt.Sprintf("shape %d: missing type", i))
		}
		if rec.Width < 0 || rec.Height < 0 {
			problems = append(problems, fmt.Sprintf("shape %d: negative dimensions", i))
		}
	}

	connRaw, ok := raw["connectors"]
	if !ok {
		return problems, nil
	}
	var connItems []json.RawMessage
	if err := json.Unmarshal(connRaw, &connItems); err != nil {
		problems = append(problems, fmt.Sprintf("connectors: not an array: %v", err))
		return problems, nil
	}
	for i, item := range connItems {
		start, end, _, _, err := decodeConnector(item)
		if err != nil {
			problems = append(problems, fmt.Sprintf("connector %d: %v", i, err))
			continue
		}
		if start < 0 || start >= len(shapeItems) || end < 0 || end >= len(shapeItems) {
			problems = append(problems, fmt.Sprintf("connector %d: endpoint out of range (%d -> %d)", i, start, end))
		}
	}
	return problems, nil
}
