package threat

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/stridecanvas/stridecanvas-cli/api/schemas"
	"github.com/stridecanvas/stridecanvas-cli/internal/diagram"
)

// commandTimeout bounds a single external engine invocation.
const commandTimeout = 30 * time.Second

// commandInput is the JSON document piped to the external engine on stdin.
type commandInput struct {
	Elements  []commandElement  `json:"elements"`
	Dataflows []commandDataflow `json:"dataflows"`
}

type commandElement struct {
	Name        string                `json:"name"`
	ElementType string                `json:"element_type"`
	Metadata    schemas.ShapeMetadata `json:"metadata"`
}

type commandDataflow struct {
	From     string                    `json:"from"`
	To       string                    `json:"to"`
	Metadata schemas.ConnectorMetadata `json:"metadata"`
}

// CommandEngine runs an external analysis program. The diagram snapshot is
// written to the program's stdin as JSON and stdout must be a JSON array of
// threat findings. A non-zero exit or unparsable output is an error; the
// caller decides whether to fall back.
type CommandEngine struct {
	command string
	logger  *zap.Logger
}

// NewCommandEngine wraps the given executable as an analysis engine.
func NewCommandEngine(command string, logger *zap.Logger) *CommandEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandEngine{
		command: command,
		logger:  logger.Named("command-engine"),
	}
}

// Name implements AnalysisEngine.
func (e *CommandEngine) Name() string {
	return e.command
}

// Analyze implements AnalysisEngine by invoking the external program once for
// the whole snapshot.
func (e *CommandEngine) Analyze(shapes []*diagram.Shape, connectors []*diagram.Connector) ([]schemas.ThreatInfo, error) {
	input := commandInput{
		Elements:  make([]commandElement, 0, len(shapes)),
		Dataflows: make([]commandDataflow, 0, len(connectors)),
	}
	for _, s := range shapes {
		input.Elements = append(input.Elements, commandElement{
			Name:        s.DisplayName(),
			ElementType: s.ElementType(),
			Metadata:    s.Metadata,
		})
	}
	for _, c := range connectors {
		if c.Start == nil || c.End == nil {
			continue
		}
		input.Dataflows = append(input.Dataflows, commandDataflow{
			From:     c.Start.DisplayName(),
			To:       c.End.DisplayName(),
			Metadata: c.Metadata,
		})
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode engine input: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.command)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		e.logger.Warn("External engine failed",
			zap.String("command", e.command),
			zap.String("stderr", stderr.String()),
			zap.Error(err))
		return nil, fmt.Errorf("engine %s failed: %w", e.command, err)
	}

	var threats []schemas.ThreatInfo
	if err := json.Unmarshal(stdout.Bytes(), &threats); err != nil {
		return nil, fmt.Errorf("engine %s produced invalid output: %w", e.command, err)
	}

	e.logger.Debug("External engine completed",
		zap.String("command", e.command),
		zap.Int("threats", len(threats)),
		zap.Duration("duration", time.Since(start)))
	return threats, nil
}
