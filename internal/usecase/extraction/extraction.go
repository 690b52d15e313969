package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ashboi005/insight-ai/internal/domain/entities"
	"github.com/ashboi005/insight-ai/pkg/ai"
)

// Pipeline errors. Each failure kind is distinguishable so the caller can
// decide whether to persist the transcript without AI enrichment.
var (
	ErrModelUnavailable   = errors.New("text generation model unavailable")
	ErrModelResponseEmpty = errors.New("model returned no usable text")
	ErrNoJSONFound        = errors.New("no JSON object found in model response")
	ErrInvalidJSON        = errors.New("invalid JSON in model response")
)

// TextGenerator is the text-completion service the pipeline calls. It is
// treated as an opaque, fallible, possibly slow function.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ExtractedTask is a task candidate recovered from the model response. Its
// priority and team are always drawn from the closed vocabularies; raw model
// values never escape the interpreter.
type ExtractedTask struct {
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Priority     entities.TaskPriority `json:"priority"`
	AssignedTeam entities.Team         `json:"assigned_team"`
	Tags         string                `json:"tags"`
}

// Result is the output of one pipeline run.
type Result struct {
	Tasks     []ExtractedTask `json:"tasks"`
	Summary   string          `json:"summary"`
	Sentiment string          `json:"sentiment"`

	// RawJSON is the JSON span located in the model response, kept so the
	// caller can archive what the model actually said.
	RawJSON json.RawMessage `json:"-"`
}

// Extractor runs the transcript-to-task extraction pipeline: build prompt,
// invoke the model once, interpret the response. There is no retry loop back
// into the model; all repair happens locally in the interpreter.
type Extractor struct {
	generator TextGenerator
	logger    *zap.Logger
	opts      Options
}

// NewExtractor creates an extraction pipeline around a text generator.
func NewExtractor(generator TextGenerator, logger *zap.Logger, opts Options) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		generator: generator,
		logger:    logger,
		opts:      opts,
	}
}

// Extract derives tasks, a summary, and a sentiment classification from a
// transcript. The returned task list is deduplicated and never empty.
func (e *Extractor) Extract(ctx context.Context, content, title string) (*Result, error) {
	if e.generator == nil {
		return nil, ErrModelUnavailable
	}

	prompt := BuildPrompt(content, title, e.opts)

	raw, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrNoAPIKey):
			return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		case errors.Is(err, ai.ErrEmptyResponse):
			return nil, fmt.Errorf("%w: %v", ErrModelResponseEmpty, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrModelResponseEmpty
	}

	result, err := e.interpret(raw, title)
	if err != nil {
		return nil, err
	}

	e.logger.Info("extraction complete",
		zap.String("transcript_title", title),
		zap.Int("tasks", len(result.Tasks)),
	)
	return result, nil
}
