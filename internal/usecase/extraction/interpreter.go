package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ashboi005/insight-ai/internal/domain/entities"
)

// rawTask mirrors one element of the "tasks" array as the model emits it,
// before any validation or repair.
type rawTask struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	AssignedTeam string `json:"assigned_team"`
	Tags         string `json:"tags"`
}

// interpret turns the raw model response into a Result: locate the JSON
// span, decode it, repair each task against the closed vocabularies,
// deduplicate, and substitute the fallback task if nothing survives. An
// empty task list is never an error.
func (e *Extractor) interpret(rawText, transcriptTitle string) (*Result, error) {
	span, err := extractJSONSpan(rawText)
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	result := &Result{
		Summary:   stringField(payload, "summary", defaultSummary),
		Sentiment: stringField(payload, "sentiment", defaultSentiment),
		RawJSON:   json.RawMessage(span),
	}

	// A missing or malformed tasks array is treated as empty, not fatal.
	var rawTasks []json.RawMessage
	if raw, ok := payload["tasks"]; ok {
		if err := json.Unmarshal(raw, &rawTasks); err != nil {
			e.logger.Warn("tasks field is not an array, treating as empty", zap.Error(err))
		}
	}

	tasks := make([]ExtractedTask, 0, len(rawTasks))
	for i, raw := range rawTasks {
		var rt rawTask
		if err := json.Unmarshal(raw, &rt); err != nil {
			// One bad record never aborts the batch.
			e.logger.Warn("dropping malformed task record",
				zap.Int("index", i),
				zap.ByteString("raw", raw),
				zap.Error(err),
			)
			continue
		}
		tasks = append(tasks, repairTask(rt))
	}

	before := len(tasks)
	tasks = e.deduplicateTasks(tasks)
	if removed := before - len(tasks); removed > 0 {
		e.logger.Info("deduplication removed similar tasks", zap.Int("removed", removed))
	}

	if len(tasks) == 0 {
		tasks = append(tasks, fallbackTask(transcriptTitle))
	}
	result.Tasks = tasks

	return result, nil
}

// extractJSONSpan locates the JSON object inside a response that may be
// wrapped in conversational prose. It first tries a balanced-brace scan that
// is aware of string literals; if the object is truncated or unbalanced it
// falls back to slicing from the first '{' to the last '}', preserving the
// observed tolerance for prose wrapping.
func extractJSONSpan(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", ErrNoJSONFound
	}

	if span, ok := balancedSpan(s, start); ok {
		return span, nil
	}

	end := strings.LastIndexByte(s, '}')
	if end > start {
		return s[start : end+1], nil
	}
	// No closing brace anywhere: hand the remainder to the decoder so the
	// failure is reported as invalid JSON rather than a missing object.
	return s[start:], nil
}

// balancedSpan scans forward from the opening brace tracking nesting depth,
// skipping brace characters inside string literals and escape sequences.
func balancedSpan(s string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// stringField reads a top-level string field, substituting the default when
// the field is absent or not a string.
func stringField(payload map[string]json.RawMessage, key, def string) string {
	raw, ok := payload[key]
	if !ok {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return def
	}
	return s
}

// repairTask validates a raw task against the closed vocabularies and
// substitutes defaults for anything out of range. No raw model value
// survives this function.
func repairTask(rt rawTask) ExtractedTask {
	team := entities.Team(rt.AssignedTeam)
	if !team.IsValid() {
		team = entities.TeamGeneral
	}

	title := rt.Title
	if title == "" {
		title = defaultTaskTitle
	}
	if runes := []rune(title); len(runes) > entities.TaskTitleMaxLen {
		title = string(runes[:entities.TaskTitleMaxLen])
	}

	return ExtractedTask{
		Title:        title,
		Description:  rt.Description,
		Priority:     entities.ParseTaskPriority(rt.Priority),
		AssignedTeam: team,
		Tags:         rt.Tags,
	}
}

// fallbackTask is the single synthetic task substituted when validation and
// deduplication leave nothing, so a successful pipeline run never returns an
// empty list.
func fallbackTask(transcriptTitle string) ExtractedTask {
	return ExtractedTask{
		Title:        "Review meeting transcript",
		Description:  fmt.Sprintf("Review and follow up on items discussed in: %s", transcriptTitle),
		Priority:     entities.TaskPriorityMedium,
		AssignedTeam: entities.TeamGeneral,
		Tags:         "review, follow-up",
	}
}
