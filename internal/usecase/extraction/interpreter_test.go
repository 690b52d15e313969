package extraction

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ashboi005/insight-ai/internal/domain/entities"
)

func newTestExtractor(gen TextGenerator) *Extractor {
	return NewExtractor(gen, zap.NewNop(), DefaultOptions())
}

func TestInterpret_WellFormedResponse(t *testing.T) {
	raw := `{
		"summary": "The team planned the Q3 launch.",
		"sentiment": "Overall positive and collaborative. Classification: positive",
		"tasks": [
			{"title": "Order new laptops for design team", "description": "Procure 5 MacBooks", "priority": "HIGH", "assigned_team": "Operations", "tags": "hardware"},
			{"title": "Schedule Q3 budget review", "description": "Book a slot with finance leadership", "priority": "MEDIUM", "assigned_team": "Finance", "tags": ""},
			{"title": "Publish launch blog post", "description": "Draft and review announcement content", "priority": "low", "assigned_team": "Marketing", "tags": "content, launch"}
		]
	}`

	e := newTestExtractor(nil)
	result, err := e.interpret(raw, "Q3 Planning")
	if err != nil {
		t.Fatalf("interpret failed: %v", err)
	}

	if result.Summary != "The team planned the Q3 launch." {
		t.Errorf("unexpected summary %q", result.Summary)
	}
	if !strings.Contains(result.Sentiment, "positive") {
		t.Errorf("unexpected sentiment %q", result.Sentiment)
	}
	if len(result.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(result.Tasks))
	}

	// Order preserved, casing normalized.
	if result.Tasks[0].Title != "Order new laptops for design team" {
		t.Errorf("unexpected first task %q", result.Tasks[0].Title)
	}
	if result.Tasks[2].Priority != entities.TaskPriorityLow {
		t.Errorf("lowercase priority not normalized: %q", result.Tasks[2].Priority)
	}
}

func TestInterpret_IgnoresSurroundingProse(t *testing.T) {
	raw := "Here is the result:\n" +
		`{"summary": "s", "sentiment": "neutral", "tasks": [{"title": "Do the thing", "description": "d", "priority": "HIGH", "assigned_team": "Devs", "tags": ""}]}` +
		"\nLet me know if you need more."

	e := newTestExtractor(nil)
	result, err := e.interpret(raw, "Sync")
	if err != nil {
		t.Fatalf("interpret failed: %v", err)
	}
	if len(result.Tasks) != 1 || result.Tasks[0].Title != "Do the thing" {
		t.Fatalf("unexpected tasks: %+v", result.Tasks)
	}
}

func TestInterpret_BalancedScanHandlesBraceInString(t *testing.T) {
	// A '}' inside a string field must not truncate the object.
	raw := `{"summary": "closing brace } mid-sentence", "sentiment": "neutral", "tasks": []} trailing {`

	e := newTestExtractor(nil)
	result, err := e.interpret(raw, "Sync")
	if err != nil {
		t.Fatalf("interpret failed: %v", err)
	}
	if result.Summary != "closing brace } mid-sentence" {
		t.Errorf("summary truncated: %q", result.Summary)
	}
}

func TestInterpret_NoJSONFound(t *testing.T) {
	e := newTestExtractor(nil)
	_, err := e.interpret("I could not produce any structured output, sorry.", "Sync")
	if !errors.Is(err, ErrNoJSONFound) {
		t.Fatalf("expected ErrNoJSONFound, got %v", err)
	}
}

func TestInterpret_InvalidJSON(t *testing.T) {
	e := newTestExtractor(nil)
	_, err := e.interpret("{not valid json", "Sync")
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestInterpret_DefaultsForMissingFields(t *testing.T) {
	e := newTestExtractor(nil)
	result, err := e.interpret(`{"tasks": [{"title": "Only task", "priority": "HIGH", "assigned_team": "Devs"}]}`, "Sync")
	if err != nil {
		t.Fatalf("interpret failed: %v", err)
	}
	if result.Summary != defaultSummary {
		t.Errorf("expected summary placeholder, got %q", result.Summary)
	}
	if result.Sentiment != defaultSentiment {
		t.Errorf("expected sentiment placeholder, got %q", result.Sentiment)
	}
	if result.Tasks[0].Description != "" || result.Tasks[0].Tags != "" {
		t.Errorf("expected empty defaults, got %+v", result.Tasks[0])
	}
}

func TestInterpret_FallbackTaskOnEmptyList(t *testing.T) {
	e := newTestExtractor(nil)
	result, err := e.interpret(`{"summary": "s", "sentiment": "neutral", "tasks": []}`, "Weekly Standup")
	if err != nil {
		t.Fatalf("interpret failed: %v", err)
	}
	if len(result.Tasks) != 1 {
		t.Fatalf("expected exactly 1 fallback task, got %d", len(result.Tasks))
	}
	fb := result.Tasks[0]
	if fb.Title != "Review meeting transcript" {
		t.Errorf("unexpected fallback title %q", fb.Title)
	}
	if !strings.Contains(fb.Description, "Weekly Standup") {
		t.Errorf("fallback description should reference the transcript title: %q", fb.Description)
	}
	if fb.Priority != entities.TaskPriorityMedium || fb.AssignedTeam != entities.TeamGeneral {
		t.Errorf("unexpected fallback fields: %+v", fb)
	}
	if fb.Tags != "review, follow-up" {
		t.Errorf("unexpected fallback tags %q", fb.Tags)
	}
}

func TestInterpret_FallbackWhenAllTasksMalformed(t *testing.T) {
	// Elements that are not objects are dropped individually; the batch
	// continues and ends with the fallback task.
	e := newTestExtractor(nil)
	result, err := e.interpret(`{"summary": "s", "tasks": [42, "nope"]}`, "Sync")
	if err != nil {
		t.Fatalf("interpret failed: %v", err)
	}
	if len(result.Tasks) != 1 || result.Tasks[0].Title != "Review meeting transcript" {
		t.Fatalf("expected fallback task, got %+v", result.Tasks)
	}
}

func TestInterpret_MalformedTasksFieldTreatedAsEmpty(t *testing.T) {
	e := newTestExtractor(nil)
	result, err := e.interpret(`{"summary": "s", "tasks": "not an array"}`, "Sync")
	if err != nil {
		t.Fatalf("interpret failed: %v", err)
	}
	if len(result.Tasks) != 1 || result.Tasks[0].Title != "Review meeting transcript" {
		t.Fatalf("expected fallback task, got %+v", result.Tasks)
	}
}

func TestInterpret_VocabularyClosure(t *testing.T) {
	raw := `{"tasks": [
		{"title": "t1", "priority": "urgent", "assigned_team": "Engineering"},
		{"title": "t2", "priority": "HIGH", "assigned_team": "sales"},
		{"title": "t3", "priority": "LoW", "assigned_team": "HR"}
	]}`

	e := newTestExtractor(nil)
	result, err := e.interpret(raw, "Sync")
	if err != nil {
		t.Fatalf("interpret failed: %v", err)
	}
	if len(result.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(result.Tasks))
	}

	for _, task := range result.Tasks {
		if !task.Priority.IsValid() {
			t.Errorf("priority escaped validation: %q", task.Priority)
		}
		if !task.AssignedTeam.IsValid() {
			t.Errorf("team escaped validation: %q", task.AssignedTeam)
		}
	}

	if result.Tasks[0].Priority != entities.TaskPriorityMedium {
		t.Errorf("garbage priority should fall back to MEDIUM, got %q", result.Tasks[0].Priority)
	}
	if result.Tasks[0].AssignedTeam != entities.TeamGeneral {
		t.Errorf("unknown team should fall back to General, got %q", result.Tasks[0].AssignedTeam)
	}
	// Team matching is case-sensitive on canonical values.
	if result.Tasks[1].AssignedTeam != entities.TeamGeneral {
		t.Errorf("lowercase team should fall back to General, got %q", result.Tasks[1].AssignedTeam)
	}
	// Priority matching is case-insensitive.
	if result.Tasks[2].Priority != entities.TaskPriorityLow {
		t.Errorf("mixed-case priority should normalize to LOW, got %q", result.Tasks[2].Priority)
	}
}

func TestInterpret_TitleTruncation(t *testing.T) {
	long := strings.Repeat("a", 300)
	e := newTestExtractor(nil)
	result, err := e.interpret(`{"tasks": [{"title": "`+long+`", "priority": "HIGH", "assigned_team": "Devs"}]}`, "Sync")
	if err != nil {
		t.Fatalf("interpret failed: %v", err)
	}
	if got := len([]rune(result.Tasks[0].Title)); got != 255 {
		t.Fatalf("expected title truncated to 255 characters, got %d", got)
	}
}

func TestInterpret_UntitledTaskDefault(t *testing.T) {
	e := newTestExtractor(nil)
	result, err := e.interpret(`{"tasks": [{"description": "no title here", "priority": "HIGH", "assigned_team": "Devs"}]}`, "Sync")
	if err != nil {
		t.Fatalf("interpret failed: %v", err)
	}
	if result.Tasks[0].Title != defaultTaskTitle {
		t.Fatalf("expected %q, got %q", defaultTaskTitle, result.Tasks[0].Title)
	}
}

func TestExtractJSONSpan_FallbackOnUnbalanced(t *testing.T) {
	// Unbalanced object (extra opening brace in prose before the payload is
	// impossible since we start at the first '{', but a truncated object
	// exercises the relaxed slice).
	span, err := extractJSONSpan(`prefix {"a": {"b": 1} prose }`)
	if err != nil {
		t.Fatalf("expected fallback span, got error %v", err)
	}
	if !strings.HasPrefix(span, `{"a"`) || !strings.HasSuffix(span, "}") {
		t.Fatalf("unexpected span %q", span)
	}
}
