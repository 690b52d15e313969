package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ashboi005/insight-ai/pkg/ai"
)

// stubGenerator returns canned text without any network dependency.
type stubGenerator struct {
	text string
	err  error

	gotPrompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.gotPrompt = prompt
	return s.text, s.err
}

func TestExtract_EndToEnd(t *testing.T) {
	gen := &stubGenerator{text: "Sure! Here you go:\n" + `{
		"summary": "Planning recap",
		"sentiment": "neutral overall",
		"tasks": [{"title": "Ship the beta", "description": "Cut the release branch", "priority": "HIGH", "assigned_team": "Devs", "tags": "release"}]
	}`}

	e := newTestExtractor(gen)
	result, err := e.Extract(context.Background(), "we discussed shipping the beta", "Release Sync")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if result.Summary != "Planning recap" {
		t.Errorf("unexpected summary %q", result.Summary)
	}
	if len(result.Tasks) != 1 || result.Tasks[0].Title != "Ship the beta" {
		t.Fatalf("unexpected tasks %+v", result.Tasks)
	}
	if len(result.RawJSON) == 0 {
		t.Error("expected raw JSON span to be captured")
	}

	// The prompt must carry the transcript, title, and both vocabularies.
	for _, want := range []string{
		"Release Sync",
		"we discussed shipping the beta",
		"Sales, Devs, Marketing, Design, Operations, Finance, HR, General",
		`"HIGH", "MEDIUM", or "LOW"`,
	} {
		if !strings.Contains(gen.gotPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestExtract_NilGenerator(t *testing.T) {
	e := NewExtractor(nil, nil, DefaultOptions())
	_, err := e.Extract(context.Background(), "content", "title")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestExtract_MissingCredentialMapsToUnavailable(t *testing.T) {
	e := newTestExtractor(&stubGenerator{err: ai.ErrNoAPIKey})
	_, err := e.Extract(context.Background(), "content", "title")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestExtract_EmptyResponseMapsToResponseEmpty(t *testing.T) {
	e := newTestExtractor(&stubGenerator{err: ai.ErrEmptyResponse})
	_, err := e.Extract(context.Background(), "content", "title")
	if !errors.Is(err, ErrModelResponseEmpty) {
		t.Fatalf("expected ErrModelResponseEmpty, got %v", err)
	}
}

func TestExtract_BlankTextIsResponseEmpty(t *testing.T) {
	e := newTestExtractor(&stubGenerator{text: "   \n\t "})
	_, err := e.Extract(context.Background(), "content", "title")
	if !errors.Is(err, ErrModelResponseEmpty) {
		t.Fatalf("expected ErrModelResponseEmpty, got %v", err)
	}
}

func TestBuildPrompt_SentimentToggle(t *testing.T) {
	withSentiment := BuildPrompt("c", "t", Options{IncludeSentiment: true})
	if !strings.Contains(withSentiment, "SENTIMENT ANALYSIS") {
		t.Error("expected sentiment section when requested")
	}
	if !strings.Contains(withSentiment, `"sentiment"`) {
		t.Error("expected sentiment field in the output contract")
	}

	withoutSentiment := BuildPrompt("c", "t", Options{})
	if strings.Contains(withoutSentiment, "SENTIMENT ANALYSIS") {
		t.Error("did not expect sentiment section")
	}
	if strings.Contains(withoutSentiment, `"sentiment"`) {
		t.Error("did not expect sentiment field in the output contract")
	}
}
