package extraction

import (
	"fmt"
	"strings"

	"github.com/ashboi005/insight-ai/internal/domain/entities"
)

// Options controls which optional outputs the prompt requests. The
// interpreter always reads the superset of fields and defaults absent ones,
// so one pipeline serves every combination.
type Options struct {
	IncludeSentiment bool
}

// DefaultOptions requests everything.
func DefaultOptions() Options {
	return Options{IncludeSentiment: true}
}

// Placeholder values substituted when the model omits a top-level field.
const (
	defaultSummary   = "No summary generated"
	defaultSentiment = "No sentiment analysis available"
	defaultTaskTitle = "Untitled Task"
)

// BuildPrompt constructs the instruction sent to the model. The closed team
// and priority vocabularies are spelled out verbatim so the model is
// constrained to recognized labels; the interpreter still never trusts it.
func BuildPrompt(transcriptContent, transcriptTitle string, opts Options) string {
	teams := make([]string, len(entities.AllTeams))
	for i, t := range entities.AllTeams {
		teams[i] = string(t)
	}
	teamsStr := strings.Join(teams, ", ")

	var b strings.Builder

	fmt.Fprintf(&b, `You are an AI assistant that analyzes meeting transcripts to extract actionable tasks and create summaries.

MEETING TITLE: %s

MEETING TRANSCRIPT:
%s

`, transcriptTitle, transcriptContent)

	b.WriteString(`**TASK 1: GENERATE SUMMARY**
Create a concise, well-structured summary of the meeting that includes:
- Key discussion points
- Important decisions made
- Next steps identified
- Action items overview
- Any deadlines or timelines mentioned

**TASK 2: EXTRACT ACTION ITEMS**
Extract actionable tasks from the meeting. Follow this EXACT process:

STEP 1: Identify all unique action items mentioned in the transcript
STEP 2: Group similar or related actions together
STEP 3: Create ONE consolidated task per group

For each final task:
1. **Title**: Create a clear, actionable title (max 100 characters)
2. **Description**: Provide a detailed description of what needs to be done
3. **Priority**: Assign priority as "HIGH", "MEDIUM", or "LOW" based on urgency and importance
`)
	fmt.Fprintf(&b, "4. **Team Assignment**: Assign to the most appropriate team from: %s\n", teamsStr)
	b.WriteString(`5. **Tags**: Add relevant tags (optional, comma-separated)

**MANDATORY DEDUPLICATION RULES:**
- NEVER create separate tasks for the same underlying action
- If multiple people mention the same task, create only ONE task
- If a task has multiple subtasks, combine them into ONE comprehensive task
- Before finalizing, ask yourself: "Could any two tasks be combined or are they redundant?"
- Maximum 5-7 tasks total - consolidate aggressively

`)

	if opts.IncludeSentiment {
		b.WriteString(`**TASK 3: SENTIMENT ANALYSIS**
Analyze the overall sentiment and tone of the meeting. Consider:
- Overall mood (positive, neutral, negative)
- Team dynamics and collaboration level
- Stress or urgency indicators
- Confidence in decisions made

Provide a brief sentiment summary (2-3 sentences) with an overall sentiment classification: "positive", "neutral", or "negative".

`)
	}

	b.WriteString(`**Team Assignment Guidelines:**
- Sales: Revenue, deals, client relationships, sales targets
- Devs: Technical development, coding, infrastructure, bugs
- Marketing: Campaigns, content, branding, social media
- Design: UI/UX, graphics, visual design, prototypes
- Operations: Process improvement, logistics, day-to-day operations
- Finance: Budget, financial planning, cost analysis
- HR: Hiring, employee relations, training, policies
- General: Cross-functional, administrative, or unclear assignments

**Priority Guidelines:**
- High: Urgent, blocking, deadline-driven, critical business impact
- Medium: Important but not urgent, planned work
- Low: Nice to have, future considerations, minor improvements

Return your response in this EXACT JSON format:
{
  "summary": "Your detailed meeting summary here...",
`)
	if opts.IncludeSentiment {
		b.WriteString(`  "sentiment": "Your sentiment analysis summary here with classification: positive/neutral/negative",
`)
	}
	fmt.Fprintf(&b, `  "tasks": [
    {
      "title": "Task title here",
      "description": "Detailed description of the task",
      "priority": "HIGH|MEDIUM|LOW",
      "assigned_team": "%s",
      "tags": "optional, comma, separated, tags"
    }
  ]
}

Make sure to:
- Create a comprehensive but concise summary
- Extract only actionable items (not just discussion points)
- Assign appropriate teams based on task content
- Return valid JSON format
- Include 3-7 UNIQUE tasks maximum - prioritize consolidation over quantity
- FINAL CHECK: Review each task and eliminate any that are similar or redundant
`, strings.Join(teams, "|"))

	return b.String()
}
