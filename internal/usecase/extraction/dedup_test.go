package extraction

import (
	"testing"

	"github.com/ashboi005/insight-ai/internal/domain/entities"
)

func task(title, desc string) ExtractedTask {
	return ExtractedTask{
		Title:        title,
		Description:  desc,
		Priority:     entities.TaskPriorityMedium,
		AssignedTeam: entities.TeamGeneral,
	}
}

func TestAreTasksSimilar(t *testing.T) {
	tests := []struct {
		name           string
		title1, title2 string
		desc1, desc2   string
		want           bool
	}{
		{
			// Titles share all 4 of the smaller set's tokens (threshold
			// 0.6*4 = 2.4).
			name:   "similar titles collapse",
			title1: "Set up Office Network",
			title2: "Set up office network equipment",
			desc1:  "Configure routers",
			desc2:  "Complete the networking work",
			want:   true,
		},
		{
			// Title overlap alone misses (2 of 4 tokens < 2.4) but the
			// descriptions push it over the 0.5 threshold.
			name:   "similar descriptions rescue dissimilar titles",
			title1: "Set up Office Network",
			title2: "Finalize Office Network Setup",
			desc1:  "Complete the office network setup work",
			desc2:  "Complete the office network setup tasks",
			want:   true,
		},
		{
			name:   "distinct tasks survive",
			title1: "Order new laptops for design team",
			title2: "Schedule Q3 budget review",
			desc1:  "Procure hardware for designers",
			desc2:  "Coordinate with finance leadership",
			want:   false,
		},
		{
			name:   "similar descriptions collapse",
			title1: "Hardware procurement",
			title2: "Equipment order",
			desc1:  "Order new monitors and docks for the team",
			desc2:  "Order new monitors and docks before Friday",
			want:   true,
		},
		{
			// Inherited quirk: empty token sets give min 0, threshold 0,
			// and 0 >= 0 holds.
			name:   "empty titles and descriptions are similar",
			title1: "",
			title2: "",
			desc1:  "",
			desc2:  "",
			want:   true,
		},
		{
			name:   "case insensitive title comparison",
			title1: "UPDATE EMPLOYEE RECORDS",
			title2: "update employee records today",
			desc1:  "a",
			desc2:  "b",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := areTasksSimilar(tt.title1, tt.title2, tt.desc1, tt.desc2)
			if got != tt.want {
				t.Errorf("areTasksSimilar(%q, %q) = %v, want %v", tt.title1, tt.title2, got, tt.want)
			}
		})
	}
}

func TestDeduplicateTasks_FirstOccurrenceSurvives(t *testing.T) {
	e := newTestExtractor(nil)
	tasks := []ExtractedTask{
		task("Set up Office Network", "Configure the new routers"),
		task("Set up the office network", "Wrap up remaining cabling"),
		task("Schedule Q3 budget review", "Coordinate with finance"),
	}

	unique := e.deduplicateTasks(tasks)
	if len(unique) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(unique))
	}
	if unique[0].Title != "Set up Office Network" {
		t.Errorf("first occurrence should survive, got %q", unique[0].Title)
	}
	if unique[1].Title != "Schedule Q3 budget review" {
		t.Errorf("distinct task should survive, got %q", unique[1].Title)
	}
}

func TestDeduplicateTasks_EmptyFieldQuirkDropsSecond(t *testing.T) {
	e := newTestExtractor(nil)
	unique := e.deduplicateTasks([]ExtractedTask{task("", ""), task("", "")})
	if len(unique) != 1 {
		t.Fatalf("expected second empty task dropped, got %d tasks", len(unique))
	}
}

func TestDeduplicateTasks_SingleTaskUntouched(t *testing.T) {
	e := newTestExtractor(nil)
	tasks := []ExtractedTask{task("Only one", "desc")}
	if got := e.deduplicateTasks(tasks); len(got) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got))
	}
}
