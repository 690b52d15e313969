package extraction

import (
	"strings"

	"go.uber.org/zap"
)

// Similarity thresholds over the smaller of the two token sets.
const (
	titleOverlapRatio = 0.6
	descOverlapRatio  = 0.5
)

// deduplicateTasks removes near-duplicate tasks, keeping the first
// occurrence. Each candidate is compared against every already-accepted
// task; quadratic, but the list is capped at a handful of items by prompt
// guidance. Similarity is not transitive, so a chain of near-duplicates can
// in theory leave survivors that resemble each other.
func (e *Extractor) deduplicateTasks(tasks []ExtractedTask) []ExtractedTask {
	if len(tasks) <= 1 {
		return tasks
	}

	unique := make([]ExtractedTask, 0, len(tasks))
	for _, task := range tasks {
		duplicate := false
		for _, existing := range unique {
			if areTasksSimilar(task.Title, existing.Title, task.Description, existing.Description) {
				e.logger.Info("removing duplicate task",
					zap.String("title", task.Title),
					zap.String("similar_to", existing.Title),
				)
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, task)
		}
	}
	return unique
}

// areTasksSimilar judges two tasks as duplicates when their titles share at
// least 60% of the smaller title's unique tokens, or failing that, their
// descriptions share at least 50%. Two empty titles (or descriptions) have
// an overlap of 0 against a threshold of 0 and are therefore always judged
// similar; inherited behavior, kept deliberately.
func areTasksSimilar(title1, title2, desc1, desc2 string) bool {
	if overlapMeets(tokenSet(title1), tokenSet(title2), titleOverlapRatio) {
		return true
	}
	return overlapMeets(tokenSet(desc1), tokenSet(desc2), descOverlapRatio)
}

// tokenSet lower-cases the text and returns its unique whitespace-delimited
// tokens.
func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = struct{}{}
	}
	return set
}

// overlapMeets reports whether the intersection of the two sets reaches
// ratio times the size of the smaller set.
func overlapMeets(a, b map[string]struct{}, ratio float64) bool {
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}

	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}

	return float64(intersection) >= ratio*float64(smaller)
}
