package triage

import (
	"math/rand/v2"
	"strings"
)

type priorityRule struct {
	keywords []string
	priority Priority
}

// priorityRules are evaluated top to bottom and the first rule with a matching keyword wins.
// Keywords are lower case and matched as substrings of the lower-cased ticket text.
var priorityRules = []priorityRule{
	{keywords: []string{"urgent", "blocked", "cannot log in", "won't boot"}, priority: P1},
	{keywords: []string{"fails", "error", "stuck", "denied"}, priority: P2},
	{keywords: []string{"slow", "intermittent"}, priority: P3},
}

// fallbackPriorities is sampled uniformly when no rule matches.
var fallbackPriorities = []Priority{P3, P4}

// ClassifyPriority infers the priority of a ticket from its text.
// The category is accepted for future category-specific rules and is currently unused. rng is
// only consumed when no keyword rule matches.
func ClassifyPriority(_ Category, text string, rng *rand.Rand) Priority {
	t := strings.ToLower(text)
	for _, rule := range priorityRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.priority
			}
		}
	}
	return fallbackPriorities[rng.IntN(len(fallbackPriorities))]
}
