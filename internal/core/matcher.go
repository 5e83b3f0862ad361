package core

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Match returns the value of the first rule with a pattern contained in the
// description. Matching is case-insensitive substring containment.
//
// Rules are tried in order and the first hit wins, so an early broad rule
// shadows any later, more specific rule with overlapping patterns.
// Descriptions that are empty or not text never match. The returned value
// keeps the kind of the configuration cell, so a rule with an empty value
// matches and yields Null.
func Match(description Value, rules []Rule) (Value, bool) {
	text, ok := description.AsText()
	if !ok {
		return Null(), false
	}
	text = foldText(text)

	for _, rule := range rules {
		for _, pattern := range rule.Patterns {
			if strings.Contains(text, pattern) {
				return rule.Value, true
			}
		}
	}
	return Null(), false
}

// foldText is the normalization shared by patterns and descriptions.
func foldText(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
