package main

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// marker flags every replaced word as bot output
const marker = "*"

func (s Suffixed) replace(ending string) string {
	// Caser keeps state, so one per call
	return s.Prefix + cases.Lower(language.Und).String(ending)
}

func (Suffixed) kind() string { return "suffixed" }

func (p Plain) replace(string) string {
	return p.Replacement
}

func (Plain) kind() string { return "plain" }

// ending strips the first cut match from word.
// A word the cutter does not match is returned as is.
func (r MatchRule) ending(word string) string {
	loc := r.Cut.FindStringIndex(word)
	if loc == nil {
		return word
	}
	return word[:loc[0]] + word[loc[1]:]
}

// apply rewrites every match of the rule in text and joins the results
func (r MatchRule) apply(text string) string {
	result := ""
	for _, word := range r.Word.FindAllString(text, -1) {
		result = foldJoin(result, r.Replacement.replace(r.ending(word))+marker)
	}
	return result
}

// Transform runs every rule of the table against text, in table order,
// and joins everything found. An empty result means nothing to reply.
//
// Rules always see the original text, never the output of earlier rules.
func Transform(text string, table *RuleTable) string {
	if table == nil {
		return ""
	}

	result := ""
	for _, rule := range table.rules {
		result = foldJoin(result, rule.apply(text))
	}
	return result
}

// transformMessage normalizes chat text to NFC before Transform, so a
// decomposed letter still counts as one word character.
func transformMessage(text string, table *RuleTable) string {
	return Transform(norm.NFC.String(text), table)
}

// foldJoin appends next to acc with a ", " separator,
// unless either side is empty.
func foldJoin(acc, next string) string {
	if acc == "" || next == "" {
		return acc + next
	}
	return acc + ", " + next
}
