package main

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// wordChars is the continuation set that extends a stem to a full word.
// Go's \w is ASCII only, so Cyrillic letters are added explicitly.
const wordChars = `[\w\p{Cyrillic}]*`

const defaultSource = "builtin"

func strPtr(s string) *string { return &s }

// DefaultRuleSpecs returns the built-in rule set.
// Order matters: it is the order fragments appear in a reply.
func DefaultRuleSpecs() []RuleSpec {
	return []RuleSpec{
		{
			Word:   `(?i)питерск` + wordChars,
			Cut:    `(?i)питерск`,
			Prefix: strPtr("Пидорск"),
		},
		{
			// no continuation: plural forms belong to the next rule
			Word:        `(?i)питерец`,
			Cut:         `(?i)питерец`,
			Replacement: strPtr("Пидор"),
		},
		{
			Word:   `(?i)питерц` + wordChars,
			Cut:    `(?i)питерц`,
			Prefix: strPtr("Пидор"),
		},
	}
}

// CompileRules validates and compiles specs into an immutable RuleTable.
// The error names the rule index and the pattern that failed.
func CompileRules(specs []RuleSpec, source string) (*RuleTable, error) {
	if len(specs) == 0 {
		return nil, errors.New("rule set is empty")
	}

	rules := make([]MatchRule, 0, len(specs))
	for i, spec := range specs {
		rule, err := compileRule(spec)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		rules = append(rules, rule)
	}

	return &RuleTable{
		rules:    rules,
		source:   source,
		loadedAt: time.Now(),
	}, nil
}

func compileRule(spec RuleSpec) (MatchRule, error) {
	var rule MatchRule

	if spec.Word == "" || spec.Cut == "" {
		return rule, errors.New("word and cut patterns are required")
	}

	switch {
	case spec.Prefix != nil && spec.Replacement != nil:
		return rule, errors.New("prefix and replacement are mutually exclusive")
	case spec.Prefix != nil:
		rule.Replacement = Suffixed{Prefix: *spec.Prefix}
	case spec.Replacement != nil:
		rule.Replacement = Plain{Replacement: *spec.Replacement}
	default:
		return rule, errors.New("one of prefix or replacement is required")
	}

	word, err := regexp.Compile(spec.Word)
	if err != nil {
		return rule, fmt.Errorf("invalid word pattern %q: %w", spec.Word, err)
	}
	cut, err := regexp.Compile(spec.Cut)
	if err != nil {
		return rule, fmt.Errorf("invalid cut pattern %q: %w", spec.Cut, err)
	}

	rule.Word = word
	rule.Cut = cut
	return rule, nil
}

// DefaultRuleTable compiles the built-in rules
func DefaultRuleTable() (*RuleTable, error) {
	return CompileRules(DefaultRuleSpecs(), defaultSource)
}

// LoadRuleSpecs reads rule specs from a YAML rules file
func LoadRuleSpecs(path string) ([]RuleSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	return file.Rules, nil
}

// LoadRuleTable reads and compiles a rules file
func LoadRuleTable(path string) (*RuleTable, error) {
	specs, err := LoadRuleSpecs(path)
	if err != nil {
		return nil, err
	}
	return CompileRules(specs, path)
}

// Rules returns a copy of the rules in evaluation order
func (t *RuleTable) Rules() []MatchRule {
	return slices.Clone(t.rules)
}

func (t *RuleTable) Len() int {
	return len(t.rules)
}

func (t *RuleTable) Source() string {
	return t.source
}

func (t *RuleTable) LoadedAt() time.Time {
	return t.loadedAt
}

// Info describes the loaded rules for the admin API
func (t *RuleTable) Info() []RuleInfo {
	infos := make([]RuleInfo, 0, len(t.rules))
	for _, rule := range t.rules {
		info := RuleInfo{
			Word: rule.Word.String(),
			Cut:  rule.Cut.String(),
			Kind: rule.Replacement.kind(),
		}
		switch r := rule.Replacement.(type) {
		case Suffixed:
			info.Replacement = r.Prefix
		case Plain:
			info.Replacement = r.Replacement
		}
		infos = append(infos, info)
	}
	return infos
}
