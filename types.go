package main

import (
	"regexp"
	"time"
)

// ReplaceOption decides how a matched word is rebuilt from its suffix.
// Implemented by Suffixed and Plain only.
type ReplaceOption interface {
	replace(ending string) string
	kind() string
}

// Suffixed rebuilds the word as Prefix + lowercase(ending)
type Suffixed struct {
	Prefix string
}

// Plain always yields Replacement, the ending is dropped
type Plain struct {
	Replacement string
}

// MatchRule couples a word detector, a stem cutter and a replacement policy
type MatchRule struct {
	Word        *regexp.Regexp // finds stem plus trailing word characters
	Cut         *regexp.Regexp // strips the stem from a found word
	Replacement ReplaceOption
}

// RuleSpec is the uncompiled form of a MatchRule, as written in a rules file.
// Exactly one of Prefix and Replacement must be set.
type RuleSpec struct {
	Word        string  `yaml:"word" json:"word"`
	Cut         string  `yaml:"cut" json:"cut"`
	Prefix      *string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Replacement *string `yaml:"replacement,omitempty" json:"replacement,omitempty"`
}

// RuleFile is the top level of a YAML rules file
type RuleFile struct {
	Rules []RuleSpec `yaml:"rules"`
}

// RuleTable is an ordered, read-only set of rules.
// It is never mutated after CompileRules returns it.
type RuleTable struct {
	rules    []MatchRule
	source   string
	loadedAt time.Time
}

// Request/Response structures
type TextRequest struct {
	Text string `json:"text" form:"text" query:"text"`
}

type TransformResponse struct {
	Result string `json:"result"`
	Reply  bool   `json:"reply"`
}

type PraiseResponse struct {
	Praise bool `json:"praise"`
}

type RuleInfo struct {
	Word        string `json:"word"`
	Cut         string `json:"cut"`
	Kind        string `json:"kind"`
	Replacement string `json:"replacement"`
}

type RulesResponse struct {
	Source   string     `json:"source"`
	LoadedAt time.Time  `json:"loaded_at"`
	Rules    []RuleInfo `json:"rules"`
}

type ReloadResponse struct {
	Message    string    `json:"message"`
	Rules      int       `json:"rules"`
	ReloadedAt time.Time `json:"reloaded_at"`
}
