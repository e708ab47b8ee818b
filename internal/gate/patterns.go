package gate

import (
	"fmt"
	"regexp"
	"strings"

	"statwire/internal/snapshot"
)

// forbiddenPhrases are interpretive or speculative constructions that
// never belong in drafted text. Matched case-insensitively as
// substrings; any hit is a hard fail.
var forbiddenPhrases = []string{
	"informs policy",
	"suggests implications",
	"indicates that",
	"implies",
	"points to",
	"signals that",
}

type namedPattern struct {
	name string
	re   *regexp.Regexp
}

// hardPatterns block publication outright.
var hardPatterns = []namedPattern{
	{"em_dash", regexp.MustCompile("—")},
	{"semicolon", regexp.MustCompile(";")},
	{"exclamation_mark", regexp.MustCompile("!")},
}

// softPatterns are stylistic warnings only; they never block.
var softPatterns = []namedPattern{
	{"however", regexp.MustCompile(`(?i)\bhowever\b`)},
	{"moreover", regexp.MustCompile(`(?i)\bmoreover\b`)},
	{"furthermore", regexp.MustCompile(`(?i)\bfurthermore\b`)},
	{"additionally", regexp.MustCompile(`(?i)\badditionally\b`)},
	{"arguably", regexp.MustCompile(`(?i)\barguably\b`)},
	{"perhaps", regexp.MustCompile(`(?i)\bperhaps\b`)},
	{"somewhat", regexp.MustCompile(`(?i)\bsomewhat\b`)},
	{"appears_to", regexp.MustCompile(`(?i)\bappears to\b`)},
	{"seems_to", regexp.MustCompile(`(?i)\bseems to\b`)},
	{"it_is_worth_noting", regexp.MustCompile(`(?i)\bit is worth noting\b`)},
}

// auditedFields returns every editorial text field the linter scans.
func auditedFields(doc snapshot.Document) map[string]string {
	return map[string]string{
		"headline":     doc.Headline,
		"editorial":    doc.Editorial,
		"summary":      doc.Summary,
		"what_changed": doc.WhatChanged,
	}
}

// draftedFields returns only AI-drafted prose, where speculative
// phrasing could originate.
func draftedFields(doc snapshot.Document) map[string]string {
	return map[string]string{
		"headline":  doc.Headline,
		"editorial": doc.Editorial,
	}
}

func scanForbiddenPhrases(doc snapshot.Document) []Finding {
	var findings []Finding
	for field, text := range draftedFields(doc) {
		lower := strings.ToLower(text)
		for _, phrase := range forbiddenPhrases {
			if strings.Contains(lower, phrase) {
				findings = append(findings, Finding{
					Check:   "forbidden_phrase",
					Field:   field,
					Pattern: phrase,
					Detail:  fmt.Sprintf("forbidden phrase %q found in %s", phrase, field),
				})
			}
		}
	}
	return findings
}

func lintPatterns(doc snapshot.Document) (hard, soft []Finding) {
	for field, text := range auditedFields(doc) {
		for _, pattern := range hardPatterns {
			if n := len(pattern.re.FindAllStringIndex(text, -1)); n > 0 {
				hard = append(hard, Finding{
					Check:   "banned_pattern",
					Field:   field,
					Pattern: pattern.name,
					Count:   n,
					Detail:  fmt.Sprintf("%s occurs %d time(s) in %s", pattern.name, n, field),
				})
			}
		}
		for _, pattern := range softPatterns {
			if n := len(pattern.re.FindAllStringIndex(text, -1)); n > 0 {
				soft = append(soft, Finding{
					Check:   "soft_pattern",
					Field:   field,
					Pattern: pattern.name,
					Count:   n,
					Detail:  fmt.Sprintf("%s occurs %d time(s) in %s", pattern.name, n, field),
				})
			}
		}
	}
	return hard, soft
}
