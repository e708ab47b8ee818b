package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"statwire/internal/gate"
	"statwire/internal/snapshot"
)

const defaultModel = "gemini-2.0-flash"

const draftSystemPrompt = `You are a statistics bureau copy editor drafting a data release.
You receive a JSON context with explicit level, delta, and average fields.

Rules:
- Plain declarative sentences in the past or present tense
- Use only numbers that appear in the context, exactly as given
- Never interpret, speculate, or discuss policy
- No em-dashes, no semicolons, no exclamation marks
- The headline is one sentence without a terminal period

Output as JSON only, no other text:
{
  "headline": "one-line headline",
  "editorial": "two to four sentences of factual narrative"
}`

const auditSystemPrompt = `You are a statistics bureau fact checker. You receive a JSON
document containing prose fields and the pools of published numbers
(levels, deltas, twelve-month averages).

Check every number asserted in the prose: level phrasing must match a
level, change phrasing must match a delta, average phrasing must match
an average. Vocabulary numbers (dates, years) are exempt.

Output as JSON only, no other text:
{
  "status": "PASS" or "FAIL",
  "reason": "one sentence",
  "flags": ["each mismatched number"]
}`

// GeminiOptions parameterise the Gemini collaborator.
type GeminiOptions struct {
	APIKey      string
	Model       string
	Temperature float64
}

// Gemini drafts and audits release text through the Gemini API.
type Gemini struct {
	opts   GeminiOptions
	logger zerolog.Logger
}

// NewGemini constructs the Gemini collaborator.
func NewGemini(opts GeminiOptions, logger zerolog.Logger) *Gemini {
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	return &Gemini{opts: opts, logger: logger.With().Str("component", "gemini").Logger()}
}

// Draft requests headline and editorial text for the given context.
// A missing credential or malformed response is an error, never
// silently ignored.
func (g *Gemini) Draft(ctx context.Context, dc Context) (Draft, error) {
	payload, err := json.Marshal(dc)
	if err != nil {
		return Draft{}, fmt.Errorf("marshal draft context: %w", err)
	}

	text, err := g.generate(ctx, draftSystemPrompt, string(payload))
	if err != nil {
		return Draft{}, err
	}

	draft, err := parseDraft(text)
	if err != nil {
		return Draft{}, err
	}

	g.logger.Info().Str("dataset", dc.Dataset).Str("period", dc.ReferencePeriod).Msg("draft generated")
	return draft, nil
}

// Audit runs the numeric-consistency check over a candidate document.
func (g *Gemini) Audit(ctx context.Context, doc snapshot.Document) (gate.AuditVerdict, error) {
	payload, err := json.Marshal(auditContext(doc))
	if err != nil {
		return gate.AuditVerdict{}, fmt.Errorf("marshal audit context: %w", err)
	}

	text, err := g.generate(ctx, auditSystemPrompt, string(payload))
	if err != nil {
		return gate.AuditVerdict{}, err
	}

	return parseVerdict(text)
}

func (g *Gemini) generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if g.opts.APIKey == "" {
		return "", errors.New("gemini api key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	temperature := float32(g.opts.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(temperature),
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	result, err := client.Models.GenerateContent(ctx, g.opts.Model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
}

func parseDraft(text string) (Draft, error) {
	repaired, err := jsonrepair.RepairJSON(text)
	if err != nil {
		return Draft{}, fmt.Errorf("repair draft response: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal([]byte(repaired), &draft); err != nil {
		return Draft{}, fmt.Errorf("decode draft response: %w", err)
	}
	if strings.TrimSpace(draft.Headline) == "" || strings.TrimSpace(draft.Editorial) == "" {
		return Draft{}, errors.New("draft response missing headline or editorial")
	}
	return draft, nil
}

func parseVerdict(text string) (gate.AuditVerdict, error) {
	repaired, err := jsonrepair.RepairJSON(text)
	if err != nil {
		return gate.AuditVerdict{}, fmt.Errorf("repair audit response: %w", err)
	}

	var verdict gate.AuditVerdict
	if err := json.Unmarshal([]byte(repaired), &verdict); err != nil {
		return gate.AuditVerdict{}, fmt.Errorf("decode audit response: %w", err)
	}
	switch verdict.Status {
	case gate.StatusPass, gate.StatusFail:
		return verdict, nil
	default:
		return gate.AuditVerdict{}, fmt.Errorf("audit response carries unknown status %q", verdict.Status)
	}
}

// auditContext bundles the prose under review with the pools of
// numbers it must be consistent with.
func auditContext(doc snapshot.Document) map[string]any {
	levels := make(map[string]float64, len(doc.Metrics))
	for key, m := range doc.Metrics {
		levels[key] = m.DisplayValue
	}
	deltas := make(map[string]float64, len(doc.Deltas))
	for key, d := range doc.Deltas {
		deltas[key] = d.DisplayValue
	}
	return map[string]any{
		"headline":              doc.Headline,
		"editorial":             doc.Editorial,
		"summary":               doc.Summary,
		"what_changed":          doc.WhatChanged,
		"levels":                levels,
		"deltas":                deltas,
		"twelve_month_averages": doc.Comparisons.TwelveMonthAverage,
	}
}

var (
	_ Drafter      = (*Gemini)(nil)
	_ gate.Auditor = (*Gemini)(nil)
)
