package editorial

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"statwire/internal/metric"
)

// FallbackSentence is used whenever a composed field would otherwise
// be empty.
const FallbackSentence = "No material changes were recorded in this release."

// TemplateKind selects which data a sentence template consumes.
type TemplateKind string

const (
	// TemplateDelta sentences report a period-over-period change and
	// are suppressed when the delta is absent or rounds to zero.
	TemplateDelta TemplateKind = "delta"
	// TemplateLevel sentences report the current level and are
	// suppressed when the level is absent.
	TemplateLevel TemplateKind = "level"
	// TemplateDual sentences prefer the delta form and fall back to
	// the level form.
	TemplateDual TemplateKind = "dual"
)

// Template is one fixed-shape sentence bound to a metric key. The
// wording carries exactly one numeric slot; verb choice follows the
// sign of the delta.
type Template struct {
	MetricKey string       `mapstructure:"metric_key"`
	Kind      TemplateKind `mapstructure:"kind"`
	Subject   string       `mapstructure:"subject"`
}

// Engine assembles summary and what-changed text from the fixed
// template catalog. It never writes the signal sentence; that is
// injected separately from the signal table.
type Engine struct {
	templates []Template
	logger    zerolog.Logger
}

// NewEngine builds a sentence engine over a template catalog.
func NewEngine(templates []Template, logger zerolog.Logger) *Engine {
	return &Engine{templates: templates, logger: logger.With().Str("component", "sentences").Logger()}
}

// Summary composes the level-oriented sentences (level and dual
// templates), joined by single spaces.
func (e *Engine) Summary(metrics, deltas map[string]metric.Structured) string {
	var sentences []string
	for _, tpl := range e.templates {
		if tpl.Kind != TemplateLevel && tpl.Kind != TemplateDual {
			continue
		}
		if s, ok := e.render(tpl, metrics, deltas); ok {
			sentences = append(sentences, s)
		}
	}
	return join(sentences)
}

// WhatChanged composes the delta-oriented sentences, joined by single
// spaces.
func (e *Engine) WhatChanged(metrics, deltas map[string]metric.Structured) string {
	var sentences []string
	for _, tpl := range e.templates {
		if tpl.Kind != TemplateDelta {
			continue
		}
		if s, ok := e.render(tpl, metrics, deltas); ok {
			sentences = append(sentences, s)
		}
	}
	return join(sentences)
}

func join(sentences []string) string {
	if len(sentences) == 0 {
		return FallbackSentence
	}
	return strings.Join(sentences, " ")
}

func (e *Engine) render(tpl Template, metrics, deltas map[string]metric.Structured) (string, bool) {
	switch tpl.Kind {
	case TemplateDelta:
		return e.deltaSentence(tpl, deltas)
	case TemplateLevel:
		return e.levelSentence(tpl, metrics)
	case TemplateDual:
		if s, ok := e.deltaSentence(tpl, deltas); ok {
			return s, true
		}
		return e.levelSentence(tpl, metrics)
	default:
		e.logger.Warn().Str("metric", tpl.MetricKey).Str("kind", string(tpl.Kind)).Msg("unknown template kind; sentence dropped")
		return "", false
	}
}

func (e *Engine) deltaSentence(tpl Template, deltas map[string]metric.Structured) (string, bool) {
	delta, ok := deltas[tpl.MetricKey]
	if !ok {
		return "", false
	}
	if delta.DisplayValue == 0 {
		// A change that rounds to zero at display precision is
		// silence, not a sentence.
		return "", false
	}

	verb := "rose by"
	if delta.DisplayValue < 0 {
		verb = "fell by"
	}
	amount := formatValue(math.Abs(delta.DisplayValue), delta.Precision)
	return fmt.Sprintf("%s %s %s%s.", tpl.Subject, verb, amount, deltaUnitSuffix(delta.Unit)), true
}

func (e *Engine) levelSentence(tpl Template, metrics map[string]metric.Structured) (string, bool) {
	level, ok := metrics[tpl.MetricKey]
	if !ok {
		return "", false
	}
	amount := formatValue(level.DisplayValue, level.Precision)
	return fmt.Sprintf("%s stands at %s%s.", tpl.Subject, amount, levelUnitSuffix(level.Unit)), true
}

func formatValue(v float64, precision int32) string {
	return strconv.FormatFloat(v, 'f', int(precision), 64)
}

func levelUnitSuffix(u metric.Unit) string {
	switch u {
	case metric.UnitPercent:
		return " percent"
	case metric.UnitThousands:
		return " thousand"
	case metric.UnitDollars:
		return " dollars"
	case metric.UnitIndex:
		return ""
	default:
		return ""
	}
}

func deltaUnitSuffix(u metric.Unit) string {
	switch u {
	case metric.UnitPercent:
		return " percentage points"
	case metric.UnitThousands:
		return " thousand"
	case metric.UnitDollars:
		return " dollars"
	case metric.UnitIndex:
		return " index points"
	default:
		return ""
	}
}
