// Package intent decides whether an inbound message starts a new process,
// continues the active one, or matches nothing (deferring to the fallback).
package intent

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/logging"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/ports"
)

// Match is a successful new-process detection.
type Match struct {
	ProcessID  string
	Trigger    domain.Trigger
	Confidence float64
	Extracted  map[string]any
}

// registeredTrigger is a trigger with its compiled patterns and stable
// registration sequence for tie breaking.
type registeredTrigger struct {
	processID string
	trigger   domain.Trigger
	patterns  []*regexp.Regexp
	seq       int
}

// Detector scans registered triggers and recognizes continuations of an
// active process.
type Detector struct {
	mu         sync.RWMutex
	triggers   []registeredTrigger
	seq        int
	classifier ports.IntentClassifier
	extractor  ports.EntityExtractor
	logger     *slog.Logger
}

// DetectorOption configures the Detector.
type DetectorOption func(*Detector)

// WithClassifier plugs in a lightweight classifier for intent triggers.
func WithClassifier(c ports.IntentClassifier) DetectorOption {
	return func(d *Detector) { d.classifier = c }
}

// WithExtractor overrides the default entity extractor.
func WithExtractor(e ports.EntityExtractor) DetectorOption {
	return func(d *Detector) { d.extractor = e }
}

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) DetectorOption {
	return func(d *Detector) { d.logger = logger }
}

// NewDetector creates an empty detector.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{
		extractor: ports.ExtractorFunc(ExtractEntities),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RegisterTriggers compiles and indexes a process's triggers. Invalid regex
// patterns fail registration.
func (d *Detector) RegisterTriggers(processID string, triggers []domain.Trigger) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, t := range triggers {
		rt := registeredTrigger{processID: processID, trigger: t, seq: d.seq}
		d.seq++
		for _, p := range t.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return fmt.Errorf("process %s: invalid trigger pattern %q: %w", processID, p, err)
			}
			rt.patterns = append(rt.patterns, re)
		}
		d.triggers = append(d.triggers, rt)
	}

	// Descending priority, registration order within equal priority.
	sort.SliceStable(d.triggers, func(i, j int) bool {
		if d.triggers[i].trigger.Priority != d.triggers[j].trigger.Priority {
			return d.triggers[i].trigger.Priority > d.triggers[j].trigger.Priority
		}
		return d.triggers[i].seq < d.triggers[j].seq
	})
	return nil
}

// Detect scans all triggers in priority order and returns the first match,
// or nil when no process claims the message.
func (d *Detector) Detect(ctx context.Context, message string, user domain.UserContext) *Match {
	d.mu.RLock()
	triggers := d.triggers
	d.mu.RUnlock()

	trimmed := strings.TrimSpace(message)
	lowered := strings.ToLower(trimmed)

	for _, rt := range triggers {
		if rt.trigger.Condition != nil && !rt.trigger.Condition(user) {
			continue
		}

		confidence := 0.0
		matched := false

		switch rt.trigger.Kind {
		case domain.TriggerPattern:
			for _, re := range rt.patterns {
				if re.MatchString(trimmed) {
					matched = true
					confidence = 0.9
					break
				}
			}
		case domain.TriggerKeyword:
			for _, kw := range rt.trigger.Keywords {
				if strings.Contains(lowered, strings.ToLower(kw)) {
					matched = true
					confidence = 0.7
					break
				}
			}
		case domain.TriggerCommand:
			first := trimmed
			if i := strings.IndexAny(first, " \t"); i >= 0 {
				first = first[:i]
			}
			for _, cmd := range rt.trigger.Commands {
				if strings.EqualFold(first, cmd) {
					matched = true
					confidence = 1.0
					break
				}
			}
		case domain.TriggerIntent:
			if d.classifier == nil {
				continue
			}
			label, conf, err := d.classifier.Classify(ctx, trimmed)
			if err != nil {
				d.logger.Warn("intent classifier failed", "err", err)
				continue
			}
			for _, want := range rt.trigger.Intents {
				if strings.EqualFold(label, want) {
					matched = true
					confidence = conf
					break
				}
			}
		}

		if matched {
			d.logger.Debug("trigger matched",
				"process_id", rt.processID,
				"kind", rt.trigger.Kind,
				"priority", rt.trigger.Priority,
			)
			return &Match{
				ProcessID:  rt.processID,
				Trigger:    rt.trigger,
				Confidence: confidence,
				Extracted:  d.extractor.Extract(message),
			}
		}
	}
	return nil
}
