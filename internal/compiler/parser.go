// Package compiler turns YAML process-definition documents into validated
// domain.ProcessDefinition values. Definitions authored as data carry their
// conditions in the textual mini-language; typed hooks and predicate
// closures are only available to definitions built in Go.
package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

// rawDocument mirrors the YAML layout before step decoding.
type rawDocument struct {
	ID          string               `mapstructure:"id"`
	Name        string               `mapstructure:"name"`
	Description string               `mapstructure:"description"`
	Version     string               `mapstructure:"version"`
	InitialStep string               `mapstructure:"initial_step"`
	Config      domain.ProcessConfig `mapstructure:"config"`
	Slots       []domain.ProcessSlot `mapstructure:"slots"`
	Triggers    []domain.Trigger     `mapstructure:"triggers"`
	Steps       []map[string]any     `mapstructure:"steps"`
}

// conditionHook decodes plain strings into the textual condition form.
func conditionHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to == reflect.TypeOf(domain.Condition{}) && from.Kind() == reflect.String {
		return domain.Condition{Expr: data.(string)}, nil
	}
	return data, nil
}

func newDecoder(target any) (*mapstructure.Decoder, error) {
	return mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: target,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			conditionHook,
		),
		ErrorUnused: false,
	})
}

func decode(source map[string]any, target any) error {
	dec, err := newDecoder(target)
	if err != nil {
		return err
	}
	return dec.Decode(source)
}

// Parse reads one YAML document into a validated process definition.
func Parse(data []byte) (*domain.ProcessDefinition, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	var raw rawDocument
	if err := decode(doc, &raw); err != nil {
		return nil, fmt.Errorf("invalid definition document: %w", err)
	}

	def := &domain.ProcessDefinition{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Version:     raw.Version,
		InitialStep: raw.InitialStep,
		Config:      raw.Config,
		Slots:       raw.Slots,
		Triggers:    raw.Triggers,
	}

	for i, rawStep := range raw.Steps {
		step, err := decodeStep(rawStep)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		def.Steps = append(def.Steps, step)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// decodeStep dispatches on the "type" discriminator into the step union.
func decodeStep(raw map[string]any) (domain.Step, error) {
	kind, _ := raw["type"].(string)
	switch kind {
	case "collect":
		var s domain.CollectStep
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case "validate":
		var s domain.ValidateStep
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case "confirm":
		var s domain.ConfirmStep
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case "execute":
		var s domain.ExecuteStep
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case "respond":
		var s domain.RespondStep
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case "branch":
		var s domain.BranchStep
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case "":
		return nil, fmt.Errorf("missing step type")
	default:
		return nil, fmt.Errorf("unknown step type %q", kind)
	}
}

// ParseFile reads one definition from a YAML file.
func ParseFile(path string) (*domain.ProcessDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// ParseDir loads every .yaml/.yml definition under dir, sorted by path for
// deterministic registration order.
func ParseDir(dir string) ([]*domain.ProcessDefinition, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	defs := make([]*domain.ProcessDefinition, 0, len(paths))
	for _, path := range paths {
		def, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
