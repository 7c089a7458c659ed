// Package settings stores the editable enumerations every form offers as choices.
package settings

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/carnet/core"
)

// setting keys, one stored row each
const (
	KeySubjects   = "subjects"
	KeyClasses    = "classes"
	KeyLevels     = "levels"
	KeyModules    = "modules"
	KeySubmodules = "submodules"
	KeyMaterials  = "materials"
)

var Keys = []string{KeySubjects, KeyClasses, KeyLevels, KeyModules, KeySubmodules, KeyMaterials}

//go:embed defaults.yaml
var defaultsYAML []byte

type Settings struct {
	Subjects   []string            `json:"subjects" yaml:"subjects"`
	Classes    []string            `json:"classes" yaml:"classes"`
	Levels     []string            `json:"levels" yaml:"levels"`
	Modules    []string            `json:"modules" yaml:"modules"`
	Submodules map[string][]string `json:"submodules" yaml:"submodules"`
	Materials  []string            `json:"materials" yaml:"materials"`
}

// Defaults returns a fresh copy of the built-in settings.
func Defaults() Settings {
	var s Settings
	if err := yaml.Unmarshal(defaultsYAML, &s); err != nil {
		panic(errors.Wrap(err, "parsing default settings"))
	}
	return s
}

// Clean trims every value, drops blanks and duplicates, upper-cases levels and keeps
// exactly one submodule list per listed module.
func (s *Settings) Clean() {
	s.Subjects = core.CleanList(s.Subjects)
	s.Classes = core.CleanList(s.Classes)
	for i, lvl := range s.Levels {
		s.Levels[i] = strings.ToUpper(lvl)
	}
	s.Levels = core.CleanList(s.Levels)
	s.Modules = core.CleanList(s.Modules)
	s.Materials = core.CleanList(s.Materials)

	subs := make(map[string][]string, len(s.Modules))
	for _, m := range s.Modules {
		subs[m] = core.CleanList(s.Submodules[m])
	}
	s.Submodules = subs
}

// values encodes s as one JSON document per key.
func (s Settings) values() (map[string][]byte, error) {
	fields := map[string]interface{}{
		KeySubjects:   s.Subjects,
		KeyClasses:    s.Classes,
		KeyLevels:     s.Levels,
		KeyModules:    s.Modules,
		KeySubmodules: s.Submodules,
		KeyMaterials:  s.Materials,
	}
	vals := make(map[string][]byte, len(fields))
	for key, v := range fields {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s", key)
		}
		vals[key] = data
	}
	return vals, nil
}

func (s *Settings) set(key string, data []byte) error {
	var dest interface{}
	switch key {
	case KeySubjects:
		dest = &s.Subjects
	case KeyClasses:
		dest = &s.Classes
	case KeyLevels:
		dest = &s.Levels
	case KeyModules:
		dest = &s.Modules
	case KeySubmodules:
		s.Submodules = nil // decoding into a non-nil map would merge
		dest = &s.Submodules
	case KeyMaterials:
		dest = &s.Materials
	default:
		return nil // unknown keys are ignored
	}
	return errors.Wrapf(json.Unmarshal(data, dest), "decoding %s", key)
}

// options returns the flat list of choices stored under key. Submodules have none.
func (s Settings) options(key string) []string {
	switch key {
	case KeySubjects:
		return s.Subjects
	case KeyClasses:
		return s.Classes
	case KeyLevels:
		return s.Levels
	case KeyModules:
		return s.Modules
	case KeyMaterials:
		return s.Materials
	}
	return nil
}

type (
	// Choices is what record services check free-text inputs against.
	Choices interface {
		Allows(ctx context.Context, key, value string) (bool, error)
	}

	Repository interface {
		QuerySettings(ctx context.Context) (map[string][]byte, error)
		// SaveSettings writes every given key, all or nothing.
		SaveSettings(ctx context.Context, values map[string][]byte) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Load returns the stored settings; keys never saved fall back to their default.
func (svc *Service) Load(ctx context.Context) (Settings, error) {
	stored, err := svc.repo.QuerySettings(ctx)
	if err != nil {
		return Settings{}, errors.Wrap(err, "querying settings")
	}
	s := Defaults()
	for key, data := range stored {
		if err = s.set(key, data); err != nil {
			return Settings{}, err
		}
	}
	return s, nil
}

func (svc *Service) Save(ctx context.Context, s Settings) (Settings, error) {
	s.Clean()
	vals, err := s.values()
	if err != nil {
		return Settings{}, err
	}
	if err = svc.repo.SaveSettings(ctx, vals); err != nil {
		return Settings{}, errors.Wrap(err, "saving settings")
	}
	return s, nil
}

// Allows reports whether value is one of the options configured under key.
// A key with no options configured accepts anything.
func (svc *Service) Allows(ctx context.Context, key, value string) (bool, error) {
	s, err := svc.Load(ctx)
	if err != nil {
		return false, err
	}
	opts := s.options(key)
	return len(opts) == 0 || core.Contains(opts, value), nil
}

// CheckChoice returns a field error on field when value is not configured under key.
func CheckChoice(ctx context.Context, choices Choices, key, field, value string) error {
	ok, err := choices.Allows(ctx, key, value)
	if err != nil {
		return errors.Wrapf(err, "checking %s", key)
	}
	if !ok {
		return core.NewFieldError(field, fmt.Sprintf("%q is not among the configured %s", value, key))
	}
	return nil
}

// Reset overwrites every key with its default.
func (svc *Service) Reset(ctx context.Context) (Settings, error) {
	return svc.Save(ctx, Defaults())
}
