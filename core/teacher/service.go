package teacher

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/settings"
)

var (
	// errors
	ErrNotFound    = errors.New("teacher not found")
	ErrNameExists  = errors.New("a teacher with this name already exists")
	ErrLevelExists = errors.New("level must be unique, please choose another level")

	suggestMinRatio = .6
)

type (
	// Repository persists Teachers. Name and Level are unique; writes colliding on them
	// must fail with ErrNameExists or ErrLevelExists.
	Repository interface {
		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		QueryTeachers(ctx context.Context) ([]Teacher, error)
		GetTeacher(ctx context.Context, filter GetFilter) (Teacher, error)
		UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		DeleteTeacher(ctx context.Context, id int) error
		NameExists(ctx context.Context, name string, excludeID int) (bool, error)
		LevelExists(ctx context.Context, level string, excludeID int) (bool, error)
	}

	// Directory resolves the teacher names every other record is keyed by.
	Directory interface {
		Lookup(ctx context.Context, name string) (Teacher, error)
		QueryAll(ctx context.Context) ([]Teacher, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
		choices  settings.Choices
	}
)

var _ Directory = (*Service)(nil)

func NewService(repo Repository, validate *validator.Validate, choices settings.Choices) *Service {
	return &Service{repo: repo, validate: validate, choices: choices}
}

// IsLevelUnique reports whether no teacher but excludeID (0 for none) holds level.
// This is a check-then-act helper; the store's unique constraint is what guarantees uniqueness.
func (svc *Service) IsLevelUnique(ctx context.Context, level string, excludeID int) (bool, error) {
	exists, err := svc.repo.LevelExists(ctx, strings.ToUpper(core.CleanString(level)), excludeID)
	if err != nil {
		return false, errors.Wrap(err, "checking level uniqueness")
	}
	return !exists, nil
}

func (svc *Service) checkUniqueness(ctx context.Context, name, level string, excludeID int) error {
	exists, err := svc.repo.NameExists(ctx, name, excludeID)
	if err != nil {
		return errors.Wrap(err, "checking name uniqueness")
	}
	if exists {
		return uniquenessError(ErrNameExists)
	}
	unique, err := svc.IsLevelUnique(ctx, level, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return uniquenessError(ErrLevelExists)
	}
	return nil
}

// uniquenessError maps repository uniqueness errors to field errors; other errors are returned as is.
func uniquenessError(err error) error {
	var field string
	switch errors.Cause(err) {
	case ErrNameExists:
		field = "name"
	case ErrLevelExists:
		field = "level"
	default:
		return err
	}
	cause := errors.Cause(err)
	return core.NewValidationError(cause, core.FieldError{Field: field, Error: cause.Error()})
}

// Create adds a new Teacher. Duplicate names are rejected, not ignored.
func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return Teacher{}, err
	}
	if err := settings.CheckChoice(ctx, svc.choices, settings.KeyLevels, "level", nt.Level); err != nil {
		return Teacher{}, err
	}
	if err := svc.checkUniqueness(ctx, nt.Name, nt.Level, 0); err != nil {
		return Teacher{}, err
	}
	t, err := svc.repo.CreateTeacher(ctx, Teacher{
		Name:            nt.Name,
		FirstDay:        nt.FirstDay,
		Subjects:        nt.Subjects,
		AssignedClasses: nt.AssignedClasses,
		Level:           nt.Level,
	})
	if err != nil {
		return Teacher{}, errors.Wrap(uniquenessError(err), "creating teacher")
	}
	return t, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Teacher, error) {
	teachers, err := svc.repo.QueryTeachers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	return teachers, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, GetFilter{ID: id})
}

// Lookup finds a Teacher by exact name.
// An unknown name is a field error on teacher_name, suggesting the closest known name if any.
func (svc *Service) Lookup(ctx context.Context, name string) (Teacher, error) {
	name = core.CleanString(name)
	if name == "" {
		return Teacher{}, core.NewFieldError("teacher_name", "this field is required")
	}
	t, err := svc.repo.GetTeacher(ctx, GetFilter{Name: name})
	if err == nil {
		return t, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Teacher{}, errors.Wrap(err, "finding teacher by name")
	}

	msg := fmt.Sprintf("unknown teacher %q", name)
	teachers, err := svc.repo.QueryTeachers(ctx)
	if err != nil {
		return Teacher{}, errors.Wrap(err, "querying teachers")
	}
	if match := closestName(name, teachers); match != "" {
		msg += fmt.Sprintf(", did you mean %q?", match)
	}
	return Teacher{}, core.NewFieldError("teacher_name", msg)
}

func (svc *Service) Update(ctx context.Context, id int, ut UpdateTeacher) (Teacher, error) {
	if err := ut.Validate(svc.validate); err != nil {
		return Teacher{}, err
	}
	if _, err := svc.repo.GetTeacher(ctx, GetFilter{ID: id}); err != nil {
		return Teacher{}, err
	}
	if err := settings.CheckChoice(ctx, svc.choices, settings.KeyLevels, "level", ut.Level); err != nil {
		return Teacher{}, err
	}
	if err := svc.checkUniqueness(ctx, ut.Name, ut.Level, id); err != nil {
		return Teacher{}, err
	}
	t, err := svc.repo.UpdateTeacher(ctx, Teacher{
		ID:              id,
		Name:            ut.Name,
		FirstDay:        ut.FirstDay,
		Subjects:        ut.Subjects,
		AssignedClasses: ut.AssignedClasses,
		Level:           ut.Level,
	})
	if err != nil {
		return Teacher{}, errors.Wrap(uniquenessError(err), "updating teacher")
	}
	return t, nil
}

// Delete removes the Teacher only; records keyed by their name are historical facts and stay.
func (svc *Service) Delete(ctx context.Context, id int) error {
	if err := svc.repo.DeleteTeacher(ctx, id); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return nil
}

// DuplicateLevels groups teachers sharing a level. Empty when the store enforces uniqueness.
func (svc *Service) DuplicateLevels(ctx context.Context) (map[string][]Teacher, error) {
	teachers, err := svc.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	byLevel := make(map[string][]Teacher)
	for _, t := range teachers {
		byLevel[t.Level] = append(byLevel[t.Level], t)
	}
	dups := make(map[string][]Teacher)
	for level, ts := range byLevel {
		if len(ts) > 1 {
			dups[level] = ts
		}
	}
	return dups, nil
}

// closestName returns the known name most similar to name, or "" if none is similar enough.
func closestName(name string, teachers []Teacher) string {
	var (
		best      string
		bestRatio float64
	)
	lname := strings.ToLower(name)
	for _, t := range teachers {
		ratio := difflib.NewMatcher(strings.Split(lname, ""), strings.Split(strings.ToLower(t.Name), "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = t.Name, ratio
		}
	}
	if bestRatio < suggestMinRatio {
		return ""
	}
	return best
}
