package attendance

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core"
	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/status"
	"github.com/trezcool/carnet/core/teacher"
)

type (
	Repository interface {
		// UpsertRecord inserts rec, or overwrites time and status of the row with the same (name, date).
		// existed reports whether such a row was already there.
		UpsertRecord(ctx context.Context, rec Record) (saved Record, existed bool, err error)
		QueryRecordsByDate(ctx context.Context, date calendar.Date) ([]Record, error)
		QueryRecordsByTeacher(ctx context.Context, name string) ([]Record, error)
		GetRecord(ctx context.Context, name string, date calendar.Date) (Record, error)
	}

	Service struct {
		repo     Repository
		teachers teacher.Directory
		validate *validator.Validate
		cutoff   status.Clock
	}
)

var ErrNotFound = errors.New("attendance record not found")

func NewService(repo Repository, teachers teacher.Directory, validate *validator.Validate, cutoff status.Clock) *Service {
	return &Service{repo: repo, teachers: teachers, validate: validate, cutoff: cutoff}
}

func (svc *Service) Cutoff() status.Clock { return svc.cutoff }

// Save records a sign-in. Re-saving the same teacher and day overwrites time and status.
// A malformed time is a field error and nothing is written.
func (svc *Service) Save(ctx context.Context, sr SaveRecord) (Saved, error) {
	if err := sr.Validate(svc.validate); err != nil {
		return Saved{}, err
	}

	rec := Record{TeacherName: sr.TeacherName, Date: sr.Date}
	if sr.Absent {
		rec.Status = status.Absent
	} else {
		st, clock, err := status.DeriveAttendance(sr.Time, sr.Unsigned, svc.cutoff)
		if err != nil {
			return Saved{}, core.NewFieldError("time", err.Error())
		}
		rec.Status = st
		if st != status.Unsigned {
			rec.Time = clock.String()
		}
	}

	if _, err := svc.teachers.Lookup(ctx, sr.TeacherName); err != nil {
		return Saved{}, err
	}

	saved, existed, err := svc.repo.UpsertRecord(ctx, rec)
	if err != nil {
		return Saved{}, errors.Wrap(err, "saving attendance")
	}
	return Saved{Record: saved, Overwritten: existed}, nil
}

// Exists reports whether a record is already stored for name on date.
func (svc *Service) Exists(ctx context.Context, name string, date calendar.Date) (bool, error) {
	_, err := svc.repo.GetRecord(ctx, core.CleanString(name), date)
	switch errors.Cause(err) {
	case nil:
		return true, nil
	case ErrNotFound:
		return false, nil
	default:
		return false, errors.Wrap(err, "checking existing record")
	}
}

// ListByDate lists the records of one day, by teacher name.
func (svc *Service) ListByDate(ctx context.Context, date calendar.Date) ([]Record, error) {
	recs, err := svc.repo.QueryRecordsByDate(ctx, date)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance by date")
	}
	return recs, nil
}

// History lists one teacher's records, oldest first.
func (svc *Service) History(ctx context.Context, name string) ([]Record, error) {
	recs, err := svc.repo.QueryRecordsByTeacher(ctx, core.CleanString(name))
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance history")
	}
	return recs, nil
}

// Pending lists, by name, the teachers who have not signed in (Present or Late) on date.
func (svc *Service) Pending(ctx context.Context, date calendar.Date) ([]string, error) {
	teachers, err := svc.teachers.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	recs, err := svc.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	signed := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		if rec.Status.SignedIn() {
			signed[rec.TeacherName] = struct{}{}
		}
	}
	pending := make([]string, 0, len(teachers))
	for _, t := range teachers { // already ordered by name
		if _, ok := signed[t.Name]; !ok {
			pending = append(pending, t.Name)
		}
	}
	return pending, nil
}
