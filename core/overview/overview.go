// Package overview assembles the read-only per-teacher views: details, sign-in timeline,
// homework compliance and level collisions.
package overview

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/carnet/core/attendance"
	"github.com/trezcool/carnet/core/devoir"
	"github.com/trezcool/carnet/core/rapport"
	"github.com/trezcool/carnet/core/status"
	"github.com/trezcool/carnet/core/teacher"
)

type (
	Teachers interface {
		GetByID(ctx context.Context, id int) (teacher.Teacher, error)
		QueryAll(ctx context.Context) ([]teacher.Teacher, error)
		DuplicateLevels(ctx context.Context) (map[string][]teacher.Teacher, error)
	}
	Attendance interface {
		History(ctx context.Context, name string) ([]attendance.Record, error)
	}
	Rapports interface {
		Deliveries(ctx context.Context, teacherName string) ([]rapport.Delivery, error)
	}
	Devoirs interface {
		List(ctx context.Context, teacherName string) ([]devoir.Check, error)
	}
)

type (
	Details struct {
		Teacher    teacher.Teacher     `json:"teacher"`
		Deliveries []rapport.Delivery  `json:"deliveries"`
		Devoirs    []devoir.Check      `json:"devoirs"`
		Attendance []attendance.Record `json:"attendance"`
	}

	// TimelineEntry is a day of a teacher's attendance, banded for display.
	TimelineEntry struct {
		attendance.Record
		Band status.Band `json:"band,omitempty"` // empty when there is no sign-in time
	}

	DevoirCounts struct {
		TeacherName string                `json:"teacher_name"`
		Counts      map[status.Devoir]int `json:"counts"`
	}

	LevelGroup struct {
		Level    string            `json:"level"`
		Teachers []teacher.Teacher `json:"teachers"`
	}
)

type Service struct {
	teachers   Teachers
	attendance Attendance
	rapports   Rapports
	devoirs    Devoirs
	cutoff     status.Clock
	grace      status.Clock
}

func NewService(t Teachers, a Attendance, r Rapports, d Devoirs, cutoff, grace status.Clock) *Service {
	return &Service{teachers: t, attendance: a, rapports: r, devoirs: d, cutoff: cutoff, grace: grace}
}

func (svc *Service) TeacherDetails(ctx context.Context, id int) (Details, error) {
	t, err := svc.teachers.GetByID(ctx, id)
	if err != nil {
		return Details{}, err
	}
	dt := Details{Teacher: t}
	if dt.Deliveries, err = svc.rapports.Deliveries(ctx, t.Name); err != nil {
		return Details{}, err
	}
	if dt.Devoirs, err = svc.devoirs.List(ctx, t.Name); err != nil {
		return Details{}, err
	}
	if dt.Attendance, err = svc.attendance.History(ctx, t.Name); err != nil {
		return Details{}, err
	}
	return dt, nil
}

// Timeline is a teacher's attendance history, oldest first, with each sign-in time banded.
func (svc *Service) Timeline(ctx context.Context, name string) ([]TimelineEntry, error) {
	recs, err := svc.attendance.History(ctx, name)
	if err != nil {
		return nil, err
	}
	entries := make([]TimelineEntry, 0, len(recs))
	for _, rec := range recs {
		e := TimelineEntry{Record: rec}
		if clock, err := status.ParseClock(rec.Time); err == nil {
			e.Band = status.Punctuality(clock, svc.cutoff, svc.grace)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// DevoirStatusCounts counts every teacher's homework checks per status, teachers by name.
// Teachers without checks are listed with zero counts.
func (svc *Service) DevoirStatusCounts(ctx context.Context) ([]DevoirCounts, error) {
	teachers, err := svc.teachers.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	checks, err := svc.devoirs.List(ctx, "")
	if err != nil {
		return nil, err
	}

	byTeacher := make(map[string]map[status.Devoir]int, len(teachers))
	newCounts := func() map[status.Devoir]int {
		counts := make(map[status.Devoir]int, len(status.DevoirStatuses))
		for _, st := range status.DevoirStatuses {
			counts[st] = 0
		}
		return counts
	}
	for _, t := range teachers {
		byTeacher[t.Name] = newCounts()
	}
	for _, c := range checks {
		if _, ok := byTeacher[c.TeacherName]; !ok { // checks of a deleted teacher
			byTeacher[c.TeacherName] = newCounts()
		}
		byTeacher[c.TeacherName][c.Status]++
	}

	res := make([]DevoirCounts, 0, len(byTeacher))
	for name, counts := range byTeacher {
		res = append(res, DevoirCounts{TeacherName: name, Counts: counts})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].TeacherName < res[j].TeacherName })
	return res, nil
}

// DuplicateLevels lists the levels held by more than one teacher, by level.
func (svc *Service) DuplicateLevels(ctx context.Context) ([]LevelGroup, error) {
	dups, err := svc.teachers.DuplicateLevels(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "finding duplicate levels")
	}
	groups := make([]LevelGroup, 0, len(dups))
	for level, ts := range dups {
		groups = append(groups, LevelGroup{Level: level, Teachers: ts})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Level < groups[j].Level })
	return groups, nil
}
