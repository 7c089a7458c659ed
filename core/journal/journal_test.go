package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/carnet/core/calendar"
	"github.com/trezcool/carnet/core/journal"
	"github.com/trezcool/carnet/core/status"
	"github.com/trezcool/carnet/tests"
)

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svcs := testutil.NewServices()
	testutil.CreateTeacher(t, svcs.Teacher, "Amina", "1A")
	svc := svcs.Journal
	day := calendar.New(2024, time.May, 2)

	tests := []struct {
		name         string
		nc           journal.NewCheck
		wantDays     int
		wantFieldErr string
	}{
		{name: "checked", nc: journal.NewCheck{TeacherName: "Amina", Date: day, Status: status.Checked}},
		{name: "outdated keeps its days", nc: journal.NewCheck{TeacherName: "Amina", Date: day, Status: status.Outdated, OutdatedDays: 3}, wantDays: 3},
		{name: "days are dropped unless outdated", nc: journal.NewCheck{TeacherName: "Amina", Date: day, Status: status.Forgotten, OutdatedDays: 4}},
		{name: "outdated needs at least a day", nc: journal.NewCheck{TeacherName: "Amina", Date: day, Status: status.Outdated}, wantFieldErr: "outdated_days"},
		{name: "negative days", nc: journal.NewCheck{TeacherName: "Amina", Date: day, Status: status.Checked, OutdatedDays: -1}, wantFieldErr: "outdated_days"},
		{name: "unknown status", nc: journal.NewCheck{TeacherName: "Amina", Date: day, Status: "Late"}, wantFieldErr: "status"},
		{name: "missing status", nc: journal.NewCheck{TeacherName: "Amina", Date: day}, wantFieldErr: "status"},
		{name: "unknown teacher", nc: journal.NewCheck{TeacherName: "Nobody", Date: day, Status: status.Checked}, wantFieldErr: "teacher_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Create(ctx, tt.nc)
			if tt.wantFieldErr != "" {
				assert.Contains(t, testutil.FieldErrors(err), tt.wantFieldErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, got.ID)
			assert.Equal(t, tt.wantDays, got.OutdatedDays)
		})
	}
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svcs := testutil.NewServices()
	testutil.CreateTeacher(t, svcs.Teacher, "Amina", "1A")
	svc := svcs.Journal
	day := calendar.New(2024, time.May, 2)

	var ids []int
	for _, d := range []calendar.Date{day, day.AddDays(1), day} {
		c, err := svc.Create(ctx, journal.NewCheck{TeacherName: "Amina", Date: d, Status: status.Checked, Observation: " ok "})
		require.NoError(t, err)
		assert.Equal(t, "ok", c.Observation)
		ids = append(ids, c.ID)
	}

	all, err := svc.List(ctx, calendar.Date{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{ids[1], ids[2], ids[0]}, []int{all[0].ID, all[1].ID, all[2].ID})

	ofDay, err := svc.List(ctx, day)
	require.NoError(t, err)
	require.Len(t, ofDay, 2)
	assert.Equal(t, ids[2], ofDay[0].ID)
}
