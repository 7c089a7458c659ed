package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/carnet/core/overview"
	"github.com/trezcool/carnet/core/status"
	"github.com/trezcool/carnet/tests"
)

func Test_overviewApi(t *testing.T) {
	app, svcs := setup(t)
	testutil.CreateTeacher(t, svcs.Teacher, "Bruno Kasongo", "2A", "2A")
	testutil.CreateTeacher(t, svcs.Teacher, "Amina Diallo", "1A", "1A")

	for _, req := range []struct{ path, body string }{
		{"/v1/attendance", `{"name":"Amina Diallo","date":"2024-05-02","time":"08:30"}`},
		{"/v1/attendance", `{"name":"Amina Diallo","date":"2024-05-03","time":"08:44"}`},
		{"/v1/attendance", `{"name":"Amina Diallo","date":"2024-05-06","time":"08:45"}`},
		{"/v1/attendance", `{"name":"Amina Diallo","date":"2024-05-07","unsigned":true}`},
		{"/v1/devoirs", `{"teacher_name":"Amina Diallo","class_name":"1A","thursday_date":"2024-05-02","status":"Sent"}`},
		{"/v1/devoirs", `{"teacher_name":"Amina Diallo","class_name":"1A","thursday_date":"2024-05-09","status":"Sent"}`},
		{"/v1/rapports", `{"title":"Bulletin T1","due_date":"2024-06-01","classes":["1A"]}`},
		{"/v1/rapports/1/deliveries", `{"teacher_name":"Amina Diallo","delivered_day":"2024-06-01","delivered_classes":["1A"]}`},
	} {
		rec := do(app, http.MethodPost, req.path, []byte(req.body))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	t.Run("teacher details", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/v1/overview/teachers/2")
		require.Equal(t, http.StatusOK, rec.Code)
		var got overview.Details
		unmarshall(t, rec, &got)
		assert.Equal(t, "Amina Diallo", got.Teacher.Name)
		assert.Len(t, got.Attendance, 4)
		assert.Len(t, got.Devoirs, 2)
		require.Len(t, got.Deliveries, 1)
		assert.Equal(t, 0, got.Deliveries[0].DaysLate)
	})

	t.Run("details of a teacher with no records", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/v1/overview/teachers/1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"attendance":[]`)
	})

	t.Run("details of an unknown teacher", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/v1/overview/teachers/9")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("timeline bands", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/v1/overview/timeline?name=Amina+Diallo")
		require.Equal(t, http.StatusOK, rec.Code)
		var got []overview.TimelineEntry
		unmarshall(t, rec, &got)
		require.Len(t, got, 4)
		assert.Equal(t, status.OnTime, got[0].Band)
		assert.Equal(t, status.SlightlyLate, got[1].Band)
		assert.Equal(t, status.VeryLate, got[2].Band)
		assert.Empty(t, got[3].Band)
		assert.Equal(t, status.Unsigned, got[3].Status)
	})

	t.Run("devoir status counts", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/v1/overview/devoir-status")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[
			{"teacher_name":"Amina Diallo","counts":{"Sent":2,"Not Sent":0,"Sent Late":0}},
			{"teacher_name":"Bruno Kasongo","counts":{"Sent":0,"Not Sent":0,"Sent Late":0}}
		]`, rec.Body.String())
	})

	t.Run("no duplicate levels", func(t *testing.T) {
		rec := do(app, http.MethodGet, "/v1/overview/levels")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}
