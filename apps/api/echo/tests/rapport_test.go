package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/carnet/core/rapport"
	"github.com/trezcool/carnet/tests"
)

func Test_rapportApi(t *testing.T) {
	app, svcs := setup(t)
	testutil.CreateTeacher(t, svcs.Teacher, "Amina Diallo", "1A", "1A")

	tests := []httpTest{
		{
			name:     "create",
			method:   http.MethodPost,
			path:     "/v1/rapports",
			body:     []byte(`{"title":"Bulletin T1","due_date":"2024-06-01","classes":["1A","2A"," 1A "]}`),
			wantCode: http.StatusCreated,
			wantData: []byte(`{"id":1,"title":"Bulletin T1","due_date":"2024-06-01","classes":["1A","2A"]}`),
		},
		{
			name:     "create without title",
			method:   http.MethodPost,
			path:     "/v1/rapports",
			body:     []byte(`{"due_date":"2024-06-01","classes":["1A"]}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"title":"this field is required"}`),
		},
		{
			name:     "deliver late, duplicate classes collapsed",
			method:   http.MethodPost,
			path:     "/v1/rapports/1/deliveries",
			body:     []byte(`{"teacher_name":"Amina Diallo","delivered_day":"2024-06-04","delivered_classes":["1A","1A"]}`),
			wantCode: http.StatusCreated,
			wantData: []byte(`{"id":1,"rapport_id":1,"teacher_name":"Amina Diallo","delivered_day":"2024-06-04","delivered_classes":["1A"],"days_late":3,"rapport_title":"Bulletin T1","due_date":"2024-06-01"}`),
		},
		{
			name:     "deliver a class outside the rapport",
			method:   http.MethodPost,
			path:     "/v1/rapports/1/deliveries",
			body:     []byte(`{"teacher_name":"Amina Diallo","delivered_day":"2024-05-30","delivered_classes":["3C"]}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"delivered_classes":"\"3C\" is not a class of this rapport"}`),
		},
		{
			name:     "deliver an unknown rapport",
			method:   http.MethodPost,
			path:     "/v1/rapports/9/deliveries",
			body:     []byte(`{"teacher_name":"Amina Diallo","delivered_day":"2024-05-30","delivered_classes":["1A"]}`),
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: rapport.ErrNotFound.Error()}),
		},
		{
			name:     "update",
			method:   http.MethodPut,
			path:     "/v1/rapports/1",
			body:     []byte(`{"title":"Bulletin T1 (final)","due_date":"2024-06-02","classes":["1A","2A"]}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"id":1,"title":"Bulletin T1 (final)","due_date":"2024-06-02","classes":["1A","2A"]}`),
		},
		{
			name:     "deliveries show the current rapport",
			method:   http.MethodGet,
			path:     "/v1/deliveries?teacher=Amina+Diallo",
			wantCode: http.StatusOK,
			wantData: []byte(`[{"id":1,"rapport_id":1,"teacher_name":"Amina Diallo","delivered_day":"2024-06-04","delivered_classes":["1A"],"days_late":3,"rapport_title":"Bulletin T1 (final)","due_date":"2024-06-02"}]`),
		},
		{
			name:     "deliveries of someone else",
			method:   http.MethodGet,
			path:     "/v1/deliveries?teacher=Bruno",
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     "/v1/rapports/1",
			wantCode: http.StatusNoContent,
		},
		{
			name:     "deliveries went with it",
			method:   http.MethodGet,
			path:     "/v1/deliveries",
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
		{
			name:     "retrieve deleted",
			method:   http.MethodGet,
			path:     "/v1/rapports/1",
			wantCode: http.StatusNotFound,
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_rapportApi_emptyClasses(t *testing.T) {
	app, _ := setup(t)

	rec := do(app, http.MethodPost, "/v1/rapports", []byte(`{"title":"Bulletin","due_date":"2024-06-01","classes":[" "]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var flds map[string]string
	unmarshall(t, rec, &flds)
	assert.Contains(t, flds, "classes")

	rec = do(app, http.MethodGet, "/v1/rapports")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func Test_rapportApi_listOrder(t *testing.T) {
	app, _ := setup(t)

	for _, body := range []string{
		`{"title":"A","due_date":"2024-03-01","classes":["1A"]}`,
		`{"title":"B","due_date":"2024-06-01","classes":["1A"]}`,
		`{"title":"C","due_date":"2024-06-01","classes":["1A"]}`,
	} {
		rec := do(app, http.MethodPost, "/v1/rapports", []byte(body))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := do(app, http.MethodGet, "/v1/rapports")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []rapport.Rapport
	unmarshall(t, rec, &got)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{got[0].Title, got[1].Title, got[2].Title})
}
