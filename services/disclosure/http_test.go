package disclosure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, env testEnv, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	env.service.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHttpExecutiveOrders(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(t, env, "/executive-orders?start_year=2024&end_year=2025&skip=0&top=10")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "application/json", rec.Header().Get("content-type"))

	var res ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	expected := ListResponse{
		NumResults:      3,
		Skip:            0,
		Top:             10,
		ReturnedResults: 3,
		LastUpdated:     ptr("2025-06-15T10:00:00+08:00"),
		Results: []Document{
			{Year: 2024, Title: "Executive Order No. 7 s. 2024", Link: "/files/eo-2024-07.pdf", UUID: ptr("b7"), Views: ptr("152")},
			{Year: 2024, Title: "Executive Order No. 8 s. 2024", Link: "/files/eo-2024-08.pdf"},
			{Year: 2025, Title: "Executive Order No. 1 s. 2025", Link: "/files/eo-2025-01.pdf", UUID: ptr("c1")},
		},
	}
	diff := cmp.Diff(expected, res)
	if diff != "" {
		t.Fatal(diff)
	}

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.NotContains(t, raw, "category")
	second := raw["results"].([]any)[1].(map[string]any)
	require.Contains(t, second, "uuid")
	require.Nil(t, second["uuid"])
	require.Nil(t, second["views"])
}

func TestHttpBidsAndAwardsOmitsYear(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(t, env, "/bids-and-awards/other-notices")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Equal(t, "other-notices", raw["category"])
	require.EqualValues(t, 1, raw["num_results"])

	results := raw["results"].([]any)
	require.Len(t, results, 1)
	require.NotContains(t, results[0].(map[string]any), "year")
}

func TestHttpErrors(t *testing.T) {
	cases := []struct {
		target string
		status int
	}{
		{"/minutes", http.StatusNotFound},
		{"/bids-and-awards/unknown", http.StatusNotFound},
		{"/resolutions?start_year=abc", http.StatusBadRequest},
		{"/resolutions?end_year=2025.5", http.StatusBadRequest},
		{"/resolutions?start_year=2025&end_year=2024", http.StatusBadRequest},
		{"/resolutions?top=0", http.StatusBadRequest},
		{"/resolutions?top=1001", http.StatusBadRequest},
		{"/resolutions?skip=-1", http.StatusBadRequest},
		{"/bids-and-awards/bid-bulletin?top=x", http.StatusBadRequest},
	}
	for _, c := range cases {
		t.Run(c.target, func(t *testing.T) {
			env := newTestEnv(t)
			rec := serve(t, env, c.target)
			require.Equal(t, c.status, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotEmpty(t, body["detail"])
			require.Equal(t, 0, env.fetcher.callCount())
		})
	}
}

func TestHttpUnknownCategoryBeforeRefresh(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(t, env, "/bids-and-awards/notice-of-award")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "notice-of-awards")
	require.Equal(t, 0, env.fetcher.callCount())

	exists, err := env.pages.Exists(context.Background(), SourceBidsAndAwards)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestHttpInfo(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(t, env, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var info InfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	require.Equal(t, []string{"resolutions", "ordinances", "executive-orders"}, info.ValidPaths)
	require.Len(t, info.ValidCategories, 9)
}
