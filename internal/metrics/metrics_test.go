package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	c := NewCollector()
	r := mux.NewRouter()
	r.Use(c.Middleware)
	r.HandleFunc("/api/notes/{noteId}/scene", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods("GET")

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/notes/"+id+"/scene", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/notes/{noteId}/scene", "404"))
	assert.Equal(t, 2.0, got)
}

func TestHandler_ExposesRegistry(t *testing.T) {
	c := NewCollector()
	c.AutosaveAttempts.Inc()
	c.Sessions.Set(3)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "pensilc_autosave_attempts_total 1"))
	assert.True(t, strings.Contains(body, "pensilc_editing_sessions 3"))
}

func TestNewCollector_IndependentRegistries(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.AutosaveSkips.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.AutosaveSkips))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.AutosaveSkips))
}
