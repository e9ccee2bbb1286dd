package note

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vikrantan5/PenSilc/internal/auth"
	"github.com/vikrantan5/PenSilc/internal/document"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) LoadScene(ctx context.Context, ownerID, noteID string) (document.SceneData, error) {
	args := m.Called(ctx, ownerID, noteID)
	return args.Get(0).(document.SceneData), args.Error(1)
}

func (m *mockGateway) SaveScene(ctx context.Context, ownerID, noteID string, scene document.SceneData) error {
	return m.Called(ctx, ownerID, noteID, scene).Error(0)
}

func (m *mockGateway) CreateOrGetShareLink(ctx context.Context, ownerID, noteID string) (string, error) {
	args := m.Called(ctx, ownerID, noteID)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) LoadSharedScene(ctx context.Context, shareID string) (document.SceneData, error) {
	args := m.Called(ctx, shareID)
	return args.Get(0).(document.SceneData), args.Error(1)
}

func newTestRouter(gw Gateway) *mux.Router {
	h := NewHandler(gw)
	r := mux.NewRouter()
	r.HandleFunc("/api/notes/{noteId}/scene", h.GetScene).Methods("GET")
	r.HandleFunc("/api/notes/{noteId}/scene", h.PutScene).Methods("PUT")
	r.HandleFunc("/api/notes/{noteId}/share", h.Share).Methods("POST")
	r.HandleFunc("/shared/{shareId}", h.GetShared).Methods("GET")
	return r
}

const testUserID = "user-1"

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	return serveAs(r, testUserID, method, target, body)
}

// serveAs sends the request as userID, the way the auth middleware would.
func serveAs(r http.Handler, userID, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_GetScene(t *testing.T) {
	gw := new(mockGateway)
	gw.On("LoadScene", mock.Anything, testUserID, testNoteID).Return(sampleScene(), nil)

	rec := serve(newTestRouter(gw), "GET", "/api/notes/"+testNoteID+"/scene", "")

	require.Equal(t, http.StatusOK, rec.Code)
	sd, _, err := document.DecodeScene(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sampleScene(), sd)
	gw.AssertExpectations(t)
}

func TestHandler_PutScene(t *testing.T) {
	gw := new(mockGateway)
	gw.On("SaveScene", mock.Anything, testUserID, testNoteID, mock.MatchedBy(func(sd document.SceneData) bool {
		return len(sd.Objects) == 1 && sd.Objects[0].ObjectID() == "r1"
	})).Return(nil)

	body := `{"objects":[{"type":"rect","id":"r1","x":0,"y":0,"width":10,"height":10},{"type":"blob","id":"b"}],"background":"#ffffff"}`
	rec := serve(newTestRouter(gw), "PUT", "/api/notes/"+testNoteID+"/scene", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "saved", resp["status"])
	assert.Equal(t, float64(1), resp["skipped"])
	gw.AssertExpectations(t)
}

func TestHandler_PutSceneRejectsGarbage(t *testing.T) {
	gw := new(mockGateway)

	rec := serve(newTestRouter(gw), "PUT", "/api/notes/"+testNoteID+"/scene", `{"objects":[`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	gw.AssertNotCalled(t, "SaveScene", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Share(t *testing.T) {
	gw := new(mockGateway)
	gw.On("CreateOrGetShareLink", mock.Anything, testUserID, testNoteID).Return("share-1", nil)

	rec := serve(newTestRouter(gw), "POST", "/api/notes/"+testNoteID+"/share", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp shareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, shareResponse{ShareID: "share-1", URL: "/shared/share-1"}, resp)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing", ErrNotFound, http.StatusNotFound},
		{"wrapped missing", errors.Join(errors.New("lookup"), ErrNotFound), http.StatusNotFound},
		{"expired", ErrExpired, http.StatusGone},
		{"storage failure", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := new(mockGateway)
			gw.On("LoadSharedScene", mock.Anything, "s1").Return(document.SceneData{}, tt.err)

			rec := serve(newTestRouter(gw), "GET", "/shared/s1", "")

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandler_WithMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	r := newTestRouter(store)

	rec := serve(r, "GET", "/api/notes/"+testNoteID+"/scene", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(r, "PUT", "/api/notes/"+testNoteID+"/scene", `{"objects":[],"background":"#0f0f0f"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, "POST", "/api/notes/"+testNoteID+"/share", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var share shareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &share))

	rec = serve(r, "GET", share.URL, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"objects":[],"background":"#0f0f0f"}`, rec.Body.String())
}

func TestHandler_RequiresUser(t *testing.T) {
	gw := new(mockGateway)
	r := newTestRouter(gw)

	for _, method := range []string{"GET", "PUT"} {
		rec := serveAs(r, "", method, "/api/notes/"+testNoteID+"/scene", `{"objects":[]}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, method)
	}
	rec := serveAs(r, "", "POST", "/api/notes/"+testNoteID+"/share", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	gw.AssertNotCalled(t, "LoadScene", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_OtherUsersNoteIsNotFound(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Seed("owner", testNoteID, sampleScene()))
	r := newTestRouter(store)

	rec := serveAs(r, "intruder", "GET", "/api/notes/"+testNoteID+"/scene", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serveAs(r, "intruder", "PUT", "/api/notes/"+testNoteID+"/scene", `{"objects":[],"background":"#000000"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serveAs(r, "intruder", "POST", "/api/notes/"+testNoteID+"/share", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serveAs(r, "owner", "GET", "/api/notes/"+testNoteID+"/scene", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sd, _, err := document.DecodeScene(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sampleScene(), sd, "the owner's scene is untouched")
}
