package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mashsong/config"
	"mashsong/util"
)

func testServer(t *testing.T) (*Server, *util.Database) {
	t.Helper()
	dataDir := t.TempDir()
	db, err := util.InitDatabase(dataDir)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{DataDir: dataDir, Port: 3005}
	srv := NewServer(cfg, db, nil)
	// Render jobs would shell out to ffmpeg; the handler tests only
	// exercise queueing, so stub the runner.
	srv.queue = NewMashQueue(func(job *MashJob) (string, error) {
		return "/tmp/out.wav", nil
	})
	return srv, db
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestTracksEndpoint(t *testing.T) {
	srv, db := testServer(t)
	title := "Song"
	require.NoError(t, db.SaveTrack(&util.TrackRecord{ID: "tr1", Title: &title}))

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tracks", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var tracks []util.TrackRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tracks))
	require.Len(t, tracks, 1)
	assert.Equal(t, "tr1", tracks[0].ID)
}

func TestMashEndpointQueuesJob(t *testing.T) {
	srv, db := testServer(t)
	require.NoError(t, db.SaveTrack(&util.TrackRecord{ID: "voc"}))
	require.NoError(t, db.SaveTrack(&util.TrackRecord{ID: "acc"}))

	body := `{"vocal_id": "voc", "accomp_id": "acc", "vocal_from": 1, "vocal_to": 2}`
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mash", strings.NewReader(body)))

	require.Equal(t, http.StatusAccepted, rec.Code)
	var job MashJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, 1, job.VocalSpan.From)

	// The job shows up under /jobs/<id>.
	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/"+job.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMashEndpointValidates(t *testing.T) {
	srv, db := testServer(t)
	require.NoError(t, db.SaveTrack(&util.TrackRecord{ID: "voc"}))

	// Unknown track.
	body := `{"vocal_id": "voc", "accomp_id": "missing"}`
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mash", strings.NewReader(body)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Missing fields.
	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mash", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Wrong method.
	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mash", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestJobNotFound(t *testing.T) {
	srv, _ := testServer(t)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
