package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"mashsong/config"
	"mashsong/logger"
	"mashsong/mash"
	"mashsong/util"
)

// Server exposes the library and the mash queue over HTTP.
type Server struct {
	cfg   *config.Config
	db    *util.Database
	queue *MashQueue
	log   *zap.Logger
}

// NewServer wires a server around the library database. Jobs render
// through the given renderer.
func NewServer(cfg *config.Config, db *util.Database, renderer *mash.Renderer) *Server {
	s := &Server{
		cfg: cfg,
		db:  db,
		log: logger.Named("web"),
	}
	s.queue = NewMashQueue(func(job *MashJob) (string, error) {
		return s.renderJob(renderer, job)
	})
	return s
}

func (s *Server) renderJob(renderer *mash.Renderer, job *MashJob) (string, error) {
	voc, err := util.LoadTrack(s.db, s.cfg.DataDir, job.VocalID)
	if err != nil {
		return "", err
	}
	acc, err := util.LoadTrack(s.db, s.cfg.DataDir, job.AccompID)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()
	return mash.Mash(ctx, renderer, "", voc, acc, mash.Options{
		VocalSpan:  job.VocalSpan,
		AccompSpan: job.AccompSpan,
	})
}

// Routes returns the HTTP handler for the server.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHealth)
	mux.HandleFunc("/tracks", s.handleTracks)
	mux.HandleFunc("/mash", s.handleMash)
	mux.HandleFunc("/jobs/", s.handleJob)
	return mux
}

// ListenAndServe blocks serving on the configured port.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.log.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Routes())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	pending, running := s.queue.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"queue_pending": pending,
		"queue_running": running,
	})
}

func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		tracks []util.TrackRecord
		err    error
	)
	if pattern := r.URL.Query().Get("q"); pattern != "" {
		tracks, err = s.db.FindTracksByPattern(pattern)
	} else {
		tracks, err = s.db.GetAllTracks()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

type mashRequest struct {
	VocalID    string `json:"vocal_id"`
	AccompID   string `json:"accomp_id"`
	VocalFrom  int    `json:"vocal_from"`
	VocalTo    int    `json:"vocal_to"`
	AccompFrom int    `json:"accomp_from"`
	AccompTo   int    `json:"accomp_to"`
}

func (s *Server) handleMash(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req mashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.VocalID == "" || req.AccompID == "" {
		http.Error(w, "vocal_id and accomp_id are required", http.StatusBadRequest)
		return
	}
	if _, ok := s.db.GetTrack(req.VocalID); !ok {
		http.Error(w, fmt.Sprintf("track %s not in library", req.VocalID), http.StatusNotFound)
		return
	}
	if _, ok := s.db.GetTrack(req.AccompID); !ok {
		http.Error(w, fmt.Sprintf("track %s not in library", req.AccompID), http.StatusNotFound)
		return
	}

	job := s.queue.Enqueue(req.VocalID, req.AccompID,
		mash.SectionSpan{From: req.VocalFrom, To: req.VocalTo},
		mash.SectionSpan{From: req.AccompFrom, To: req.AccompTo})
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Path[len("/jobs/"):]
	job, ok := s.queue.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
