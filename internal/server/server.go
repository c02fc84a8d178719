// Package server exposes the annotation session over a local HTTP JSON API,
// used by acquisition scripts and the batch pipeline. Every mutating endpoint
// validates its input first; a failed request leaves the session untouched.
package server

import (
	"encoding/json"
	"image/png"
	"log"
	"net/http"

	"github.com/MikeWise2718/fish-scales-sub003/internal/calibration"
	"github.com/MikeWise2718/fish-scales-sub003/internal/session"
	"github.com/MikeWise2718/fish-scales-sub003/internal/viewport"
	"github.com/MikeWise2718/fish-scales-sub003/pkg/geometry"
)

// rawImagePath is where the current image pixels are served; mutating image
// endpoints return it as the url of the replacement image.
const rawImagePath = "/api/image/raw"

// Server serves the session API.
type Server struct {
	sess *session.Session
	mux  *http.ServeMux
}

// New builds a server around an existing session.
func New(sess *session.Session) *Server {
	s := &Server{sess: sess, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /api/calibration", s.getCalibration)
	s.mux.HandleFunc("POST /api/calibration", s.postCalibration)
	s.mux.HandleFunc("POST /api/rotate", s.postRotate)
	s.mux.HandleFunc("POST /api/crop", s.postCrop)
	s.mux.HandleFunc("POST /api/autocrop", s.postAutocrop)
	s.mux.HandleFunc("GET /api/image", s.getImage)
	s.mux.HandleFunc("GET "+rawImagePath, s.getRawImage)
	s.mux.HandleFunc("GET /api/stats", s.getStats)
	s.mux.HandleFunc("GET /api/log", s.getLog)
	return s
}

// Handler returns the API's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe runs the API on the given address until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("serving annotation API on %s", addr)
	return http.ListenAndServe(addr, s.mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type calibrationBody struct {
	UmPerPx float64 `json:"um_per_px"`
	Method  string  `json:"method,omitempty"`
}

type calibrationResponse struct {
	Calibration *calibrationBody `json:"calibration"`
}

func (s *Server) getCalibration(w http.ResponseWriter, r *http.Request) {
	cal := s.sess.Calibration()
	var body *calibrationBody
	if cal.Calibrated() {
		body = &calibrationBody{UmPerPx: cal.UmPerPixel(), Method: string(cal.Method())}
	}
	writeJSON(w, http.StatusOK, calibrationResponse{Calibration: body})
}

func validMethod(m string) bool {
	switch calibration.Method(m) {
	case calibration.MethodEstimate, calibration.MethodScaleBar,
		calibration.MethodDirect, calibration.MethodMeasure, calibration.MethodLoaded:
		return true
	}
	return false
}

func (s *Server) postCalibration(w http.ResponseWriter, r *http.Request) {
	var req calibrationBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Method != "" && !validMethod(req.Method) {
		writeError(w, http.StatusBadRequest, errBadMethod)
		return
	}
	cal := s.sess.Calibration()
	var err error
	if req.Method == "" {
		err = cal.SetDirect(req.UmPerPx)
	} else {
		err = cal.Load(req.UmPerPx, calibration.Method(req.Method))
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.getCalibration(w, r)
}

type rotateRequest struct {
	Direction string `json:"direction"`
}

type imageResponse struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) postRotate(w http.ResponseWriter, r *http.Request) {
	var req rotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	dir := viewport.Direction(req.Direction)
	if !dir.Valid() {
		writeError(w, http.StatusBadRequest, errBadDirection)
		return
	}
	if err := s.sess.ApplyRotate(dir); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.getImage(w, r)
}

func (s *Server) postCrop(w http.ResponseWriter, r *http.Request) {
	var req geometry.Rect
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.sess.ApplyCrop(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.getImage(w, r)
}

type autocropResponse struct {
	imageResponse
	Region geometry.RectInt `json:"region"`
}

func (s *Server) postAutocrop(w http.ResponseWriter, r *http.Request) {
	region, err := s.sess.ApplyAutocrop()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	doc := s.sess.Document()
	writeJSON(w, http.StatusOK, autocropResponse{
		imageResponse: imageResponse{URL: rawImagePath, Width: doc.Width(), Height: doc.Height()},
		Region:        region,
	})
}

func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	doc := s.sess.Document()
	if doc == nil {
		writeError(w, http.StatusNotFound, errNoImage)
		return
	}
	writeJSON(w, http.StatusOK, imageResponse{URL: rawImagePath, Width: doc.Width(), Height: doc.Height()})
}

func (s *Server) getRawImage(w http.ResponseWriter, r *http.Request) {
	doc := s.sess.Document()
	if doc == nil {
		writeError(w, http.StatusNotFound, errNoImage)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, doc.Image); err != nil {
		log.Printf("failed to encode image: %v", err)
	}
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Summary())
}

func (s *Server) getLog(w http.ResponseWriter, r *http.Request) {
	events := s.sess.Events()
	if events == nil {
		events = []session.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}
