// Package api exposes the odometry estimator over a small debug HTTP
// surface: pose read/overwrite, re-calibration, and the recorded trail.
// It is a monitoring aid, not part of the estimator contract.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/liam830666/LemLib/internal/monitoring"
	"github.com/liam830666/LemLib/internal/odom"
	"github.com/liam830666/LemLib/internal/trail"
	"github.com/liam830666/LemLib/internal/units"
)

// Server serves the estimator state. The trail recorder is optional.
type Server struct {
	estimator *odom.TrackingWheelOdometry
	recorder  *trail.Recorder

	// calibrationBudget is the maxDuration passed to re-calibrations
	// triggered over HTTP.
	calibrationBudget time.Duration
}

// NewServer creates a Server. recorder may be nil.
func NewServer(estimator *odom.TrackingWheelOdometry, recorder *trail.Recorder, calibrationBudget time.Duration) *Server {
	if calibrationBudget <= 0 {
		calibrationBudget = odom.DefaultCalibrationBudget
	}
	return &Server{
		estimator:         estimator,
		recorder:          recorder,
		calibrationBudget: calibrationBudget,
	}
}

// ServeMux returns the route table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/pose", s.handlePose)
	mux.HandleFunc("/calibrate", s.handleCalibrate)
	mux.HandleFunc("/trail", s.handleTrail)
	mux.HandleFunc("/trail/chart", s.handleTrailChart)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

// poseJSON is the wire form of a pose: metres and degrees, with the
// heading additionally wrapped for readability.
type poseJSON struct {
	XM              float64 `json:"x_m"`
	YM              float64 `json:"y_m"`
	ThetaDeg        float64 `json:"theta_deg"`
	ThetaWrappedDeg float64 `json:"theta_wrapped_deg"`
}

func toPoseJSON(p units.Pose) poseJSON {
	return poseJSON{
		XM:              p.X.Metres(),
		YM:              p.Y.Metres(),
		ThetaDeg:        p.Theta.Degrees(),
		ThetaWrappedDeg: p.Theta.Normalized().Degrees(),
	}
}

func (s *Server) handlePose(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, toPoseJSON(s.estimator.Pose()))
	case http.MethodPost:
		var in poseJSON
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, fmt.Sprintf("invalid pose payload: %v", err), http.StatusBadRequest)
			return
		}
		s.estimator.SetPose(units.Pose{
			X:     units.Metres(in.XM),
			Y:     units.Metres(in.YM),
			Theta: units.Degrees(in.ThetaDeg),
		})
		monitoring.Logf("api: pose overwritten to (%.3f, %.3f, %.1f°)", in.XM, in.YM, in.ThetaDeg)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCalibrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sev := s.estimator.Calibrate(s.calibrationBudget)
	s.writeJSON(w, map[string]interface{}{
		"severity":    int(sev),
		"description": sev.String(),
	})
}

func (s *Server) handleTrail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.recorder == nil {
		http.Error(w, "trail recording disabled", http.StatusNotFound)
		return
	}
	samples, err := s.recorder.Samples()
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read trail: %v", err), http.StatusInternalServerError)
		return
	}
	type sampleJSON struct {
		UnixNanos int64   `json:"t_unix_nanos"`
		XM        float64 `json:"x_m"`
		YM        float64 `json:"y_m"`
		ThetaDeg  float64 `json:"theta_deg"`
	}
	out := struct {
		SessionID string        `json:"session_id"`
		Summary   trail.Summary `json:"summary"`
		Samples   []sampleJSON  `json:"samples"`
	}{
		SessionID: s.recorder.SessionID().String(),
		Summary:   trail.Summarize(samples),
	}
	for _, smp := range samples {
		out.Samples = append(out.Samples, sampleJSON{
			UnixNanos: smp.UnixNanos,
			XM:        smp.Pose.X.Metres(),
			YM:        smp.Pose.Y.Metres(),
			ThetaDeg:  smp.Pose.Theta.Degrees(),
		})
	}
	s.writeJSON(w, out)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		monitoring.Logf("api: failed to encode response: %v", err)
	}
}
