package api

import (
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/liam830666/LemLib/internal/trail"
)

// handleTrailChart renders the recorded trail as an XY scatter chart
// (HTML). Debugging aid for eyeballing a run without separate tooling.
func (s *Server) handleTrailChart(w http.ResponseWriter, r *http.Request) {
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

	data := make([]opts.ScatterData, 0, len(samples))
	for _, smp := range samples {
		data = append(data, opts.ScatterData{
			Value:      []interface{}{smp.Pose.X.Metres(), smp.Pose.Y.Metres()},
			SymbolSize: 4,
		})
	}

	sum := trail.Summarize(samples)
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "odometry trail",
			Subtitle: fmt.Sprintf("session %s — %d samples, %.2fm path",
				s.recorder.SessionID(), sum.Samples, sum.PathLength),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x (m)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y (m)"}),
	)
	scatter.AddSeries("pose", data)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := scatter.Render(w); err != nil {
		http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
	}
}
