// Command plot-trail renders a recorded odometry session to a PNG.
//
//	plot-trail -db trail.db -session <uuid> -out trail.png
//
// With no -session it plots the most recent session in the database.
package main

import (
	"database/sql"
	"flag"
	"log"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "modernc.org/sqlite"

	"github.com/liam830666/LemLib/internal/trail"
)

func main() {
	dbPath := flag.String("db", "trail.db", "trail database path")
	session := flag.String("session", "", "session uuid (default: most recent)")
	out := flag.String("out", "trail.png", "output PNG path")
	flag.Parse()

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("plot-trail: open %s: %v", *dbPath, err)
	}
	defer db.Close()

	sessionID, err := resolveSession(db, *session)
	if err != nil {
		log.Fatalf("plot-trail: %v", err)
	}

	samples, err := trail.SamplesForSession(db, sessionID)
	if err != nil {
		log.Fatalf("plot-trail: %v", err)
	}
	if len(samples) == 0 {
		log.Fatalf("plot-trail: session %s has no samples", sessionID)
	}

	if err := render(samples, sessionID, *out); err != nil {
		log.Fatalf("plot-trail: %v", err)
	}
	sum := trail.Summarize(samples)
	log.Printf("plot-trail: wrote %s (%d samples, %.2fm path)", *out, sum.Samples, sum.PathLength)
}

func resolveSession(db *sql.DB, arg string) (uuid.UUID, error) {
	if arg != "" {
		return uuid.Parse(arg)
	}
	var id string
	err := db.QueryRow(`SELECT session_id FROM sessions ORDER BY started_at DESC LIMIT 1`).Scan(&id)
	if err != nil {
		return uuid.UUID{}, err
	}
	return uuid.Parse(id)
}

func render(samples []trail.Sample, sessionID uuid.UUID, out string) error {
	p := plot.New()
	p.Title.Text = "odometry trail " + sessionID.String()
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.Pose.X.Metres()
		pts[i].Y = s.Pose.Y.Metres()
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line, plotter.NewGrid())

	return p.Save(6*vg.Inch, 6*vg.Inch, out)
}
