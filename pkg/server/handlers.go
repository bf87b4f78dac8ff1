package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zrcal/zrcal/pkg/ical"
	"github.com/zrcal/zrcal/pkg/metrics"
	"github.com/zrcal/zrcal/pkg/schedule"
	"github.com/zrcal/zrcal/pkg/waste"
)

//go:embed templates/*.html
var templateFiles embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFiles, "templates/index.html"))

// Zips lists the Zürich postal codes offered on the landing page.
var Zips = []int{
	8001, 8002, 8003, 8004, 8005, 8006, 8008,
	8032, 8037, 8038, 8041, 8044, 8045, 8046,
	8047, 8048, 8049, 8050, 8051, 8052, 8053,
	8055, 8057, 8064,
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	type typeEntry struct {
		Key   waste.Type
		Label string
	}
	var types []typeEntry
	for _, t := range waste.KnownTypes() {
		types = append(types, typeEntry{Key: t, Label: waste.Label(t)})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTmpl.Execute(w, map[string]any{
		"Zips":  Zips,
		"Types": types,
	})
	if err != nil {
		s.log.Error("failed to render index", "error", err)
	}
}

// handleCalendar serves the filtered calendar download for one PLZ.
// Types come from the path ("8001/papier+karton"), falling back to the
// space-separated "types" query parameter; no filter means all types.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	zipStr := chi.URLParam(r, "zip")
	if zipStr == "" {
		zipStr = r.URL.Query().Get("zip")
	}
	zip, err := strconv.Atoi(zipStr)
	if err != nil {
		http.Error(w, "invalid zip", http.StatusBadRequest)
		return
	}

	var types []waste.Type
	if p := chi.URLParam(r, "types"); p != "" {
		for _, t := range strings.Split(p, "+") {
			types = append(types, waste.Type(t))
		}
	} else if q := r.URL.Query().Get("types"); q != "" {
		for _, t := range strings.Fields(q) {
			types = append(types, waste.Type(t))
		}
	} else {
		types = waste.KnownTypes()
	}

	events, err := s.cfg.Store.EventsByZip(r.Context(), zip)
	if err != nil {
		s.log.Error("failed to read events", "zip", zip, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	wanted := make(map[waste.Type]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}
	filtered := make([]schedule.Event, 0, len(events))
	for _, ev := range events {
		if wanted[ev.Type] {
			filtered = append(filtered, ev)
		}
	}

	w.Header().Set("Content-Type", `text/calendar; charset="utf-8"`)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=zrcal-%d.ics", zip))
	ical.Render(w, zip, filtered, time.Now())
}

// handleLoadCalendar triggers ingestion. "types" is space separated,
// "type" names a single type, neither means every known type; "year"
// defaults to the year two months ahead so next year's schedules are
// loaded from November on.
func (s *Server) handleLoadCalendar(w http.ResponseWriter, r *http.Request) {
	var types []waste.Type
	if q := r.URL.Query().Get("types"); q != "" {
		for _, t := range strings.Fields(q) {
			types = append(types, waste.Type(t))
		}
	} else if q := r.URL.Query().Get("type"); q != "" {
		types = append(types, waste.Type(q))
	} else {
		types = waste.KnownTypes()
	}

	year := s.cfg.Ingestor.DefaultYear()
	if q := r.URL.Query().Get("year"); q != "" {
		y, err := strconv.Atoi(q)
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
		year = y
	}

	results := s.cfg.Ingestor.Run(r.Context(), types, year)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	for _, res := range results {
		metrics.RecordIngest(string(res.Type), res.Events, res.SkippedRows, res.Err)
		if res.Err != nil {
			fmt.Fprintf(w, "%s: %s<br />\n",
				template.HTMLEscapeString(string(res.Type)),
				template.HTMLEscapeString(res.Err.Error()))
			continue
		}
		fmt.Fprintf(w, "<a href=\"%s\">%s</a>: %d<br />\n",
			res.URL, template.HTMLEscapeString(string(res.Type)), res.Events)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok\n")); err != nil {
		s.log.Error("failed to write healthz response", "error", err)
	}
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Store.Ping(r.Context()); err != nil {
		s.log.Debug("readyz: store not reachable", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte("store not reachable\n")); err != nil {
			s.log.Error("failed to write readyz response", "error", err)
		}
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok\n")); err != nil {
		s.log.Error("failed to write readyz response", "error", err)
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(s.cfg.VersionInfo); err != nil {
		s.log.Error("failed to write version response", "error", err)
	}
}
