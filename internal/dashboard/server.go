package dashboard

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/naka-gawa/commit-race/internal/metrics"
)

// SnapshotSource is the part of Poller used by the HTTP handlers.
type SnapshotSource interface {
	Snapshot() (Snapshot, bool)
}

// NewRouter wires the dashboard routes. The page asks the browser to reload
// every refreshSeconds so the view follows the poller.
func NewRouter(source SnapshotSource, recorder *metrics.Recorder, refreshSeconds int, logger *log.Logger, accessLog io.Writer) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", pageHandler(source, refreshSeconds, logger)).Methods(http.MethodGet)
	r.HandleFunc("/api/snapshot", snapshotHandler(source, logger)).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthHandler(source)).Methods(http.MethodGet)
	if recorder != nil {
		r.Handle("/metrics", recorder.Handler()).Methods(http.MethodGet)
	}
	return handlers.CompressHandler(handlers.LoggingHandler(accessLog, r))
}

func pageHandler(source SnapshotSource, refreshSeconds int, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, _ := source.Snapshot()
		var buf bytes.Buffer
		if err := RenderHTML(&buf, snap); err != nil {
			logger.Printf("dashboard: %v\n", err)
			http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if refreshSeconds > 0 {
			w.Header().Set("Refresh", strconv.Itoa(refreshSeconds))
		}
		if _, err := buf.WriteTo(w); err != nil {
			logger.Printf("dashboard: failed to write page: %v\n", err)
		}
	}
}

func snapshotHandler(source SnapshotSource, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := source.Snapshot()
		if !ok {
			http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			logger.Printf("dashboard: failed to encode snapshot: %v\n", err)
		}
	}
}

func healthHandler(source SnapshotSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, ok := source.Snapshot(); !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT_READY"))
			return
		}
		_, _ = w.Write([]byte("OK"))
	}
}
