// File: sandlohttp/handler.go

// Package sandlohttp mounts read-only diagnostics for a store: liveness,
// occupancy stats, the live type list, per-type entity dumps and Prometheus
// metrics. Hosts mount the handler wherever they like; the library never
// opens a listener of its own.
package sandlohttp

import (
	"log/slog"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sandlodb "github.com/AndreaPrestia/sandlo-db"
	"github.com/AndreaPrestia/sandlo-db/metrics"
)

// Handler returns the diagnostics router for db.
//
//	GET /health                     liveness probe
//	GET /v1/stats                   occupancy snapshot
//	GET /v1/types                   live type names
//	GET /v1/types/{type}/entities   every record of one type
//	GET /metrics                    Prometheus exposition
func Handler(db *sandlodb.DB) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector(db))

	r := mux.NewRouter()
	r.Use(requestLog(slog.Default()))
	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/stats", handleStats(db)).Methods(http.MethodGet)
	r.HandleFunc("/v1/types", handleTypes(db)).Methods(http.MethodGet)
	r.HandleFunc("/v1/types/{type}/entities", handleEntities(db)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleStats(db *sandlodb.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, db.Stats())
	}
}

func handleTypes(db *sandlodb.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		names := make([]string, 0)
		for _, t := range db.Types() {
			names = append(names, typeName(t))
		}
		sort.Strings(names)
		writeJSON(w, http.StatusOK, map[string][]string{"types": names})
	}
}

func handleEntities(db *sandlodb.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		want := mux.Vars(r)["type"]
		for _, t := range db.Types() {
			if typeName(t) != want {
				continue
			}
			writeJSON(w, http.StatusOK, db.GetAll(t))
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown type: " + want})
	}
}

// typeName renders a tag the way /v1/types lists it: the package-qualified
// name with any pointer marker stripped, e.g. "main.Event".
func typeName(t reflect.Type) string {
	return strings.TrimPrefix(t.String(), "*")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
