// server.go
package dashboard

import (
	"fmt"
	"net/http"
	"strings"

	"TitanicInsight/src/storage"
)

// Handler builds the dashboard's HTTP routes. The logger feeds the /logs
// stream through its subscriber channel.
func (d *Dashboard) Handler(logger *storage.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", d.servePage)
	mux.HandleFunc("/narrative", d.serveNarrative)
	mux.HandleFunc("/tables/", d.serveTable)
	mux.HandleFunc("/logs", func(w http.ResponseWriter, r *http.Request) {
		serveLogs(logger, w, r)
	})
	return mux
}

func (d *Dashboard) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	d.mu.RLock()
	html := d.html
	d.mu.RUnlock()

	if len(html) == 0 {
		http.Error(w, "analysis has not run yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func (d *Dashboard) serveNarrative(w http.ResponseWriter, r *http.Request) {
	d.mu.RLock()
	lines := d.narrative
	d.mu.RUnlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

// serveTable exposes each result table as CSV under /tables/<name>.csv.
func (d *Dashboard) serveTable(w http.ResponseWriter, r *http.Request) {
	d.mu.RLock()
	res := d.results
	d.mu.RUnlock()

	if res == nil {
		http.Error(w, "analysis has not run yet", http.StatusServiceUnavailable)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/tables/")
	name = strings.TrimSuffix(name, ".csv")
	df, ok := tablesFor(res)[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := df.WriteCSV(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// serveLogs streams log entries to the client until it disconnects.
func serveLogs(logger *storage.Logger, w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	flusher.Flush()

	entries := logger.Subscribe()
	for {
		select {
		case <-r.Context().Done():
			return
		case entry := <-entries:
			fmt.Fprint(w, entry)
			flusher.Flush()
		}
	}
}
