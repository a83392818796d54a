package dashboard

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TitanicInsight/src/chart"
	"TitanicInsight/src/processor"
	"TitanicInsight/src/storage"
)

func passengerFrame() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"PassengerId", "Survived", "Pclass", "Name", "Sex", "Age", "SibSp", "Parch", "Fare"},
		{"1", "1", "1", "Cumings, Mrs. John Bradley", "female", "38", "1", "0", "71.28"},
		{"2", "0", "1", "Uruchurtu, Don. Manuel E", "male", "40", "0", "0", "27.72"},
		{"3", "0", "2", "Turpin, Mr. William John Robert", "male", "29", "1", "0", "21.0"},
		{"4", "1", "2", "Turpin, Mrs. William John Robert", "female", "27", "1", "0", "21.0"},
		{"5", "1", "3", "Johnson, Miss. Eleanor", "female", "1", "1", "1", "11.13"},
		{"6", "0", "3", "Johnson, Mr. Alfred", "male", "49", "0", "0", "9.5"},
	}, dataframe.WithTypes(map[string]series.Type{
		"Survived": series.Int,
		"Pclass":   series.Int,
		"Age":      series.Float,
		"SibSp":    series.Int,
		"Parch":    series.Int,
		"Fare":     series.Float,
	}))
}

func refreshedDashboard(t *testing.T) *Dashboard {
	t.Helper()
	d := New(processor.NewAnalyzer(nil), chart.NewBuilder(nil), 10)
	if _, err := d.Refresh(passengerFrame()); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRefreshProducesAllTables(t *testing.T) {
	d := refreshedDashboard(t)

	res := d.Results()
	if res == nil {
		t.Fatal("no results after refresh")
	}
	if got := res.Demographics.Nrow(); got != 24 {
		t.Errorf("demographics rows = %d, want 24", got)
	}
	if res.AgeDivision.Nrow() != 6 {
		t.Errorf("age division rows = %d, want 6", res.AgeDivision.Nrow())
	}
	if res.ClassMedians.Nrow() != 3 {
		t.Errorf("class medians rows = %d, want 3", res.ClassMedians.Nrow())
	}
}

func TestNarrativeLines(t *testing.T) {
	d := refreshedDashboard(t)

	joined := strings.Join(d.Narrative(), "\n")
	if !strings.Contains(joined, "6 passengers share 4 distinct family names.") {
		t.Errorf("missing family-name summary in:\n%s", joined)
	}
	if !strings.Contains(joined, "Median age in class 2: 28.0 years.") {
		t.Errorf("missing class 2 median in:\n%s", joined)
	}
}

func TestExportHTML(t *testing.T) {
	d := refreshedDashboard(t)

	path := filepath.Join(t.TempDir(), "dashboard.html")
	if err := d.ExportHTML(path); err != nil {
		t.Fatal(err)
	}

	unrendered := New(processor.NewAnalyzer(nil), chart.NewBuilder(nil), 10)
	if err := unrendered.ExportHTML(path); err == nil {
		t.Error("export succeeded before any refresh")
	}
}

func TestHandlerRoutes(t *testing.T) {
	logger, err := storage.NewLogger(filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	d := refreshedDashboard(t)
	srv := httptest.NewServer(d.Handler(logger))
	defer srv.Close()

	page := get(t, srv.URL+"/")
	if !strings.Contains(page, "Titanic Insight") {
		t.Error("page does not carry its title")
	}

	table := get(t, srv.URL+"/tables/demographics.csv")
	if !strings.Contains(table, "survival_rate") {
		t.Errorf("demographics csv missing header: %q", table[:min(len(table), 80)])
	}

	resp, err := http.Get(srv.URL + "/tables/nope.csv")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown table status = %d", resp.StatusCode)
	}
}

func TestHandlerBeforeRefresh(t *testing.T) {
	logger, err := storage.NewLogger(filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	d := New(processor.NewAnalyzer(nil), chart.NewBuilder(nil), 10)
	srv := httptest.NewServer(d.Handler(logger))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status before refresh = %d, want 503", resp.StatusCode)
	}
}

func get(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}
