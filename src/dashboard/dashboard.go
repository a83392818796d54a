// dashboard.go
package dashboard

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-gota/gota/dataframe"

	"TitanicInsight/src/chart"
	"TitanicInsight/src/processor"
)

// Results bundles every table one analysis pass produces.
type Results struct {
	Demographics        dataframe.DataFrame
	FamilyGroups        dataframe.DataFrame
	LastNames           dataframe.DataFrame
	AgeDivision         dataframe.DataFrame // record set + older_passenger
	AgeDivisionSurvival dataframe.DataFrame
	ClassMedians        dataframe.DataFrame
}

// Dashboard sequences the analysis: aggregators, chart builders, page
// rendering and narrative. A refresh replaces the whole rendered state;
// handlers only ever read it.
type Dashboard struct {
	analyzer *processor.Analyzer
	builder  *chart.Builder
	topNames int

	mu        sync.RWMutex
	results   *Results
	html      []byte
	narrative []string
}

func New(analyzer *processor.Analyzer, builder *chart.Builder, topNames int) *Dashboard {
	if topNames <= 0 {
		topNames = 15
	}
	return &Dashboard{
		analyzer: analyzer,
		builder:  builder,
		topNames: topNames,
	}
}

// Refresh recomputes every table and chart from a freshly loaded record
// set and swaps in the rendered page. The input frame is the single
// explicit dataset input; nothing is refetched here.
func (d *Dashboard) Refresh(df dataframe.DataFrame) (*Results, error) {
	res, err := d.compute(df)
	if err != nil {
		return nil, err
	}

	html, err := d.render(res)
	if err != nil {
		return nil, err
	}
	lines := narrative(res)

	d.mu.Lock()
	d.results = res
	d.html = html
	d.narrative = lines
	d.mu.Unlock()

	return res, nil
}

func (d *Dashboard) compute(df dataframe.DataFrame) (*Results, error) {
	demographics, err := d.analyzer.SurvivalDemographics(df)
	if err != nil {
		return nil, fmt.Errorf("survival demographics: %w", err)
	}

	families, err := d.analyzer.FamilyGroups(df)
	if err != nil {
		return nil, fmt.Errorf("family groups: %w", err)
	}

	names, err := d.analyzer.LastNames(df)
	if err != nil {
		return nil, fmt.Errorf("last names: %w", err)
	}

	divided, err := d.analyzer.DetermineAgeDivision(df)
	if err != nil {
		return nil, fmt.Errorf("age division: %w", err)
	}

	divisionSurvival, err := d.analyzer.AgeDivisionSurvival(divided)
	if err != nil {
		return nil, fmt.Errorf("age division survival: %w", err)
	}

	medians, err := d.analyzer.ClassMedianAges(df)
	if err != nil {
		return nil, fmt.Errorf("class median ages: %w", err)
	}

	return &Results{
		Demographics:        demographics,
		FamilyGroups:        families,
		LastNames:           names,
		AgeDivision:         divided,
		AgeDivisionSurvival: divisionSurvival,
		ClassMedians:        medians,
	}, nil
}

func (d *Dashboard) render(res *Results) ([]byte, error) {
	page := components.NewPage()
	page.PageTitle = "Titanic Insight"
	page.SetLayout(components.PageFlexLayout)

	demographicBars, err := d.builder.Demographics(res.Demographics)
	if err != nil {
		return nil, err
	}
	for _, bar := range demographicBars {
		page.AddCharts(bar)
	}

	familyScatter, err := d.builder.Families(res.FamilyGroups)
	if err != nil {
		return nil, err
	}
	page.AddCharts(familyScatter)

	namesBar, err := d.builder.LastNamesTop(res.LastNames, d.topNames)
	if err != nil {
		return nil, err
	}
	page.AddCharts(namesBar)

	divisionBar, err := d.builder.AgeDivision(res.AgeDivisionSurvival)
	if err != nil {
		return nil, err
	}
	page.AddCharts(divisionBar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering dashboard page: %w", err)
	}
	return buf.Bytes(), nil
}

// Results returns the tables of the last refresh, nil before the first.
func (d *Dashboard) Results() *Results {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.results
}

// Narrative returns the text lines of the last refresh.
func (d *Dashboard) Narrative() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.narrative
}

// ExportHTML writes the rendered page to a static file.
func (d *Dashboard) ExportHTML(filePath string) error {
	d.mu.RLock()
	html := d.html
	d.mu.RUnlock()

	if len(html) == 0 {
		return fmt.Errorf("dashboard has not been rendered yet")
	}
	if err := os.WriteFile(filePath, html, 0644); err != nil {
		return fmt.Errorf("exporting dashboard html: %w", err)
	}
	return nil
}
