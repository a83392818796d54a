// demographics.go
package chart

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-gota/gota/dataframe"
)

// Demographics builds the survival-rate chart from the demographics table:
// one bar chart per passenger class (the facet axis), age groups on the x
// axis and one colored series per sex. Bar labels show the rate as a
// percentage with one decimal.
func (b *Builder) Demographics(df dataframe.DataFrame) ([]*charts.Bar, error) {
	if err := requireColumns(df, "pclass", "sex", "age_group", "survival_rate"); err != nil {
		return nil, err
	}

	type facet struct {
		groups []string                  // x axis, in table order
		rates  map[string][]opts.BarData // per sex
	}

	facets := make(map[int]*facet)
	var classOrder []int
	var sexOrder []string

	for i := 0; i < df.Nrow(); i++ {
		class, err := cellInt(df, "pclass", i)
		if err != nil {
			return nil, err
		}
		sex := cellString(df, "sex", i)
		group := cellString(df, "age_group", i)
		rate := cellFloat(df, "survival_rate", i)

		f, ok := facets[class]
		if !ok {
			f = &facet{rates: make(map[string][]opts.BarData)}
			facets[class] = f
			classOrder = append(classOrder, class)
		}
		if !containsString(f.groups, group) {
			f.groups = append(f.groups, group)
		}
		if _, ok := f.rates[sex]; !ok {
			if !containsString(sexOrder, sex) {
				sexOrder = append(sexOrder, sex)
			}
		}
		f.rates[sex] = append(f.rates[sex], opts.BarData{Value: rate})
	}

	bars := make([]*charts.Bar, 0, len(classOrder))
	for _, class := range classOrder {
		f := facets[class]

		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title:      fmt.Sprintf("Class %d: Survival Rates by Age Group and Sex", class),
				TitleStyle: &opts.TextStyle{FontSize: titleFontSize},
			}),
			charts.WithInitializationOpts(opts.Initialization{Height: chartHeight}),
			charts.WithLegendOpts(opts.Legend{Show: true}),
			charts.WithTooltipOpts(opts.Tooltip{Show: true}),
			charts.WithXAxisOpts(opts.XAxis{Name: "Age Group"}),
			charts.WithYAxisOpts(opts.YAxis{
				Name:      "Survival Rate",
				AxisLabel: &opts.AxisLabel{Show: true, Formatter: percentAxis},
			}),
		)

		bar.SetXAxis(f.groups)
		for _, sex := range sexOrder {
			bar.AddSeries(sex, f.rates[sex],
				charts.WithItemStyleOpts(opts.ItemStyle{Color: b.sexColor(sex)}),
				charts.WithLabelOpts(opts.Label{
					Show:      true,
					Position:  "top",
					Formatter: percentLabel,
				}),
			)
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

func containsString(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
