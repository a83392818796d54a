// names.go
package chart

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-gota/gota/dataframe"
)

// LastNamesTop builds a bar chart of the n most frequent surnames from the
// last-names table (already ordered by descending count).
func (b *Builder) LastNamesTop(df dataframe.DataFrame, n int) (*charts.Bar, error) {
	if err := requireColumns(df, "surname", "count"); err != nil {
		return nil, err
	}

	if n <= 0 || n > df.Nrow() {
		n = df.Nrow()
	}

	surnames := make([]string, 0, n)
	counts := make([]opts.BarData, 0, n)
	for i := 0; i < n; i++ {
		surnames = append(surnames, cellString(df, "surname", i))
		c, err := cellInt(df, "count", i)
		if err != nil {
			return nil, err
		}
		counts = append(counts, opts.BarData{Value: c})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:      "Most Common Family Names Aboard",
			TitleStyle: &opts.TextStyle{FontSize: titleFontSize},
		}),
		charts.WithInitializationOpts(opts.Initialization{Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Surname",
			AxisLabel: &opts.AxisLabel{Show: true, Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Passengers"}),
	)

	bar.SetXAxis(surnames)
	bar.AddSeries("passengers", counts,
		charts.WithLabelOpts(opts.Label{Show: true, Position: "top"}),
	)

	return bar, nil
}
