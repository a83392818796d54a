// families.go
package chart

import (
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-gota/gota/dataframe"
)

// Families builds the fare-versus-family-size scatter from the family
// groups table: one series per class, average fare on the y axis and the
// symbol size scaled by the number of passengers in the group.
func (b *Builder) Families(df dataframe.DataFrame) (*charts.Scatter, error) {
	if err := requireColumns(df, "family_size", "pclass", "n_passengers", "avg_fare"); err != nil {
		return nil, err
	}

	points := make(map[int][]opts.ScatterData)
	var classOrder []int

	for i := 0; i < df.Nrow(); i++ {
		class, err := cellInt(df, "pclass", i)
		if err != nil {
			return nil, err
		}
		size, err := cellInt(df, "family_size", i)
		if err != nil {
			return nil, err
		}
		n, err := cellInt(df, "n_passengers", i)
		if err != nil {
			return nil, err
		}
		avg := cellFloat(df, "avg_fare", i)

		if _, ok := points[class]; !ok {
			classOrder = append(classOrder, class)
		}
		points[class] = append(points[class], opts.ScatterData{
			Value:      []interface{}{size, avg},
			SymbolSize: symbolSize(n),
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:      "Family Size vs Average Fare by Passenger Class",
			TitleStyle: &opts.TextStyle{FontSize: titleFontSize},
		}),
		charts.WithInitializationOpts(opts.Initialization{Height: chartHeight}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Family Size", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Average Fare (£)", Type: "value"}),
	)

	for _, class := range classOrder {
		label := fmt.Sprintf("Class %d", class)
		scatter.AddSeries(label, points[class],
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color:   b.classColor(fmt.Sprintf("%d", class)),
				Opacity: 0.8,
			}),
		)
	}

	return scatter, nil
}

// symbolSize maps a group's passenger count to a marker size, square-root
// scaled so the marker area tracks the count.
func symbolSize(n int) int {
	if n < 1 {
		n = 1
	}
	return 6 + int(4*math.Sqrt(float64(n)))
}
