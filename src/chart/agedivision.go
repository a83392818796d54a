// agedivision.go
package chart

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-gota/gota/dataframe"

	"TitanicInsight/src/processor"
)

// Division labels used in the legend and the color map.
const (
	AboveMedianLabel = "Above Median Age"
	BelowMedianLabel = "Below/At Median Age"
)

// AgeDivision builds the grouped bar chart of survival rates per class,
// split into passengers above and below/at their class's median age. Input
// is the AgeDivisionSurvival table.
func (b *Builder) AgeDivision(df dataframe.DataFrame) (*charts.Bar, error) {
	if err := requireColumns(df, "pclass", processor.OlderPassengerCol, "survival_rate"); err != nil {
		return nil, err
	}

	var classLabels []string
	classIndex := make(map[int]int)
	rates := map[string][]opts.BarData{
		BelowMedianLabel: nil,
		AboveMedianLabel: nil,
	}

	for i := 0; i < df.Nrow(); i++ {
		class, err := cellInt(df, "pclass", i)
		if err != nil {
			return nil, err
		}
		if _, ok := classIndex[class]; !ok {
			classIndex[class] = len(classLabels)
			classLabels = append(classLabels, fmt.Sprintf("Class %d", class))
			rates[BelowMedianLabel] = append(rates[BelowMedianLabel], opts.BarData{Value: 0.0})
			rates[AboveMedianLabel] = append(rates[AboveMedianLabel], opts.BarData{Value: 0.0})
		}

		older, err := df.Col(processor.OlderPassengerCol).Elem(i).Bool()
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", processor.OlderPassengerCol, i, err)
		}
		division := BelowMedianLabel
		if older {
			division = AboveMedianLabel
		}
		rates[division][classIndex[class]] = opts.BarData{Value: cellFloat(df, "survival_rate", i)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:      "Survival Rates by Age Division Within Each Passenger Class",
			TitleStyle: &opts.TextStyle{FontSize: titleFontSize},
		}),
		charts.WithInitializationOpts(opts.Initialization{Height: chartHeight}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Passenger Class"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Survival Rate",
			AxisLabel: &opts.AxisLabel{Show: true, Formatter: percentAxis},
		}),
	)

	bar.SetXAxis(classLabels)
	for _, division := range []string{BelowMedianLabel, AboveMedianLabel} {
		bar.AddSeries(division, rates[division],
			charts.WithItemStyleOpts(opts.ItemStyle{Color: b.divisionColor(division)}),
			charts.WithLabelOpts(opts.Label{
				Show:      true,
				Position:  "top",
				Formatter: percentLabel,
			}),
		)
	}

	return bar, nil
}
