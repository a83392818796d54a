// chart.go
package chart

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-gota/gota/dataframe"

	"TitanicInsight/src/config"
	"TitanicInsight/src/utils"
)

// Default visual encodings, overridable through DataConfig.
var (
	defaultSexColors = map[string]string{
		"male":   "#2E86AB",
		"female": "#A23B72",
	}
	defaultClassColors = map[string]string{
		"1": "#2C3E50",
		"2": "#E74C3C",
		"3": "#BDC3C7",
	}
	defaultDivisionColors = map[string]string{
		"Above Median Age":    "#34495E",
		"Below/At Median Age": "#95A5A6",
	}
)

const (
	chartHeight   = "500px"
	titleFontSize = 16
)

// percentLabel renders a rate as a percentage with one decimal on the bars.
var percentLabel = opts.FuncOpts("function (p) { return (p.value * 100).toFixed(1) + '%'; }")

// percentAxis renders the rate axis as whole percentages.
var percentAxis = opts.FuncOpts("function (value) { return (value * 100).toFixed(0) + '%'; }")

// Builder projects result tables into chart specifications. It performs no
// computation beyond formatting: every builder is a projection of table
// columns onto visual channels.
type Builder struct {
	dcfg *config.DataConfig
}

func NewBuilder(dcfg *config.DataConfig) *Builder {
	return &Builder{dcfg: dcfg}
}

func (b *Builder) sexColor(sex string) string {
	if b.dcfg != nil {
		if c := b.dcfg.GetSexColor(sex); c != "" {
			return c
		}
	}
	return defaultSexColors[sex]
}

func (b *Builder) classColor(class string) string {
	if b.dcfg != nil {
		if c := b.dcfg.GetClassColor(class); c != "" {
			return c
		}
	}
	return defaultClassColors[class]
}

func (b *Builder) divisionColor(division string) string {
	if b.dcfg != nil {
		if c := b.dcfg.GetDivisionColor(division); c != "" {
			return c
		}
	}
	return defaultDivisionColors[division]
}

func requireColumns(df dataframe.DataFrame, cols ...string) error {
	for _, c := range cols {
		if !utils.HasColumn(df, c) {
			return fmt.Errorf("chart input is missing column %q", c)
		}
	}
	return nil
}

func cellInt(df dataframe.DataFrame, col string, row int) (int, error) {
	v, err := df.Col(col).Elem(row).Int()
	if err != nil {
		return 0, fmt.Errorf("column %s row %d: %w", col, row, err)
	}
	return v, nil
}

func cellFloat(df dataframe.DataFrame, col string, row int) float64 {
	return df.Col(col).Elem(row).Float()
}

func cellString(df dataframe.DataFrame, col string, row int) string {
	return df.Col(col).Elem(row).String()
}
