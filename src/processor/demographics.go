// demographics.go
package processor

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TitanicInsight/src/utils"
)

// SurvivalDemographics computes survival statistics per (class, sex, age
// group). The output always holds the complete cross-product of category
// values — 24 rows with the default bins — so that combinations without
// matching passengers still appear, zero-filled, with survival_rate 0.0.
// Omitting the empty rows would be a behavioral regression, not a cleanup.
//
// Records with an absent age populate no bucket. Rows are ordered by class,
// then sex, then age group in bin order. Columns: pclass, sex, age_group,
// n_passengers, n_survivors, survival_rate (rounded to 3 decimals).
func (a *Analyzer) SurvivalDemographics(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := requireColumns(df, ColPclass, ColSex, ColAge, ColSurvived); err != nil {
		return dataframe.DataFrame{}, err
	}

	type key struct {
		class int
		sex   string
		group string
	}

	classCol := df.Col(ColPclass)
	sexCol := df.Col(ColSex)
	ageCol := df.Col(ColAge)
	survCol := df.Col(ColSurvived)

	counts := make(map[key]int)
	survivors := make(map[key]int)

	for i := 0; i < df.Nrow(); i++ {
		if ageCol.Elem(i).IsNA() {
			continue
		}
		group, ok := a.grouper.GroupFor(ageCol.Elem(i).Float())
		if !ok {
			continue
		}

		class, err := classCol.Elem(i).Int()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%w: non-integer Pclass at row %d", ErrSchema, i)
		}
		survived, err := survCol.Elem(i).Int()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%w: non-integer Survived at row %d", ErrSchema, i)
		}

		k := key{class: class, sex: sexCol.Elem(i).String(), group: group}
		counts[k]++
		if survived != 0 {
			survivors[k]++
		}
	}

	n := len(classes) * len(sexes) * len(a.grouper.Labels())
	outClass := make([]int, 0, n)
	outSex := make([]string, 0, n)
	outGroup := make([]string, 0, n)
	outN := make([]int, 0, n)
	outSurv := make([]int, 0, n)
	outRate := make([]float64, 0, n)

	for _, class := range classes {
		for _, sex := range sexes {
			for _, group := range a.grouper.Labels() {
				k := key{class: class, sex: sex, group: group}
				count := counts[k]
				surv := survivors[k]

				rate := 0.0
				if count > 0 {
					rate = utils.Round(float64(surv)/float64(count), 3)
				}

				outClass = append(outClass, class)
				outSex = append(outSex, sex)
				outGroup = append(outGroup, group)
				outN = append(outN, count)
				outSurv = append(outSurv, surv)
				outRate = append(outRate, rate)
			}
		}
	}

	return dataframe.New(
		series.New(outClass, series.Int, "pclass"),
		series.New(outSex, series.String, "sex"),
		series.New(outGroup, series.String, "age_group"),
		series.New(outN, series.Int, "n_passengers"),
		series.New(outSurv, series.Int, "n_survivors"),
		series.New(outRate, series.Float, "survival_rate"),
	), nil
}
