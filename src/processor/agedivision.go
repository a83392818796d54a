// agedivision.go
package processor

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TitanicInsight/src/utils"
)

// OlderPassengerCol is the Bool column added by DetermineAgeDivision.
const OlderPassengerCol = "older_passenger"

// DetermineAgeDivision augments the record set with an older_passenger
// column: true iff the passenger's age is strictly above the median of
// defined ages in their class. Records with an absent age get false, never
// NA. No rows are added or dropped.
func (a *Analyzer) DetermineAgeDivision(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	medians, err := classMedianAges(df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	classCol := df.Col(ColPclass)
	ageCol := df.Col(ColAge)

	older := make([]bool, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		if ageCol.Elem(i).IsNA() {
			continue
		}
		class, err := classCol.Elem(i).Int()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%w: non-integer Pclass at row %d", ErrSchema, i)
		}
		median, ok := medians[class]
		if !ok {
			// class without any defined age, nothing to compare against
			continue
		}
		older[i] = ageCol.Elem(i).Float() > median
	}

	out := df.Mutate(series.New(older, series.Bool, OlderPassengerCol))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("adding %s column: %w", OlderPassengerCol, out.Err)
	}
	return out, nil
}

// AgeDivisionSurvival rolls the age-division table up into survival
// statistics per (class, older_passenger). Input is the output of
// DetermineAgeDivision. Only observed combinations are emitted, ordered by
// class with the below-median group first. Backs the age-division chart.
// Columns: pclass, older_passenger, n_passengers, n_survivors, survival_rate.
func (a *Analyzer) AgeDivisionSurvival(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := requireColumns(df, ColPclass, ColSurvived, OlderPassengerCol); err != nil {
		return dataframe.DataFrame{}, err
	}

	type key struct {
		class int
		older bool
	}

	classCol := df.Col(ColPclass)
	survCol := df.Col(ColSurvived)
	olderCol := df.Col(OlderPassengerCol)

	counts := make(map[key]int)
	survivors := make(map[key]int)

	for i := 0; i < df.Nrow(); i++ {
		class, err := classCol.Elem(i).Int()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%w: non-integer Pclass at row %d", ErrSchema, i)
		}
		older, err := olderCol.Elem(i).Bool()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%w: non-bool %s at row %d", ErrSchema, OlderPassengerCol, i)
		}
		survived, err := survCol.Elem(i).Int()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%w: non-integer Survived at row %d", ErrSchema, i)
		}

		k := key{class: class, older: older}
		counts[k]++
		if survived != 0 {
			survivors[k]++
		}
	}

	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].class != keys[j].class {
			return keys[i].class < keys[j].class
		}
		return !keys[i].older && keys[j].older
	})

	outClass := make([]int, 0, len(keys))
	outOlder := make([]bool, 0, len(keys))
	outN := make([]int, 0, len(keys))
	outSurv := make([]int, 0, len(keys))
	outRate := make([]float64, 0, len(keys))

	for _, k := range keys {
		count := counts[k]
		surv := survivors[k]

		rate := 0.0
		if count > 0 {
			rate = utils.Round(float64(surv)/float64(count), 3)
		}

		outClass = append(outClass, k.class)
		outOlder = append(outOlder, k.older)
		outN = append(outN, count)
		outSurv = append(outSurv, surv)
		outRate = append(outRate, rate)
	}

	return dataframe.New(
		series.New(outClass, series.Int, "pclass"),
		series.New(outOlder, series.Bool, OlderPassengerCol),
		series.New(outN, series.Int, "n_passengers"),
		series.New(outSurv, series.Int, "n_survivors"),
		series.New(outRate, series.Float, "survival_rate"),
	), nil
}
