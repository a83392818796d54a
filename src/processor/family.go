// family.go
package processor

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TitanicInsight/src/utils"
)

// FamilyGroups relates family size to ticket fares per class. family_size is
// SibSp + Parch + 1 (the passenger included), so it is defined for every
// record. Unlike the demographics table only observed (family_size, class)
// combinations are emitted, ordered by class then family size.
// Columns: family_size, pclass, n_passengers, avg_fare, min_fare, max_fare
// (fares rounded to 2 decimals; records with an absent fare still count but
// contribute nothing to the fare statistics).
func (a *Analyzer) FamilyGroups(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := requireColumns(df, ColPclass, ColSibSp, ColParch, ColFare); err != nil {
		return dataframe.DataFrame{}, err
	}

	type key struct {
		size  int
		class int
	}
	type agg struct {
		count   int
		fareN   int
		fareSum float64
		fareMin float64
		fareMax float64
	}

	classCol := df.Col(ColPclass)
	sibCol := df.Col(ColSibSp)
	parCol := df.Col(ColParch)
	fareCol := df.Col(ColFare)

	groups := make(map[key]*agg)

	for i := 0; i < df.Nrow(); i++ {
		class, err := classCol.Elem(i).Int()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%w: non-integer Pclass at row %d", ErrSchema, i)
		}
		sib, err := sibCol.Elem(i).Int()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%w: non-integer SibSp at row %d", ErrSchema, i)
		}
		par, err := parCol.Elem(i).Int()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%w: non-integer Parch at row %d", ErrSchema, i)
		}

		k := key{size: sib + par + 1, class: class}
		g, ok := groups[k]
		if !ok {
			g = &agg{}
			groups[k] = g
		}
		g.count++

		if fareCol.Elem(i).IsNA() {
			continue
		}
		fare := fareCol.Elem(i).Float()
		if g.fareN == 0 || fare < g.fareMin {
			g.fareMin = fare
		}
		if g.fareN == 0 || fare > g.fareMax {
			g.fareMax = fare
		}
		g.fareSum += fare
		g.fareN++
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].class != keys[j].class {
			return keys[i].class < keys[j].class
		}
		return keys[i].size < keys[j].size
	})

	outSize := make([]int, 0, len(keys))
	outClass := make([]int, 0, len(keys))
	outN := make([]int, 0, len(keys))
	outAvg := make([]float64, 0, len(keys))
	outMin := make([]float64, 0, len(keys))
	outMax := make([]float64, 0, len(keys))

	for _, k := range keys {
		g := groups[k]

		var avg, min, max float64
		if g.fareN > 0 {
			avg = utils.Round(g.fareSum/float64(g.fareN), 2)
			min = utils.Round(g.fareMin, 2)
			max = utils.Round(g.fareMax, 2)
		}

		outSize = append(outSize, k.size)
		outClass = append(outClass, k.class)
		outN = append(outN, g.count)
		outAvg = append(outAvg, avg)
		outMin = append(outMin, min)
		outMax = append(outMax, max)
	}

	return dataframe.New(
		series.New(outSize, series.Int, "family_size"),
		series.New(outClass, series.Int, "pclass"),
		series.New(outN, series.Int, "n_passengers"),
		series.New(outAvg, series.Float, "avg_fare"),
		series.New(outMin, series.Float, "min_fare"),
		series.New(outMax, series.Float, "max_fare"),
	), nil
}
