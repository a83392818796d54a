// names.go
package processor

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// LastNames counts passengers per surname. Rows are ordered by descending
// count; surnames with equal counts keep their first-appearance order in the
// record set, so the output is deterministic for a given input.
// Columns: surname, count. The counts always sum to the record count.
func (a *Analyzer) LastNames(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := requireColumns(df, ColName); err != nil {
		return dataframe.DataFrame{}, err
	}

	nameCol := df.Col(ColName)

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string

	for i := 0; i < df.Nrow(); i++ {
		surname := Surname(nameCol.Elem(i).String())
		if _, ok := counts[surname]; !ok {
			firstSeen[surname] = i
			order = append(order, surname)
		}
		counts[surname]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	outCount := make([]int, len(order))
	for i, surname := range order {
		outCount[i] = counts[surname]
	}

	return dataframe.New(
		series.New(order, series.String, "surname"),
		series.New(outCount, series.Int, "count"),
	), nil
}
