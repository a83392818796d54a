// narrative.go
package dashboard

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// narrative derives the headline text lines shown above the charts from
// the last-names and median-age tables.
func narrative(res *Results) []string {
	p := message.NewPrinter(language.English)
	var lines []string

	names := res.LastNames
	if names.Nrow() > 0 {
		total := 0
		for i := 0; i < names.Nrow(); i++ {
			if c, err := names.Col("count").Elem(i).Int(); err == nil {
				total += c
			}
		}
		lines = append(lines, p.Sprintf("%d passengers share %d distinct family names.",
			total, names.Nrow()))

		surname := names.Col("surname").Elem(0).String()
		if largest, err := names.Col("count").Elem(0).Int(); err == nil && largest > 1 {
			lines = append(lines, p.Sprintf("The largest family group aboard is %s with %d passengers.",
				surname, largest))
		}
	}

	medians := res.ClassMedians
	for i := 0; i < medians.Nrow(); i++ {
		class, err := medians.Col("pclass").Elem(i).Int()
		if err != nil {
			continue
		}
		age := medians.Col("median_age").Elem(i).Float()
		lines = append(lines, fmt.Sprintf("Median age in class %d: %.1f years.", class, age))
	}

	return lines
}

// tablesFor lists the result tables by the names used for the report
// sheets and the CSV endpoints.
func tablesFor(res *Results) map[string]dataframe.DataFrame {
	return map[string]dataframe.DataFrame{
		"demographics":          res.Demographics,
		"family_groups":         res.FamilyGroups,
		"last_names":            res.LastNames,
		"age_division_survival": res.AgeDivisionSurvival,
		"class_median_ages":     res.ClassMedians,
	}
}
