// passenger.go
package processor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TitanicInsight/src/utils"
)

// Column names of the standard Titanic passenger schema.
const (
	ColPassengerId = "PassengerId"
	ColSurvived    = "Survived"
	ColPclass      = "Pclass"
	ColName        = "Name"
	ColSex         = "Sex"
	ColAge         = "Age"
	ColSibSp       = "SibSp"
	ColParch       = "Parch"
	ColTicket      = "Ticket"
	ColFare        = "Fare"
	ColCabin       = "Cabin"
	ColEmbarked    = "Embarked"
)

// LoadOptions returns the gota load options giving the Titanic columns
// their proper types. Age and Fare load as Float so that empty fields come
// through as NA, never as zero.
func LoadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.WithTypes(map[string]series.Type{
			ColPassengerId: series.Int,
			ColSurvived:    series.Int,
			ColPclass:      series.Int,
			ColAge:         series.Float,
			ColSibSp:       series.Int,
			ColParch:       series.Int,
			ColFare:        series.Float,
		}),
	}
}

// ErrSchema marks a dataset whose columns do not match the expected schema.
var ErrSchema = errors.New("schema validation failed")

// RequiredColumns are the columns every loaded dataset must carry.
var RequiredColumns = []string{
	ColPassengerId, ColSurvived, ColPclass, ColName, ColSex,
	ColAge, ColSibSp, ColParch, ColFare,
}

var (
	classes = []int{1, 2, 3}
	sexes   = []string{"female", "male"}
)

// ValidateSchema checks that df carries every required column. A failure is
// fatal to the refresh that loaded the frame; there is no partial recovery.
func ValidateSchema(df dataframe.DataFrame) error {
	return requireColumns(df, RequiredColumns...)
}

func requireColumns(df dataframe.DataFrame, cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !utils.HasColumn(df, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %v", ErrSchema, missing)
	}
	return nil
}

// Surname extracts the family name from a "Surname, Title. GivenNames"
// passenger name: the trimmed text before the first comma, or the whole
// trimmed name when no comma occurs.
func Surname(name string) string {
	if idx := strings.Index(name, ","); idx >= 0 {
		return strings.TrimSpace(name[:idx])
	}
	return strings.TrimSpace(name)
}

// AgeGrouper buckets ages into ordered labeled categories over half-open
// (lo, hi] intervals. The last bin is unbounded above.
type AgeGrouper struct {
	bins   []float64
	labels []string
}

// NewAgeGrouper builds a grouper from bin bounds and labels; bins must hold
// exactly one more entry than labels. The final upper bound is ignored, the
// last bin always extends to infinity.
func NewAgeGrouper(bins []float64, labels []string) (*AgeGrouper, error) {
	if len(bins) != len(labels)+1 {
		return nil, fmt.Errorf("age grouper needs len(bins) == len(labels)+1, got %d and %d",
			len(bins), len(labels))
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("age grouper needs at least one bin")
	}
	return &AgeGrouper{bins: bins, labels: labels}, nil
}

// DefaultAgeGrouper uses the standard bins: (0,12] Child, (12,19] Teen,
// (19,59] Adult, (59,inf) Senior.
func DefaultAgeGrouper() *AgeGrouper {
	g, _ := NewAgeGrouper(
		[]float64{0, 12, 19, 59, 200},
		[]string{"Child", "Teen", "Adult", "Senior"},
	)
	return g
}

// GroupFor returns the label for an age, with ok=false when the age falls
// outside every bin (at or below the lowest bound).
func (g *AgeGrouper) GroupFor(age float64) (string, bool) {
	for j, label := range g.labels {
		lo := g.bins[j]
		if j == len(g.labels)-1 {
			if age > lo {
				return label, true
			}
			break
		}
		if age > lo && age <= g.bins[j+1] {
			return label, true
		}
	}
	return "", false
}

// Labels returns the category labels in bin order.
func (g *AgeGrouper) Labels() []string {
	return g.labels
}

// Analyzer runs the passenger transforms. The dataset is passed explicitly
// into every operation; the Analyzer itself only holds the age bucketing.
type Analyzer struct {
	grouper *AgeGrouper
}

func NewAnalyzer(grouper *AgeGrouper) *Analyzer {
	if grouper == nil {
		grouper = DefaultAgeGrouper()
	}
	return &Analyzer{grouper: grouper}
}

// classMedianAges computes the median of defined ages per class. Classes
// with no defined age at all are absent from the returned map.
func classMedianAges(df dataframe.DataFrame) (map[int]float64, error) {
	if err := requireColumns(df, ColPclass, ColAge); err != nil {
		return nil, err
	}

	classCol := df.Col(ColPclass)
	ageCol := df.Col(ColAge)

	byClass := make(map[int][]float64)
	for i := 0; i < df.Nrow(); i++ {
		if ageCol.Elem(i).IsNA() {
			continue
		}
		class, err := classCol.Elem(i).Int()
		if err != nil {
			return nil, fmt.Errorf("%w: non-integer Pclass at row %d", ErrSchema, i)
		}
		byClass[class] = append(byClass[class], ageCol.Elem(i).Float())
	}

	medians := make(map[int]float64, len(byClass))
	for class, ages := range byClass {
		medians[class] = utils.Median(ages)
	}
	return medians, nil
}

// ClassMedianAges returns one row per class holding the median of defined
// ages, ordered by class. Feeds both the age-division classifier and the
// dashboard narrative.
func (a *Analyzer) ClassMedianAges(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	medians, err := classMedianAges(df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	var (
		outClass  []int
		outMedian []float64
	)
	for _, class := range classes {
		if m, ok := medians[class]; ok {
			outClass = append(outClass, class)
			outMedian = append(outMedian, m)
		}
	}

	return dataframe.New(
		series.New(outClass, series.Int, "pclass"),
		series.New(outMedian, series.Float, "median_age"),
	), nil
}
