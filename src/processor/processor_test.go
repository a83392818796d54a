package processor

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// testFrame builds a 12-record passenger table covering all three classes,
// both sexes, an absent age, an age exactly on a bin boundary and several
// repeated surnames.
func testFrame() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"PassengerId", "Survived", "Pclass", "Name", "Sex", "Age", "SibSp", "Parch", "Fare"},
		{"1", "1", "1", "Cumings, Mrs. John Bradley", "female", "38", "1", "0", "71.28"},
		{"2", "1", "1", "Bonnell, Miss. Elizabeth", "female", "58", "0", "0", "26.55"},
		{"3", "0", "1", "Uruchurtu, Don. Manuel E", "male", "40", "0", "0", "27.72"},
		{"4", "1", "1", "Cumings, Mr. John Bradley", "male", "", "1", "0", "71.28"},
		{"5", "0", "2", "Turpin, Mr. William John Robert", "male", "29", "1", "0", "21.0"},
		{"6", "0", "2", "Turpin, Mrs. William John Robert", "female", "27", "1", "0", "21.0"},
		{"7", "1", "3", "Johnson, Miss. Eleanor", "female", "1", "1", "1", "11.13"},
		{"8", "0", "3", "Johnson, Mr. Alfred", "male", "49", "0", "0", "9.5"},
		{"9", "0", "3", "Palsson, Master. Gosta Leonard", "male", "2", "3", "1", "21.07"},
		{"10", "1", "3", "Sandstrom, Miss. Marguerite Rut", "female", "4", "1", "1", "16.7"},
		{"11", "0", "3", "Palsson, Miss. Torborg Danira", "female", "8", "3", "1", "21.07"},
		{"12", "1", "2", "Beane, Mrs. Edward", "female", "19", "1", "0", "26.0"},
	}, dataframe.WithTypes(map[string]series.Type{
		"Survived": series.Int,
		"Pclass":   series.Int,
		"Age":      series.Float,
		"SibSp":    series.Int,
		"Parch":    series.Int,
		"Fare":     series.Float,
	}))
}

func cellInt(t *testing.T, df dataframe.DataFrame, col string, row int) int {
	t.Helper()
	v, err := df.Col(col).Elem(row).Int()
	if err != nil {
		t.Fatalf("column %s row %d: %v", col, row, err)
	}
	return v
}

func cellFloat(df dataframe.DataFrame, col string, row int) float64 {
	return df.Col(col).Elem(row).Float()
}

func cellString(df dataframe.DataFrame, col string, row int) string {
	return df.Col(col).Elem(row).String()
}

// findRow returns the index of the first row matching all given string
// representations, or -1.
func findRow(df dataframe.DataFrame, want map[string]string) int {
	for i := 0; i < df.Nrow(); i++ {
		match := true
		for col, v := range want {
			if df.Col(col).Elem(i).String() != v {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func TestValidateSchema(t *testing.T) {
	if err := ValidateSchema(testFrame()); err != nil {
		t.Errorf("complete frame rejected: %v", err)
	}

	df := dataframe.LoadRecords([][]string{
		{"PassengerId", "Name"},
		{"1", "Cumings, Mrs. John Bradley"},
	})
	err := ValidateSchema(df)
	if err == nil {
		t.Fatal("expected schema error for missing columns")
	}
}

func TestSurname(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Cumings, Mrs. John Bradley", "Cumings"},
		{" Palsson , Master. Gosta", "Palsson"},
		{"NoComma Name", "NoComma Name"},
		{"Two, Commas, Here", "Two"},
	}
	for _, c := range cases {
		if got := Surname(c.in); got != c.want {
			t.Errorf("Surname(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAgeGrouperBoundaries(t *testing.T) {
	g := DefaultAgeGrouper()

	cases := []struct {
		age   float64
		want  string
		inBin bool
	}{
		{0.42, "Child", true},
		{12, "Child", true}, // right-closed bins
		{12.5, "Teen", true},
		{19, "Teen", true},
		{19.5, "Adult", true},
		{59, "Adult", true},
		{59.5, "Senior", true},
		{80, "Senior", true},
		{0, "", false},
		{-1, "", false},
	}
	for _, c := range cases {
		got, ok := g.GroupFor(c.age)
		if ok != c.inBin || got != c.want {
			t.Errorf("GroupFor(%v) = (%q, %v), want (%q, %v)", c.age, got, ok, c.want, c.inBin)
		}
	}
}

func TestNewAgeGrouperRejectsMismatch(t *testing.T) {
	if _, err := NewAgeGrouper([]float64{0, 12}, []string{"Child", "Teen"}); err == nil {
		t.Error("expected error for mismatched bins/labels")
	}
}
