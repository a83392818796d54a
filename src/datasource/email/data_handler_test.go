package email

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tealeg/xlsx"

	"TitanicInsight/src/processor"
)

const sampleCSV = `PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked
1,0,3,"Braund, Mr. Owen Harris",male,22,1,0,A/5 21171,7.25,,S
2,1,1,"Cumings, Mrs. John Bradley",female,38,1,0,PC 17599,71.2833,C85,C
`

func sampleXLSXBytes(t *testing.T) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("passengers")
	if err != nil {
		t.Fatal(err)
	}
	rows := [][]string{
		{"PassengerId", "Survived", "Pclass", "Name", "Sex", "Age", "SibSp", "Parch", "Fare"},
		{"1", "0", "3", "Braund, Mr. Owen Harris", "male", "22", "1", "0", "7.25"},
	}
	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().Value = v
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDataFrameWrapperReadCSV(t *testing.T) {
	var dfw DataFrameWrapper
	if err := dfw.ReadCSV([]byte(sampleCSV)); err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := dfw.GetDF().Nrow(); got != 2 {
		t.Errorf("expected 2 records, got %d", got)
	}
}

func TestDataFrameWrapperReadXLSX(t *testing.T) {
	var dfw DataFrameWrapper
	if err := dfw.ReadXLSX(sampleXLSXBytes(t), "passengers"); err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	df := dfw.GetDF()
	if df.Nrow() != 1 {
		t.Errorf("expected 1 record, got %d", df.Nrow())
	}
	if got := df.Col(processor.ColSex).Elem(0).String(); got != "male" {
		t.Errorf("Sex row 0 = %q", got)
	}
}

func TestDataFrameWrapperRejectsBadSchema(t *testing.T) {
	var dfw DataFrameWrapper
	err := dfw.ReadCSV([]byte("PassengerId,Name\n1,\"X, Mr. Y\"\n"))
	if err == nil {
		t.Error("expected schema error")
	}
}

func TestLoadAttachment(t *testing.T) {
	var dfw DataFrameWrapper
	e := &Email{
		UID:  1,
		Date: time.Now(),
		Attachments: []*Attachment{
			{Filename: "notes.txt", Content: []byte("irrelevant")},
			{Filename: "titanic.csv", Content: []byte(sampleCSV)},
		},
	}

	name, err := dfw.LoadAttachment(e, "")
	if err != nil {
		t.Fatalf("LoadAttachment: %v", err)
	}
	if name != "titanic.csv" {
		t.Errorf("loaded %q, want titanic.csv", name)
	}
	if dfw.GetDF().Nrow() != 2 {
		t.Errorf("expected 2 records, got %d", dfw.GetDF().Nrow())
	}
}

func TestAttachmentSaver(t *testing.T) {
	dir := t.TempDir()
	saver := NewAttachmentSaver(dir)

	e := &Email{
		Attachments: []*Attachment{
			{Filename: "titanic.csv", Content: []byte(sampleCSV)},
			{Filename: "ignore.exe", Content: []byte{0}},
		},
	}

	saved, err := saver.Save(e)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("saved %d files, want 1", len(saved))
	}
	if filepath.Base(saved[0]) != "titanic.csv" {
		t.Errorf("saved %s", saved[0])
	}
	if _, err := os.Stat(saved[0]); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestLatestDatasetEmail(t *testing.T) {
	svc := &fakeMailService{
		emails: []*Email{
			{UID: 1, Subject: "titanic dataset", Date: time.Now().Add(-2 * time.Hour),
				Attachments: []*Attachment{{Filename: "old.csv"}}},
			{UID: 2, Subject: "titanic dataset", Date: time.Now().Add(-time.Hour),
				Attachments: []*Attachment{{Filename: "new.csv"}}},
			{UID: 3, Subject: "unrelated", Date: time.Now(),
				Attachments: []*Attachment{{Filename: "other.csv"}}},
			{UID: 4, Subject: "titanic dataset", Date: time.Now()}, // no attachment
		},
	}

	got, err := LatestDatasetEmail(svc, "titanic dataset")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.UID != 2 {
		t.Errorf("got %+v, want UID 2", got)
	}
}

type fakeMailService struct {
	emails []*Email
}

func (f *fakeMailService) Connect() error                      { return nil }
func (f *fakeMailService) Disconnect()                         {}
func (f *fakeMailService) FetchUnreadEmails() ([]*Email, error) { return f.emails, nil }
