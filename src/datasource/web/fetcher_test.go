package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TitanicInsight/src/processor"
)

const sampleCSV = `PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked
1,0,3,"Braund, Mr. Owen Harris",male,22,1,0,A/5 21171,7.25,,S
2,1,1,"Cumings, Mrs. John Bradley",female,38,1,0,PC 17599,71.2833,C85,C
3,1,3,"Heikkinen, Miss. Laina",female,,0,0,STON/O2. 3101282,7.925,,S
`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, 5*time.Second)
	df, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if df.Nrow() != 3 {
		t.Errorf("expected 3 records, got %d", df.Nrow())
	}

	// absent age must come through as NA, not zero
	age := df.Col(processor.ColAge)
	if !age.Elem(2).IsNA() {
		t.Errorf("empty Age field loaded as %v, want NA", age.Elem(2))
	}
	if age.Elem(0).IsNA() || age.Elem(0).Float() != 22 {
		t.Errorf("Age row 0 = %v, want 22", age.Elem(0))
	}
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, 5*time.Second)
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Error("expected error on 404 response")
	}
}

func TestFetchSchemaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("PassengerId,Name\n1,\"Braund, Mr. Owen Harris\"\n"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, 5*time.Second)
	_, err := f.Fetch(context.Background())
	if !errors.Is(err, processor.ErrSchema) {
		t.Errorf("expected ErrSchema, got %v", err)
	}
}
