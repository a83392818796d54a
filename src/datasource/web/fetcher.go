// fetcher.go
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-gota/gota/dataframe"

	"TitanicInsight/src/processor"
)

// Fetcher loads the passenger dataset from its remote CSV resource. The
// fetch is one-shot: a network or parse failure is returned to the caller,
// no retry is attempted.
type Fetcher struct {
	url    string
	client *http.Client
}

func NewFetcher(url string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads the CSV and parses it into a schema-validated DataFrame.
func (f *Fetcher) Fetch(ctx context.Context) (dataframe.DataFrame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("building dataset request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("fetching dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dataframe.DataFrame{}, fmt.Errorf("fetching dataset: unexpected status %s", resp.Status)
	}

	df := dataframe.ReadCSV(resp.Body, processor.LoadOptions()...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parsing dataset csv: %w", df.Err)
	}

	if err := processor.ValidateSchema(df); err != nil {
		return dataframe.DataFrame{}, err
	}

	return df, nil
}
