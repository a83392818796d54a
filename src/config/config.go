package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config holds the runtime settings of the application.
type Config struct {
	Dataset struct {
		URL       string   `json:"url"`        // remote CSV resource
		Timeout   Duration `json:"timeout"`    // one-shot fetch timeout
		SheetName string   `json:"sheet_name"` // sheet to use for xlsx copies
	} `json:"dataset"`

	Email struct {
		Server        string   `json:"server"`         // IMAP server address
		Username      string   `json:"username"`       // mailbox user
		Password      string   `json:"password"`       // password / app token
		TargetSubject string   `json:"target_subject"` // subject marking dataset mails
		CheckInterval Duration `json:"check_interval"` // poll interval for new mail
	} `json:"email"`

	SendEmail struct {
		Server   string `json:"server"`   // SMTP server address
		Username string `json:"username"` // sender account
		Password string `json:"password"`
		To       string `json:"to"`      // report recipient
		Subject  string `json:"subject"` // report mail subject
	} `json:"send_email"`

	DataDir         string   `json:"data_dir"`     // drop folder for local dataset copies
	ExportDir       string   `json:"export_dir"`   // where reports and dashboard html land
	LogName         string   `json:"log_name"`
	LogMaxSize      int64    `json:"log_max_size"` // rotation threshold in bytes
	ServerAddr      string   `json:"server_addr"`  // dashboard listen address
	RefreshInterval Duration `json:"refresh_interval"`
}

// DataConfig holds the domain constants of the analysis: age bucketing and
// the visual encodings of the charts.
type DataConfig struct {
	AgeBins        []float64         `json:"age_bins"`   // upper bounds, last entry ignored in favor of +inf
	AgeLabels      []string          `json:"age_labels"` // one label per bin
	SexColors      map[string]string `json:"sex_colors"`
	ClassColors    map[string]string `json:"class_colors"`
	DivisionColors map[string]string `json:"division_colors"`
	TopNames       int               `json:"top_names"`
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config file: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("reading data config file: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("parsing Config: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	var dcfg DataConfig
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("parsing DataConfig: %w", err)
		return
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("some configuration was not loaded")
	}

	if err := dcfg.validate(); err != nil {
		return nil, nil, err
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "configuration loading hit multiple errors:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

func (dc *DataConfig) validate() error {
	if len(dc.AgeBins) != len(dc.AgeLabels)+1 {
		return fmt.Errorf("age_bins must have exactly one more entry than age_labels (got %d bins, %d labels)",
			len(dc.AgeBins), len(dc.AgeLabels))
	}
	return nil
}

// Duration is a wrapper around time.Duration supporting JSON
// serialization of values like "5m" or "30s".
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (dc *DataConfig) GetSexColor(sex string) string {
	mu.RLock()
	defer mu.RUnlock()
	return dc.SexColors[sex]
}

func (dc *DataConfig) SetSexColor(sex, color string) {
	mu.Lock()
	defer mu.Unlock()
	dc.SexColors[sex] = color
}

func (dc *DataConfig) GetClassColor(class string) string {
	mu.RLock()
	defer mu.RUnlock()
	return dc.ClassColors[class]
}

func (dc *DataConfig) SetClassColor(class, color string) {
	mu.Lock()
	defer mu.Unlock()
	dc.ClassColors[class] = color
}

func (dc *DataConfig) GetDivisionColor(division string) string {
	mu.RLock()
	defer mu.RUnlock()
	return dc.DivisionColors[division]
}
