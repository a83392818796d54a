// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron"

	"TitanicInsight/src/chart"
	"TitanicInsight/src/config"
	"TitanicInsight/src/dashboard"
	"TitanicInsight/src/datasource/email"
	"TitanicInsight/src/datasource/file"
	"TitanicInsight/src/datasource/web"
	"TitanicInsight/src/processor"
	"TitanicInsight/src/storage"

	"github.com/go-gota/gota/dataframe"
)

type application struct {
	cfg    *config.Config
	dcfg   *config.DataConfig
	logger *storage.Logger
	dash   *dashboard.Dashboard
	saver  *email.AttachmentSaver
}

func main() {
	cfg, dcfg, err := config.LoadConfig("./config", "config.json", "dataconfig.json")
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatalf("opening log file: %v", err)
	}
	defer logger.Close()

	grouper, err := processor.NewAgeGrouper(dcfg.AgeBins, dcfg.AgeLabels)
	if err != nil {
		logger.Fatal(fmt.Sprintf("building age grouper: %v", err))
		os.Exit(1)
	}

	app := &application{
		cfg:    cfg,
		dcfg:   dcfg,
		logger: logger,
		dash:   dashboard.New(processor.NewAnalyzer(grouper), chart.NewBuilder(dcfg), dcfg.TopNames),
		saver:  email.NewAttachmentSaver(cfg.DataDir),
	}

	if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
		logger.Fatal(fmt.Sprintf("creating export dir: %v", err))
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Fatal(fmt.Sprintf("creating data dir: %v", err))
		os.Exit(1)
	}

	// First analysis before anything is served.
	if err := app.refreshFromWeb(); err != nil {
		logger.Error(fmt.Sprintf("initial refresh: %v", err))
	}

	scheduler := app.startScheduler()
	defer scheduler.Stop()

	monitor := app.startFileMonitor()
	if monitor != nil {
		defer monitor.Close()
	}

	stopMail := make(chan struct{})
	if app.cfg.Email.Server != "" {
		go app.pollMailbox(stopMail)
	}
	defer close(stopMail)

	go app.startWebUI()

	waitForShutdown(logger)
}

// refreshFromWeb fetches the configured CSV once and runs the analysis on
// the resulting frame.
func (app *application) refreshFromWeb() error {
	fetcher := web.NewFetcher(app.cfg.Dataset.URL, time.Duration(app.cfg.Dataset.Timeout))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Duration(app.cfg.Dataset.Timeout))
	defer cancel()

	df, err := fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetching dataset: %w", err)
	}
	return app.runAnalysis(df)
}

// runAnalysis runs every aggregation on one explicit frame, renders the
// dashboard, writes the report workbook and mails it out when a recipient
// is configured.
func (app *application) runAnalysis(df dataframe.DataFrame) error {
	runID := uuid.New()
	app.logger.Info(fmt.Sprintf("analysis run %s started on %d records", runID, df.Nrow()))

	res, err := app.dash.Refresh(df)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}

	reportPath := filepath.Join(app.cfg.ExportDir, fmt.Sprintf("titanic_report_%s.xlsx", runID))
	writer := storage.NewReportWriter(runID)
	err = writer.Write(reportPath, []storage.Table{
		{Name: "Demographics", DF: res.Demographics},
		{Name: "Family Groups", DF: res.FamilyGroups},
		{Name: "Last Names", DF: res.LastNames},
		{Name: "Age Division", DF: res.AgeDivisionSurvival},
		{Name: "Class Median Ages", DF: res.ClassMedians},
	})
	if err != nil {
		return fmt.Errorf("run %s: writing report: %w", runID, err)
	}

	htmlPath := filepath.Join(app.cfg.ExportDir, "dashboard.html")
	if err := app.dash.ExportHTML(htmlPath); err != nil {
		app.logger.Warning(fmt.Sprintf("run %s: exporting dashboard: %v", runID, err))
	}

	if app.cfg.SendEmail.To != "" {
		body := fmt.Sprintf("Analysis run %s finished, report attached.", runID)
		if err := email.SendReport(app.cfg, body, reportPath); err != nil {
			app.logger.Error(fmt.Sprintf("run %s: sending report: %v", runID, err))
		}
	}

	app.logger.Info(fmt.Sprintf("analysis run %s finished, report at %s", runID, reportPath))
	return nil
}

// startScheduler refreshes the dataset on the configured interval and
// rotates the log alongside.
func (app *application) startScheduler() *cron.Cron {
	scheduler := cron.New()

	interval := time.Duration(app.cfg.RefreshInterval)
	if interval <= 0 {
		interval = time.Hour
	}

	spec := fmt.Sprintf("@every %s", interval)
	err := scheduler.AddFunc(spec, func() {
		if err := app.refreshFromWeb(); err != nil {
			app.logger.Error(fmt.Sprintf("scheduled refresh: %v", err))
		}
		if err := app.logger.CheckRotate(app.cfg); err != nil {
			app.logger.Warning(fmt.Sprintf("log rotation: %v", err))
		}
	})
	if err != nil {
		app.logger.Error(fmt.Sprintf("scheduling refresh: %v", err))
		return scheduler
	}

	scheduler.Start()
	app.logger.Info(fmt.Sprintf("scheduled dataset refresh every %s", interval))
	return scheduler
}

// startFileMonitor watches the data directory and reruns the analysis on
// every dataset file dropped there.
func (app *application) startFileMonitor() *file.FileMonitor {
	monitor, err := file.NewFileMonitor(app.cfg.DataDir)
	if err != nil {
		app.logger.Error(fmt.Sprintf("starting file monitor: %v", err))
		return nil
	}

	go func() {
		err := monitor.Watch(func(path string) {
			app.logger.Info(fmt.Sprintf("new dataset file %s", path))
			df, err := file.ReadDataset(path, app.cfg.Dataset.SheetName)
			if err != nil {
				app.logger.Error(fmt.Sprintf("reading %s: %v", path, err))
				return
			}
			if err := app.runAnalysis(df); err != nil {
				app.logger.Error(fmt.Sprintf("analysis of %s: %v", path, err))
			}
		})
		if err != nil {
			app.logger.Error(fmt.Sprintf("file monitor stopped: %v", err))
		}
	}()

	return monitor
}

// pollMailbox checks the configured mailbox for dataset mails and feeds
// their attachments into the analysis.
func (app *application) pollMailbox(stop <-chan struct{}) {
	interval := time.Duration(app.cfg.Email.CheckInterval)
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := app.checkMailbox(); err != nil {
				app.logger.Error(fmt.Sprintf("mailbox check: %v", err))
			}
		}
	}
}

func (app *application) checkMailbox() error {
	client := email.NewEmailClient(app.cfg.Email.Server, app.cfg.Email.Username, app.cfg.Email.Password)
	if err := client.Connect(); err != nil {
		return fmt.Errorf("connecting to mailbox: %w", err)
	}
	defer client.Disconnect()

	msg, err := email.LatestDatasetEmail(client, app.cfg.Email.TargetSubject)
	if err != nil {
		return err
	}
	if msg == nil {
		return nil
	}

	if _, err := app.saver.Save(msg); err != nil {
		app.logger.Warning(fmt.Sprintf("archiving attachments: %v", err))
	}

	wrapper := &email.DataFrameWrapper{}
	name, err := wrapper.LoadAttachment(msg, app.cfg.Dataset.SheetName)
	if err != nil {
		return fmt.Errorf("loading mailed dataset: %w", err)
	}

	app.logger.Info(fmt.Sprintf("dataset received by mail: %s", name))
	return app.runAnalysis(wrapper.GetDF())
}

func (app *application) startWebUI() {
	addr := app.cfg.ServerAddr
	if addr == "" {
		addr = ":8080"
	}

	app.logger.Info(fmt.Sprintf("dashboard listening on %s", addr))
	if err := http.ListenAndServe(addr, app.dash.Handler(app.logger)); err != nil {
		app.logger.Fatal(fmt.Sprintf("dashboard server: %v", err))
	}
}

func waitForShutdown(logger *storage.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info(fmt.Sprintf("received %s, shutting down", sig))
}
