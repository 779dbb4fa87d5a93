package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/report"
	"github.com/digitaltreasurer/treasurer-api/internal/repository"
	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"github.com/digitaltreasurer/treasurer-api/internal/storage"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	exportOutDir string
	reportEvent  string
	reportDate   string
)

var exportCmd = &cobra.Command{
	Use:   "export <client>",
	Short: "Write a client's contributions as CSV",
	Long: `Write a client's contributions as CSV. Without --out the CSV goes to
standard output, with --out it is saved as <client>_data.csv in that directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Archive every client's CSV export to the configured storage",
	Args:  cobra.NoArgs,
	RunE:  runSnapshot,
}

var reportCmd = &cobra.Command{
	Use:   "report <client>",
	Short: "Print the WhatsApp update for one event",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "", "Directory to write the CSV file into")
	reportCmd.Flags().StringVarP(&reportEvent, "event", "e", string(domain.EventTypeOther), "Event type to report on")
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Report date (YYYY-MM-DD), defaults to today")
}

func newContributionService(db *gorm.DB) *service.ContributionService {
	return service.NewContributionService(
		repository.NewContributionRepository(db),
		repository.NewLogisticsRepository(db),
		repository.NewGroupRepository(db),
		db,
		cfg.Treasurer.FlatRate,
		log,
	)
}

func runExport(cmd *cobra.Command, args []string) error {
	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	svc := newContributionService(db)
	group := args[0]

	if exportOutDir == "" {
		return svc.ExportCSV(context.Background(), group, cmd.OutOrStdout())
	}

	if err := os.MkdirAll(exportOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	target := filepath.Join(exportOutDir, report.CSVFilename(group))
	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	if err := svc.ExportCSV(context.Background(), group, buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", target)
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	store, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	svc := service.NewExportService(repository.NewGroupRepository(db), repository.NewContributionRepository(db), store, log)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Jobs.ExportSnapshotTimeoutDuration())
	defer cancel()

	result, err := svc.SnapshotAll(ctx, time.Now().UTC())
	if result != nil {
		for _, key := range result.Keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d snapshot(s), %s\n", len(result.Keys), humanize.Bytes(uint64(result.Bytes)))
	}
	return err
}

func runReport(cmd *cobra.Command, args []string) error {
	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	groupRepo := repository.NewGroupRepository(db)
	groups := service.NewGroupService(groupRepo, cfg.Treasurer.PublicBaseURL, log)
	svc := service.NewReportService(
		groupRepo,
		repository.NewContributionRepository(db),
		repository.NewLogisticsRepository(db),
		groups,
		cfg.Treasurer.Currency,
		log,
	)

	dto, err := svc.Generate(context.Background(), args[0], &domain.ReportRequest{
		EventType: domain.EventType(reportEvent),
		Date:      reportDate,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), dto.Text)
	return nil
}
