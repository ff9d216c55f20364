package listener

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"edoparser/internal"
	"edoparser/internal/carriers"
	"edoparser/internal/config"
	"edoparser/internal/connectors"
	"edoparser/internal/connectors/drive"
	gmailconnector "edoparser/internal/connectors/gmail"
	imapconnector "edoparser/internal/connectors/imap"
	"edoparser/internal/connectors/local"
	"edoparser/internal/connectors/sheets"
	"edoparser/internal/connectors/workbook"
	"edoparser/internal/pipeline"
	"edoparser/internal/storage"
)

// MailConnector builds the connector for a mail provider name.
func MailConnector(ctx context.Context, cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(ctx, cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", provider)
	}
}

// TabularStore picks the Sheets store when a spreadsheet is configured, then
// a local workbook. It returns nil when neither is set.
func TabularStore(ctx context.Context, cfg config.Config) (connectors.TabularStore, error) {
	if cfg.SheetsSpreadsheetID != "" {
		return sheets.NewStore(ctx, cfg)
	}
	if cfg.WorkbookPath != "" {
		return workbook.New(cfg.WorkbookPath, cfg.SheetsTab), nil
	}
	return nil, nil
}

// FileProcessor builds the processing workflow over Drive or local folders.
// inputOverride replaces the configured input folder when set.
func FileProcessor(
	ctx context.Context,
	db *storage.DB,
	cfg config.Config,
	source internal.DocumentSource,
	inputOverride string,
	log zerolog.Logger,
) (*pipeline.ProcessingService, error) {
	table, err := TabularStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("tabular store: %w", err)
	}

	switch source {
	case internal.SourceDrive:
		if err := cfg.Require("DRIVE_OUTPUT_FOLDER", cfg.DriveOutputFolder); err != nil {
			return nil, err
		}
		input, err := pipeline.ResolveSource(inputOverride, cfg.DriveInputFolder)
		if err != nil {
			return nil, err
		}
		if err := cfg.Require("DRIVE_INPUT_FOLDER", input); err != nil {
			return nil, err
		}
		files, err := drive.NewStore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("drive: %w", err)
		}
		folders := pipeline.Folders{Input: input, Output: cfg.DriveOutputFolder, Fail: cfg.DriveFailFolder}
		return pipeline.NewProcessingService(db, carriers.NewRegistry(), files, table, source, folders, log), nil
	case internal.SourceLocal:
		input := cfg.LocalInputDir
		if strings.TrimSpace(inputOverride) != "" {
			input = inputOverride
		}
		folders := pipeline.Folders{Input: input, Output: cfg.LocalOutputDir, Fail: cfg.LocalFailDir}
		return pipeline.NewProcessingService(db, carriers.NewRegistry(), local.New(), table, source, folders, log), nil
	default:
		return nil, fmt.Errorf("unsupported file source: %s", source)
	}
}
