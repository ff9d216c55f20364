package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"edoparser/internal"
	"edoparser/internal/connectors"
	"edoparser/internal/normalize"
	"edoparser/internal/reader"
	"edoparser/internal/storage"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

const (
	failPrefix  = "[FAIL]"
	pdfMimeType = "application/pdf"
)

// Extraction is the outcome of the core on one document text.
type Extraction struct {
	Strategy string
	Records  []internal.CanonicalRecord
}

// Containers returns the distinct container numbers in record order.
func (e Extraction) Containers() []string {
	values := make([]string, 0, len(e.Records))
	for _, r := range e.Records {
		values = append(values, strings.TrimSpace(r.ContainerNumber))
	}
	return util.Unique(values)
}

// ProcessText selects a strategy for text, extracts and normalizes.
func ProcessText(registry *strategy.Registry, text string) Extraction {
	s := registry.Select(text)
	return Extraction{Strategy: s.Name(), Records: normalize.Apply(s.Extract(text))}
}

// TargetName is the output file name for a document holding containers.
func TargetName(containers []string) string {
	return strings.Join(containers, "_") + ".pdf"
}

type Folders struct {
	Input  string
	Output string
	Fail   string
}

type ProcessingService struct {
	db       *storage.DB
	registry *strategy.Registry
	files    connectors.FileStore
	table    connectors.TabularStore
	source   internal.DocumentSource
	folders  Folders
	log      zerolog.Logger
}

// NewProcessingService wires a file store workflow. table may be nil.
func NewProcessingService(
	db *storage.DB,
	registry *strategy.Registry,
	files connectors.FileStore,
	table connectors.TabularStore,
	source internal.DocumentSource,
	folders Folders,
	log zerolog.Logger,
) *ProcessingService {
	return &ProcessingService{
		db:       db,
		registry: registry,
		files:    files,
		table:    table,
		source:   source,
		folders:  folders,
		log:      log.With().Str("source", string(source)).Logger(),
	}
}

type FileResult struct {
	File       internal.SourceFile
	Status     internal.DocumentStatus
	Strategy   string
	Target     string
	Containers []string
	Err        error
}

type RunResult struct {
	RunID   string
	Moved   int
	Skipped int
	Failed  int
	Files   []FileResult
}

func (r RunResult) Counts() map[string]int {
	return map[string]int{
		"files":   len(r.Files),
		"moved":   r.Moved,
		"skipped": r.Skipped,
		"failed":  r.Failed,
	}
}

// Run processes every document in the input folder under one run id.
func (s *ProcessingService) Run(ctx context.Context) (RunResult, error) {
	res := RunResult{RunID: uuid.NewString()}
	if err := s.db.StartRun(res.RunID, string(s.source)); err != nil {
		return res, stageErr(StageLedger, "", err)
	}
	log := s.log.With().Str("run", res.RunID).Logger()

	files, err := s.files.List(ctx, s.folders.Input)
	if err != nil {
		_ = s.db.FinishRun(res.RunID, res.Counts())
		return res, fmt.Errorf("list %s: %w", s.folders.Input, err)
	}
	log.Info().Int("files", len(files)).Str("folder", s.folders.Input).Msg("run started")

	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		fr := s.ProcessFile(ctx, res.RunID, f)
		res.Files = append(res.Files, fr)
		switch fr.Status {
		case internal.StatusMoved:
			res.Moved++
		case internal.StatusSkipped:
			res.Skipped++
		default:
			res.Failed++
		}
	}

	if err := s.db.FinishRun(res.RunID, res.Counts()); err != nil {
		return res, stageErr(StageLedger, "", err)
	}
	_ = s.db.SetMetadata("last_run_"+string(s.source), res.RunID)
	log.Info().Int("moved", res.Moved).Int("skipped", res.Skipped).Int("failed", res.Failed).Msg("run finished")
	return res, ctx.Err()
}

// ProcessFile runs one document through download, extraction and move. The
// outcome is written to the ledger whatever it is.
func (s *ProcessingService) ProcessFile(ctx context.Context, runID string, f internal.SourceFile) FileResult {
	fr := FileResult{File: f}
	doc := internal.DocumentRow{Source: s.source, SourceID: f.ID, Name: f.Name}
	log := s.log.With().Str("file", f.Name).Logger()

	data, err := s.files.Download(ctx, f.ID)
	if err != nil {
		return s.finish(log, runID, doc, fr, internal.StatusFailed, stageErr(StageDownload, f.ID, err), nil)
	}
	doc.Hash = connectors.ContentHash(data)

	text, err := readDocument(f, data)
	if err != nil {
		return s.finish(log, runID, doc, fr, internal.StatusFailed, stageErr(StageRead, f.ID, err), nil)
	}
	if strings.TrimSpace(text) == "" {
		return s.finish(log, runID, doc, fr, internal.StatusSkipped, ErrNoText, nil)
	}

	ext, err := safeProcess(s.registry, text)
	if err != nil {
		return s.finish(log, runID, doc, fr, internal.StatusFailed, stageErr(StageExtract, f.ID, err), nil)
	}
	fr.Strategy, doc.Strategy = ext.Strategy, ext.Strategy
	fr.Containers = ext.Containers()
	if len(fr.Containers) == 0 {
		return s.finish(log, runID, doc, fr, internal.StatusSkipped, ErrNoRecords, nil)
	}

	fr.Target = TargetName(fr.Containers)
	doc.TargetName = fr.Target
	newID, err := s.files.Move(ctx, f.ID, s.folders.Output, fr.Target)
	if err != nil {
		moveErr := stageErr(StageMove, f.ID, err)
		if s.folders.Fail != "" {
			failName := failPrefix + fr.Target
			if _, ferr := s.files.Move(ctx, f.ID, s.folders.Fail, failName); ferr != nil {
				log.Warn().Err(ferr).Str("target", failName).Msg("move to fail folder")
			} else {
				doc.TargetName = failName
			}
		}
		return s.finish(log, runID, doc, fr, internal.StatusFailed, moveErr, ext.Records)
	}

	preview := s.files.PreviewLink(newID)
	for i := range ext.Records {
		ext.Records[i].PreviewLink = preview
	}
	fr = s.finish(log, runID, doc, fr, internal.StatusMoved, nil, ext.Records)
	if err := s.writeTable(ctx, ext.Records); err != nil {
		fr.Err = stageErr(StageTabular, f.ID, err)
		log.Warn().Err(err).Msg("tabular store")
	}
	return fr
}

func (s *ProcessingService) finish(
	log zerolog.Logger,
	runID string,
	doc internal.DocumentRow,
	fr FileResult,
	status internal.DocumentStatus,
	err error,
	records []internal.CanonicalRecord,
) FileResult {
	fr.Status, fr.Err = status, err
	doc.Status = status
	if err != nil {
		doc.Error = err.Error()
	}

	switch status {
	case internal.StatusMoved:
		log.Info().Str("strategy", fr.Strategy).Int("containers", len(fr.Containers)).Str("target", fr.Target).Msg("ok")
	case internal.StatusSkipped:
		log.Info().Str("strategy", fr.Strategy).Str("reason", errString(err)).Msg("skip")
	default:
		log.Error().Err(err).Msg("fail")
	}

	stored, lerr := s.db.UpsertDocument(doc, runID)
	if lerr == nil {
		lerr = s.db.ReplaceRecords(stored.ID, fr.Strategy, records)
	}
	if lerr != nil {
		log.Error().Err(lerr).Msg("ledger")
		if fr.Err == nil {
			fr.Err = stageErr(StageLedger, doc.SourceID, lerr)
		}
	}
	return fr
}

func (s *ProcessingService) writeTable(ctx context.Context, records []internal.CanonicalRecord) error {
	return upsertRows(ctx, s.table, records)
}

func upsertRows(ctx context.Context, table connectors.TabularStore, records []internal.CanonicalRecord) error {
	if table == nil {
		return nil
	}
	for _, r := range records {
		if r.ContainerNumber == "" {
			continue
		}
		if err := connectors.Upsert(ctx, table, internal.FieldContainerNumber, internal.Row(r.Raw())); err != nil {
			return err
		}
	}
	return nil
}

// readDocument prefers the mime type Drive reports, since Drive names may lack
// an extension.
func readDocument(f internal.SourceFile, data []byte) (string, error) {
	if f.MimeType == pdfMimeType {
		return reader.PDFText(data)
	}
	return reader.Text(f.Name, data)
}

// safeProcess turns a panicking extractor into an error so one document cannot
// stop a run.
func safeProcess(registry *strategy.Registry, text string) (ext Extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()
	return ProcessText(registry, text), nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
