package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jhillyerd/enmime"
	"github.com/rs/zerolog"

	"edoparser/internal"
	"edoparser/internal/connectors"
	"edoparser/internal/connectors/local"
	"edoparser/internal/patterns"
	"edoparser/internal/reader"
	"edoparser/internal/storage"
	"edoparser/internal/strategy"
	"edoparser/internal/util"
)

const (
	EmailStatusProcessed = "processed"
	EmailStatusSkipped   = "skipped"
	EmailStatusFailed    = "failed"

	bodyPartName = "body"
)

// MailDocument is one readable part of an email.
type MailDocument struct {
	Name string
	Text string
}

// ParsedMail is the result of reading a raw message.
type ParsedMail struct {
	Subject     string
	Body        string
	Attachments []string
	Documents   []MailDocument
}

// ParseMail reads every supported attachment and, when it mentions a
// container, the message body.
func ParseMail(raw []byte) (ParsedMail, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return ParsedMail{}, err
	}
	out := ParsedMail{Subject: env.GetHeader("Subject"), Body: env.Text}

	parts := append(append([]*enmime.Part{}, env.Attachments...), env.Inlines...)
	for i, att := range parts {
		name := strings.TrimSpace(att.FileName)
		if name == "" {
			name = fmt.Sprintf("attachment-%d", i+1)
		}
		out.Attachments = append(out.Attachments, name)

		var text string
		switch {
		case att.ContentType == pdfMimeType:
			text, err = reader.PDFText(att.Content)
		case reader.Supported(name):
			text, err = reader.Text(name, att.Content)
		default:
			continue
		}
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		out.Documents = append(out.Documents, MailDocument{Name: name, Text: text})
	}

	body := env.Text
	if env.HTML != "" {
		if text, err := reader.HTMLText(env.HTML); err == nil && text != "" {
			body = text
		}
	}
	body = strings.TrimSpace(strings.ReplaceAll(body, "\r\n", "\n"))
	if body != "" && len(patterns.ContainerCandidates(body)) > 0 {
		out.Documents = append(out.Documents, MailDocument{Name: bodyPartName, Text: body})
	}
	return out, nil
}

type MailIngest struct {
	db       *storage.DB
	registry *strategy.Registry
	table    connectors.TabularStore
	log      zerolog.Logger
}

// NewMailIngest builds the mail workflow. table may be nil.
func NewMailIngest(db *storage.DB, registry *strategy.Registry, table connectors.TabularStore, log zerolog.Logger) *MailIngest {
	return &MailIngest{db: db, registry: registry, table: table, log: log.With().Str("source", string(internal.SourceMail)).Logger()}
}

type MailResult struct {
	RunID     string
	Emails    int
	Processed int
	Skipped   int
	Failed    int
	Records   int
}

// ProcessPending handles up to limit fetched emails, oldest first.
func (m *MailIngest) ProcessPending(ctx context.Context, limit int) (MailResult, error) {
	res := MailResult{RunID: uuid.NewString()}
	pending, err := m.db.ListEmailsByStatus(connectors.EmailStatusFetched, limit)
	if err != nil {
		return res, stageErr(StageLedger, "", err)
	}
	if err := m.db.StartRun(res.RunID, string(internal.SourceMail)); err != nil {
		return res, stageErr(StageLedger, "", err)
	}

	for _, email := range pending {
		if ctx.Err() != nil {
			break
		}
		res.Emails++
		n, err := m.ProcessEmail(ctx, res.RunID, email)
		switch {
		case err == nil:
			res.Processed++
			res.Records += n
		case IsSkip(err):
			res.Skipped++
		default:
			res.Failed++
			m.log.Error().Err(err).Int("email", email.ID).Msg("fail")
		}
	}

	counts := map[string]int{
		"emails":    res.Emails,
		"processed": res.Processed,
		"skipped":   res.Skipped,
		"failed":    res.Failed,
		"records":   res.Records,
	}
	if err := m.db.FinishRun(res.RunID, counts); err != nil {
		return res, stageErr(StageLedger, "", err)
	}
	return res, ctx.Err()
}

// ProcessEmail extracts records from every document of one stored email and
// returns how many were stored. Files are never moved.
func (m *MailIngest) ProcessEmail(ctx context.Context, runID string, email internal.EmailRow) (int, error) {
	id := fmt.Sprintf("%d", email.ID)
	log := m.log.With().Int("email", email.ID).Str("subject", email.Subject).Logger()

	raw, err := os.ReadFile(email.RawRef)
	if err != nil {
		_ = m.db.UpdateEmailStatus(email.ID, EmailStatusFailed)
		return 0, stageErr(StageMail, id, err)
	}
	parsed, err := ParseMail(raw)
	if err != nil {
		_ = m.db.UpdateEmailStatus(email.ID, EmailStatusFailed)
		return 0, stageErr(StageMail, id, err)
	}

	detect := DetectEDO(util.FirstNonEmpty(parsed.Subject, email.Subject), parsed.Body, parsed.Attachments)
	if !detect.IsEDO && len(parsed.Documents) == 0 {
		_ = m.db.UpdateEmailStatus(email.ID, EmailStatusSkipped)
		log.Info().Float64("score", detect.Score).Msg("skip")
		return 0, ErrNoRecords
	}

	preview := local.New().PreviewLink(email.RawRef)
	stored := 0
	for _, part := range parsed.Documents {
		ext, err := safeProcess(m.registry, part.Text)
		if err != nil {
			log.Error().Err(err).Str("part", part.Name).Msg("extract")
			continue
		}
		if len(ext.Containers()) == 0 {
			continue
		}
		for i := range ext.Records {
			ext.Records[i].PreviewLink = preview
		}

		doc, err := m.db.UpsertDocument(internal.DocumentRow{
			Source:   internal.SourceMail,
			SourceID: id + "/" + part.Name,
			Name:     part.Name,
			Hash:     email.Hash,
			Strategy: ext.Strategy,
			Status:   internal.StatusStored,
		}, runID)
		if err != nil {
			return stored, stageErr(StageLedger, id, err)
		}
		if err := m.db.ReplaceRecords(doc.ID, ext.Strategy, ext.Records); err != nil {
			return stored, stageErr(StageLedger, id, err)
		}
		if err := upsertRows(ctx, m.table, ext.Records); err != nil {
			log.Warn().Err(err).Str("part", part.Name).Msg("tabular store")
		}
		stored += len(ext.Records)
		log.Info().Str("part", part.Name).Str("strategy", ext.Strategy).Int("records", len(ext.Records)).Msg("ok")
	}

	if stored == 0 {
		_ = m.db.UpdateEmailStatus(email.ID, EmailStatusSkipped)
		return 0, ErrNoRecords
	}
	if err := m.db.UpdateEmailStatus(email.ID, EmailStatusProcessed); err != nil {
		return stored, stageErr(StageLedger, id, err)
	}
	return stored, nil
}
