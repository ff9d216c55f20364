package listener

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"edoparser/internal"
	"edoparser/internal/carriers"
	"edoparser/internal/config"
	"edoparser/internal/connectors"
	"edoparser/internal/pipeline"
	"edoparser/internal/storage"
)

const sourceNone = "none"

type Service struct {
	db  *storage.DB
	cfg config.Config
	log zerolog.Logger

	files *pipeline.ProcessingService
}

func NewService(db *storage.DB, cfg config.Config, log zerolog.Logger) *Service {
	return &Service{db: db, cfg: cfg, log: log.With().Str("component", "listener").Logger()}
}

// Run repeats RunCycle every interval until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.ListenerIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	s.log.Info().Str("source", s.cfg.ListenerSource).Bool("mail", s.cfg.ListenerMail).Dur("interval", interval).Msg("listening")

	for {
		if err := s.RunCycle(ctx); err != nil && ctx.Err() == nil {
			s.log.Error().Err(err).Msg("cycle")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// RunCycle processes the file source once and, when enabled, fetches and
// processes mail.
func (s *Service) RunCycle(ctx context.Context) error {
	source := strings.ToLower(strings.TrimSpace(s.cfg.ListenerSource))
	if source != "" && source != sourceNone {
		if s.files == nil {
			files, err := FileProcessor(ctx, s.db, s.cfg, internal.DocumentSource(source), "", s.log)
			if err != nil {
				return err
			}
			s.files = files
		}
		res, err := s.files.Run(ctx)
		if err != nil {
			return err
		}
		s.log.Info().Str("run", res.RunID).Int("moved", res.Moved).Int("skipped", res.Skipped).Int("failed", res.Failed).Msg("files done")
	}

	if s.cfg.ListenerMail {
		return s.mailCycle(ctx)
	}
	return nil
}

func (s *Service) mailCycle(ctx context.Context) error {
	conn, err := MailConnector(ctx, s.cfg, s.cfg.MailProvider)
	if err != nil {
		return err
	}
	fetched, err := connectors.NewFetchService(s.db, s.cfg.RawMailDir, conn, s.log).FetchAndStore(s.cfg.MailLabel, s.cfg.MailFetchMax)
	if err != nil {
		return err
	}

	table, err := TabularStore(ctx, s.cfg)
	if err != nil {
		return err
	}
	res, err := pipeline.NewMailIngest(s.db, carriers.NewRegistry(), table, s.log).ProcessPending(ctx, s.cfg.MailProcessBatch)
	if err != nil {
		return err
	}
	s.log.Info().
		Str("provider", s.cfg.MailProvider).
		Int("fetched", fetched.Fetched).
		Int("stored", fetched.Stored).
		Int("processed", res.Processed).
		Int("records", res.Records).
		Msg("mail done")
	return nil
}
