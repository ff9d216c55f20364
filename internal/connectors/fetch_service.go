package connectors

import (
	"github.com/rs/zerolog"

	"edoparser/internal/storage"
)

type FetchService struct {
	db        *storage.DB
	connector MailConnector
	store     *MailStoreService
	log       zerolog.Logger
}

type FetchResult struct {
	Fetched    int
	Stored     int
	Duplicates int
}

func NewFetchService(db *storage.DB, rawMailDir string, connector MailConnector, log zerolog.Logger) *FetchService {
	return &FetchService{
		db:        db,
		connector: connector,
		store:     NewMailStoreService(db, rawMailDir),
		log:       log,
	}
}

// FetchAndStore pulls up to max messages from label. Messages already in the
// ledger are counted as duplicates and keep their current status.
func (s *FetchService) FetchAndStore(label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(label, max)
	if err != nil {
		return FetchResult{}, err
	}

	res := FetchResult{Fetched: len(messages)}
	for _, msg := range messages {
		existing, err := s.db.GetEmailByProviderMessageID(msg.Provider, msg.MessageID)
		if err != nil {
			return res, err
		}
		if existing != nil {
			res.Duplicates++
			continue
		}
		row, err := s.store.Store(msg)
		if err != nil {
			return res, err
		}
		res.Stored++
		s.log.Debug().Int("email", row.ID).Str("subject", row.Subject).Msg("stored")
	}

	return res, nil
}
