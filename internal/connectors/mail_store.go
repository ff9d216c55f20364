package connectors

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"edoparser/internal"
	"edoparser/internal/storage"
)

const EmailStatusFetched = "fetched"

// ContentHash is the hex sha256 used to name raw files and dedupe documents.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type MailStoreService struct {
	db         *storage.DB
	rawMailDir string
}

func NewMailStoreService(db *storage.DB, rawMailDir string) *MailStoreService {
	return &MailStoreService{db: db, rawMailDir: rawMailDir}
}

// Store writes the raw message as <hash>.eml once and upserts its ledger row.
func (s *MailStoreService) Store(msg internal.FetchedMailMessage) (internal.EmailRow, error) {
	hash := ContentHash(msg.Raw)
	if err := os.MkdirAll(s.rawMailDir, 0o755); err != nil {
		return internal.EmailRow{}, err
	}

	rawPath := filepath.Join(s.rawMailDir, hash+".eml")
	if _, err := os.Stat(rawPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(rawPath, msg.Raw, 0o644); err != nil {
			return internal.EmailRow{}, err
		}
	}

	return s.db.UpsertEmail(msg.Provider, msg.MessageID, msg.Subject, msg.From, msg.ReceivedAt, hash, rawPath, EmailStatusFetched)
}
