package pipeline

import (
	"errors"
	"fmt"
)

// Skip outcomes. A skipped document stays in its input folder.
var (
	ErrNoText    = errors.New("document has no text")
	ErrNoRecords = errors.New("no records extracted")
)

type Stage string

const (
	StageDownload Stage = "download"
	StageRead     Stage = "read"
	StageExtract  Stage = "extract"
	StageMove     Stage = "move"
	StageLedger   Stage = "ledger"
	StageTabular  Stage = "tabular"
	StageMail     Stage = "mail"
)

// StageError reports which step of processing a file failed.
type StageError struct {
	Stage  Stage
	FileID string
	Err    error
}

func (e *StageError) Error() string {
	if e.FileID == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.FileID, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, fileID string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, FileID: fileID, Err: err}
}

// IsSkip reports whether err marks a document that was left untouched.
func IsSkip(err error) bool {
	return errors.Is(err, ErrNoText) || errors.Is(err, ErrNoRecords)
}
