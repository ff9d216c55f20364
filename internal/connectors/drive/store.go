// Package drive implements connectors.FileStore on Google Drive folders.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"edoparser/internal"
	"edoparser/internal/config"
	"edoparser/internal/connectors"
	"edoparser/internal/connectors/googleauth"
)

const (
	pdfMimeType = "application/pdf"
	listFields  = "nextPageToken, files(id, name, mimeType, parents)"
	pageSize    = 100
)

type Store struct {
	service  *drive.Service
	throttle *connectors.Throttle
}

// NewStore authenticates from cfg.
func NewStore(ctx context.Context, cfg config.Config) (*Store, error) {
	auth, err := googleauth.ClientOption(ctx, cfg, drive.DriveScope)
	if err != nil {
		return nil, err
	}
	store, err := New(ctx, auth)
	if err != nil {
		return nil, err
	}
	store.throttle = connectors.NewThrottle(cfg.GoogleRateLimitRPS)
	return store, nil
}

func New(ctx context.Context, opts ...option.ClientOption) (*Store, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Store{service: svc}, nil
}

// List returns the PDFs directly inside folder that are not trashed.
func (s *Store) List(ctx context.Context, folder string) ([]internal.SourceFile, error) {
	q := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false", escapeQuery(folder), pdfMimeType)
	call := s.service.Files.List().
		Q(q).
		Fields(listFields).
		OrderBy("name").
		PageSize(pageSize).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true)

	var out []internal.SourceFile
	err := s.throttle.Do(ctx, func() error {
		out = out[:0]
		return call.Pages(ctx, collect(&out))
	})
	if err != nil {
		return nil, fmt.Errorf("list drive folder %s: %w", folder, wrapNotFound(err))
	}
	return out, nil
}

func collect(out *[]internal.SourceFile) func(*drive.FileList) error {
	return func(page *drive.FileList) error {
		for _, f := range page.Files {
			*out = append(*out, internal.SourceFile{
				ID:       f.Id,
				Name:     f.Name,
				MimeType: f.MimeType,
				Parents:  f.Parents,
			})
		}
		return nil
	}
}

func (s *Store) Download(ctx context.Context, id string) ([]byte, error) {
	var resp *http.Response
	err := s.throttle.Do(ctx, func() error {
		var err error
		resp, err = s.service.Files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", id, wrapNotFound(err))
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// Move swaps every current parent for folder and renames in the same update.
// Drive ids are stable, so the returned id is the input id.
func (s *Store) Move(ctx context.Context, id, folder, newName string) (string, error) {
	var current *drive.File
	err := s.throttle.Do(ctx, func() error {
		var err error
		current, err = s.service.Files.Get(id).Fields("parents").SupportsAllDrives(true).Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("get parents of %s: %w", id, wrapNotFound(err))
	}

	patch := &drive.File{}
	if newName != "" {
		patch.Name = newName
	}
	call := s.service.Files.Update(id, patch).
		AddParents(folder).
		SupportsAllDrives(true).
		Fields("id, name, parents")
	if len(current.Parents) > 0 {
		call = call.RemoveParents(strings.Join(current.Parents, ","))
	}
	err = s.throttle.Do(ctx, func() error {
		_, err := call.Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("move %s: %w", id, wrapNotFound(err))
	}
	return id, nil
}

func (s *Store) PreviewLink(id string) string {
	return PreviewLink(id)
}

func PreviewLink(id string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", id)
}

func escapeQuery(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}

func wrapNotFound(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %v", connectors.ErrNotFound, err)
	}
	return err
}
