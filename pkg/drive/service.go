// Package drive wraps the Google Drive v3 API for uploading retrieved
// portal documents and listing a shared destination folder.
//
// Authentication uses an OAuth installed-app client secret plus a
// previously obtained token file. The interactive consent flow is out
// of scope here; the token file is produced once out-of-band and
// refreshed automatically through the oauth2 token source.
package drive

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/entrhq/sigaa-mcp/pkg/config"
	"github.com/entrhq/sigaa-mcp/pkg/logging"
)

// Scope limits access to files this application created.
const Scope = drivev3.DriveFileScope

// FileInfo is the metadata subset surfaced to callers.
type FileInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type,omitempty"`
	Link     string `json:"drive_link,omitempty"`
}

// api is the slice of the Drive v3 surface the service consumes.
// Narrowed to an interface so tests can substitute a fake.
type api interface {
	Create(ctx context.Context, name, folderID, mimeType string, data io.Reader) (*FileInfo, error)
	List(ctx context.Context, folderID string) ([]FileInfo, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	MimeType(ctx context.Context, fileID string) (string, error)
}

// Service uploads and retrieves files in a fixed Drive folder.
type Service struct {
	api      api
	folderID string
	log      *logging.Logger
}

// IsConfigured reports whether the client secret file exists and a
// destination folder is set. It performs no network calls.
func IsConfigured(cfg *config.Config) bool {
	if cfg.DriveClientSecretsPath == "" || cfg.DriveFolderID == "" {
		return false
	}
	_, err := os.Stat(cfg.DriveClientSecretsPath)
	return err == nil
}

// NewService builds a Drive client from the OAuth client secret and
// token files named in cfg.
func NewService(ctx context.Context, cfg *config.Config, log *logging.Logger) (*Service, error) {
	secret, err := os.ReadFile(cfg.DriveClientSecretsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive client secrets: %w", err)
	}
	oauthCfg, err := google.ConfigFromJSON(secret, Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse drive client secrets: %w", err)
	}

	tok, err := readToken(cfg.DriveTokenPath)
	if err != nil {
		return nil, err
	}

	svc, err := drivev3.NewService(ctx, option.WithTokenSource(oauthCfg.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize drive service: %w", err)
	}

	return &Service{
		api:      &driveAPI{svc: svc},
		folderID: cfg.DriveFolderID,
		log:      log,
	}, nil
}

func readToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive token (run the authorization flow first): %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse drive token: %w", err)
	}
	return &tok, nil
}

// FolderID returns the configured destination folder.
func (s *Service) FolderID() string {
	return s.folderID
}

// UploadFile uploads the local file at path. name defaults to the
// file's base name, folderID to the configured folder.
func (s *Service) UploadFile(ctx context.Context, path, name, folderID, mimeType string) (*FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if name == "" {
		name = filepath.Base(path)
	}
	if folderID == "" {
		folderID = s.folderID
	}

	info, err := s.api.Create(ctx, name, folderID, mimeType, f)
	if err != nil {
		s.errorf("upload of %s failed: %v", path, err)
		return nil, err
	}
	s.infof("uploaded %s to drive (id %s)", name, info.ID)
	return info, nil
}

// UploadBytes uploads raw content under the given name.
func (s *Service) UploadBytes(ctx context.Context, data []byte, name, folderID, mimeType string) (*FileInfo, error) {
	if folderID == "" {
		folderID = s.folderID
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	info, err := s.api.Create(ctx, name, folderID, mimeType, bytesReader(data))
	if err != nil {
		s.errorf("upload of %s failed: %v", name, err)
		return nil, err
	}
	s.infof("uploaded %s to drive (id %s)", name, info.ID)
	return info, nil
}

// ListFolder lists non-trashed files in folderID (or the configured
// folder when empty).
func (s *Service) ListFolder(ctx context.Context, folderID string) ([]FileInfo, error) {
	if folderID == "" {
		folderID = s.folderID
	}
	files, err := s.api.List(ctx, folderID)
	if err != nil {
		s.errorf("listing folder %s failed: %v", folderID, err)
		return nil, err
	}
	return files, nil
}

// UploadImages uploads a batch of local PNG files under the base name,
// numbered from 1. Per-file failures are logged and skipped; the
// returned slice holds the uploads that succeeded.
func (s *Service) UploadImages(ctx context.Context, paths []string, baseName string) []FileInfo {
	var uploaded []FileInfo
	for i, path := range paths {
		name := fmt.Sprintf("%s_%d.png", baseName, i+1)
		info, err := s.UploadFile(ctx, path, name, "", "image/png")
		if err != nil {
			s.errorf("skipping image upload %s: %v", name, err)
			continue
		}
		uploaded = append(uploaded, *info)
	}
	return uploaded
}

// DownloadBase64 downloads a file and returns its content base64-encoded.
func (s *Service) DownloadBase64(ctx context.Context, fileID string) (string, error) {
	data, err := s.api.Download(ctx, fileID)
	if err != nil {
		s.errorf("download of %s failed: %v", fileID, err)
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DownloadDataURI downloads a file and returns it as a data: URI with
// its Drive-reported MIME type.
func (s *Service) DownloadDataURI(ctx context.Context, fileID string) (string, error) {
	mime, err := s.api.MimeType(ctx, fileID)
	if err != nil {
		s.errorf("mime lookup of %s failed: %v", fileID, err)
		return "", err
	}
	b64, err := s.DownloadBase64(ctx, fileID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, b64), nil
}

func (s *Service) infof(format string, v ...interface{}) {
	if s.log != nil {
		s.log.Infof(format, v...)
	}
}

func (s *Service) errorf(format string, v ...interface{}) {
	if s.log != nil {
		s.log.Errorf(format, v...)
	}
}

// FileLink builds the shareable view URL for a Drive file ID.
func FileLink(id string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", id)
}
