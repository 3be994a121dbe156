// Package drive uploads rendered flashcard documents to Google Drive,
// converting them to Google Docs format on the way in.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	googleDocMime = "application/vnd.google-apps.document"
	docxMime      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Uploader wraps an authenticated Drive service.
type Uploader struct {
	service *driveapi.Service
	logger  *slog.Logger
}

// NewUploader builds a Drive client from the OAuth client credentials
// and a previously saved token (see Authorize). Both files are required;
// errors name the missing file and how to get it.
func NewUploader(ctx context.Context, credentialsPath, tokenPath string, logger *slog.Logger) (*Uploader, error) {
	cfg, err := readOAuthConfig(credentialsPath)
	if err != nil {
		return nil, err
	}

	tok, err := readToken(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("Drive token not found at %s: run \"flashdoc auth\" first (%w)", tokenPath, err)
	}

	service, err := driveapi.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return &Uploader{
		service: service,
		logger:  logger.With(slog.String("module", "drive")),
	}, nil
}

// Upload sends the .docx at path to Drive as a converted Google Doc and
// returns the remote file ID.
func (u *Uploader) Upload(ctx context.Context, path, displayName string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for upload: %w", path, err)
	}
	defer f.Close()

	file, err := u.service.Files.Create(&driveapi.File{
		Name:     displayName,
		MimeType: googleDocMime,
	}).Media(f, googleapi.ContentType(docxMime)).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}

	u.logger.Info("uploaded document",
		slog.String("name", displayName), slog.String("id", file.Id))
	return file.Id, nil
}

// Authorize runs the installed-app OAuth flow: it prints the consent
// URL, exchanges the pasted code via promptCode, and persists the token
// at tokenPath for future runs.
func Authorize(ctx context.Context, credentialsPath, tokenPath string, promptCode func(authURL string) (string, error)) error {
	cfg, err := readOAuthConfig(credentialsPath)
	if err != nil {
		return err
	}

	code, err := promptCode(cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline))
	if err != nil {
		return err
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return saveToken(tokenPath, tok)
}

func readOAuthConfig(credentialsPath string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("credentials file not found at %s: "+
			"download an OAuth client secret from the Google Cloud console (%w)", credentialsPath, err)
	}
	cfg, err := google.ConfigFromJSON(b, driveapi.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials from %s: %w", credentialsPath, err)
	}
	return cfg, nil
}

func readToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to save token to %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
