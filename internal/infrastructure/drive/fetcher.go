package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ultimate-kits/internal/domain"
	"ultimate-kits/pkg/logger"
	"ultimate-kits/pkg/utils"

	"github.com/hashicorp/go-retryablehttp"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const maxImageBytes = 25 << 20

var errNotImage = errors.New("response is not an image")

// APIFetcher downloads files through the Drive API with a service account.
type APIFetcher struct {
	client *drive.Service
}

// NewAPIFetcher creates a Drive client from a service account JSON file.
func NewAPIFetcher(ctx context.Context, credentialsPath string) (*APIFetcher, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &APIFetcher{client: svc}, nil
}

func (f *APIFetcher) Name() string { return "drive_api" }

func (f *APIFetcher) Fetch(ctx context.Context, fileID, _ string) (*domain.ImageBlob, error) {
	resp, err := f.client.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("drive download %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read drive file %s: %w", fileID, err)
	}
	return &domain.ImageBlob{Data: data, ContentType: resp.Header.Get("Content-Type"), Source: f.Name()}, nil
}

// PublicFetcher tries the public Drive URL shapes one after another, presenting
// itself as a browser.
type PublicFetcher struct {
	client *retryablehttp.Client
}

func NewPublicFetcher(timeout time.Duration) *PublicFetcher {
	c := retryablehttp.NewClient()
	c.RetryMax = 0
	c.HTTPClient.Timeout = timeout
	c.Logger = nil
	return &PublicFetcher{client: c}
}

func (f *PublicFetcher) Name() string { return "drive_public" }

// PublicURLs lists the anonymous access URLs for a Drive file in the order they are tried.
func PublicURLs(fileID, size string) []string {
	fileID, size = url.QueryEscape(fileID), url.QueryEscape(size)
	return []string{
		"https://drive.google.com/thumbnail?id=" + fileID + "&sz=" + size,
		"https://drive.google.com/uc?export=view&id=" + fileID,
		"https://drive.google.com/uc?export=download&id=" + fileID,
		"https://lh3.googleusercontent.com/d/" + fileID + "=" + size,
		"https://drive.googleusercontent.com/uc?id=" + fileID + "&export=view",
	}
}

func (f *PublicFetcher) Fetch(ctx context.Context, fileID, size string) (*domain.ImageBlob, error) {
	return f.fetchFirst(ctx, PublicURLs(fileID, size))
}

func (f *PublicFetcher) fetchFirst(ctx context.Context, urls []string) (*domain.ImageBlob, error) {
	log := logger.WithContext(ctx)
	var errs []error
	for _, u := range urls {
		blob, err := f.get(ctx, u)
		if err == nil {
			log.Debug().Str("url", u).Msg("Fetched Drive image")
			return blob, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn().Err(err).Str("url", u).Msg("Drive image URL failed")
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

func (f *PublicFetcher) get(ctx context.Context, rawURL string) (*domain.ImageBlob, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Referer", "https://drive.google.com/")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %s", rawURL, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	// Drive answers unshared files with an HTML sign-in page and a 200.
	if len(data) == 0 || !utils.IsImage(contentType) {
		return nil, fmt.Errorf("%s: %w (%s)", rawURL, errNotImage, contentType)
	}
	return &domain.ImageBlob{Data: data, ContentType: contentType, Source: f.Name()}, nil
}
