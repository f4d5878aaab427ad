package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"ultimate-kits/internal/domain"
	"ultimate-kits/pkg/cache"
	"ultimate-kits/pkg/logger"
	"ultimate-kits/pkg/utils"
)

var validFileID = regexp.MustCompile(`^[-\w]{5,}$`)

const objectMirrorTimeout = 30 * time.Second

// ImageUsecase serves Drive images through this server, resized and re-encoded.
type ImageUsecase struct {
	fetchers []domain.ImageFetcher
	store    domain.ObjectStore
	cache    cache.CacheService
	ttl      time.Duration
	maxWidth int
	async    func(func())
}

// NewImageUsecase wires the fetchers in the order they are tried. store may be nil.
func NewImageUsecase(fetchers []domain.ImageFetcher, store domain.ObjectStore, cache cache.CacheService, ttl time.Duration, maxWidth int) *ImageUsecase {
	return &ImageUsecase{
		fetchers: fetchers,
		store:    store,
		cache:    cache,
		ttl:      ttl,
		maxWidth: maxWidth,
		async:    func(f func()) { go f() },
	}
}

func imageCacheKey(fileID string, width int) string {
	return fmt.Sprintf("image:%s:%d", fileID, width)
}

func imageObjectKey(fileID string, width int) string {
	return fmt.Sprintf("products/%s/%d.webp", fileID, width)
}

// Get returns the processed image for a Drive file at the requested size token.
func (uc *ImageUsecase) Get(ctx context.Context, fileID, size string) (*domain.ImageBlob, error) {
	if !validFileID.MatchString(fileID) {
		return nil, fmt.Errorf("%w: invalid file id", domain.ErrValidation)
	}
	if !utils.IsImageSize(size) {
		size = defaultImageSize
	}
	width := utils.SizeToWidth(size, uc.maxWidth)
	key := imageCacheKey(fileID, width)
	log := logger.WithContext(ctx).With().Str("file_id", fileID).Int("width", width).Logger()

	if val, found := uc.cache.Get(key); found {
		if blob, ok := val.(*domain.ImageBlob); ok {
			return blob, nil
		}
	}

	if uc.store != nil {
		data, contentType, err := uc.store.Get(ctx, imageObjectKey(fileID, width))
		if err == nil {
			blob := &domain.ImageBlob{Data: data, ContentType: contentType, Source: "object_store"}
			uc.cache.Set(key, blob, uc.ttl)
			return blob, nil
		}
		log.Debug().Err(err).Msg("Image not in object store")
	}

	var errs []error
	for _, f := range uc.fetchers {
		raw, err := f.Fetch(ctx, fileID, size)
		if err != nil {
			log.Warn().Err(err).Str("fetcher", f.Name()).Msg("Image fetcher failed")
			errs = append(errs, err)
			continue
		}

		data, contentType, err := utils.ProcessImage(raw.Data, width)
		if err != nil {
			log.Warn().Err(err).Str("fetcher", f.Name()).Msg("Could not decode image")
			errs = append(errs, err)
			continue
		}

		blob := &domain.ImageBlob{Data: data, ContentType: contentType, Source: raw.Source}
		uc.cache.Set(key, blob, uc.ttl)
		uc.mirror(ctx, fileID, width, blob)
		log.Info().Str("fetcher", f.Name()).Int("bytes", len(data)).Msg("Image proxied")
		return blob, nil
	}

	log.Error().Err(errors.Join(errs...)).Msg("No source could provide the image")
	return nil, domain.ErrImageNotFound
}

// mirror copies a freshly processed image to the object store without delaying the response.
func (uc *ImageUsecase) mirror(ctx context.Context, fileID string, width int, blob *domain.ImageBlob) {
	if uc.store == nil || blob.ContentType != "image/webp" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	uc.async(func() {
		ctx, cancel := context.WithTimeout(ctx, objectMirrorTimeout)
		defer cancel()
		if _, err := uc.store.Put(ctx, imageObjectKey(fileID, width), blob.Data, blob.ContentType); err != nil {
			logger.WithContext(ctx).Warn().Err(err).Str("file_id", fileID).Msg("Failed to mirror image")
		}
	})
}

// Purge drops a file from the memory cache and the object store at one width.
func (uc *ImageUsecase) Purge(ctx context.Context, fileID, size string) error {
	if !validFileID.MatchString(fileID) {
		return fmt.Errorf("%w: invalid file id", domain.ErrValidation)
	}
	width := utils.SizeToWidth(size, uc.maxWidth)
	uc.cache.Delete(imageCacheKey(fileID, width))
	if uc.store == nil {
		return nil
	}
	return uc.store.Delete(ctx, imageObjectKey(fileID, width))
}
