package utils

import (
	"bytes"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"regexp"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ProcessImage decodes raw image bytes, shrinks them to maxWidth and re-encodes as WebP,
// falling back to JPEG when WebP encoding fails.
func ProcessImage(data []byte, maxWidth int) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	err = webp.Encode(&buf, img, &webp.Options{
		Lossless: false,
		Quality:  85,
	})
	if err != nil {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}

	return buf.Bytes(), "image/webp", nil
}

// IsImage reports whether a Content-Type header names an image, ignoring parameters.
func IsImage(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
}

var sizeWidth = regexp.MustCompile(`^[wsh](\d+)$`)

// IsImageSize reports whether size is a Drive size token such as "w1000" or "s800".
func IsImageSize(size string) bool {
	return sizeWidth.MatchString(size)
}

// SizeToWidth turns a Drive size token ("w1000", "s800") into a pixel width, capped at max.
func SizeToWidth(size string, max int) int {
	m := sizeWidth.FindStringSubmatch(size)
	if m == nil {
		return max
	}
	w, err := strconv.Atoi(m[1])
	if err != nil || w <= 0 {
		return max
	}
	if max > 0 && w > max {
		return max
	}
	return w
}
