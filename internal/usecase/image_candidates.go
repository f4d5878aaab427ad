package usecase

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

const defaultImageSize = "w1000"

var drivePathID = regexp.MustCompile(`/d/([-\w]{10,})`)

// candidatePriority lists the URL shapes that load most reliably, best first.
// Anything not matching one of them keeps its discovery order at the end.
var candidatePriority = []string{
	"/api/products/image/",
	"drive.google.com/thumbnail",
	"drive.google.com/uc?export=view",
	"drive.google.com/uc?export=download",
	"drive.googleusercontent.com/uc",
	"drive.google.com/file/d/",
	"lh3.googleusercontent.com/d/",
}

// ExtractDriveFileID recognizes Drive sharing, view and thumbnail links plus
// googleusercontent mirrors and returns the file identifier they point to.
func ExtractDriveFileID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}

	if strings.Contains(u.Hostname(), "drive.google.com") {
		if id := u.Query().Get("id"); id != "" {
			return id, true
		}
		if m := drivePathID.FindStringSubmatch(u.Path); m != nil {
			return m[1], true
		}
	}
	if strings.Contains(u.Hostname(), "googleusercontent.com") {
		if m := drivePathID.FindStringSubmatch(u.Path); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ProxyImageURL is the address of this server's image proxy for a Drive file.
func ProxyImageURL(baseURL, fileID, size string) string {
	if size == "" {
		size = defaultImageSize
	}
	return fmt.Sprintf("%s/api/products/image/%s?size=%s", strings.TrimRight(baseURL, "/"), fileID, url.QueryEscape(size))
}

// BuildImageCandidates expands one raw image reference into equivalent access URLs.
// The trimmed value itself is always a candidate, relative paths included; only Drive
// links gain the alternative family. Blank values yield nothing.
func BuildImageCandidates(raw, proxyBaseURL string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	candidates := []string{trimmed}
	fileID, ok := ExtractDriveFileID(trimmed)
	if !ok {
		return candidates
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return candidates
	}
	size := u.Query().Get("sz")
	if size == "" {
		size = defaultImageSize
	}

	if proxyBaseURL != "" {
		candidates = append(candidates, ProxyImageURL(proxyBaseURL, fileID, size))
	}
	candidates = append(candidates,
		"https://drive.google.com/uc?export=view&id="+fileID,
		"https://drive.google.com/uc?export=download&id="+fileID,
		"https://drive.googleusercontent.com/uc?id="+fileID+"&export=view",
		"https://drive.google.com/thumbnail?id="+fileID+"&sz="+size+"&export=download",
		"https://drive.google.com/thumbnail?id="+fileID+"&sz="+size+"&authuser=0",
		"https://drive.google.com/file/d/"+fileID+"/preview",
		"https://lh3.googleusercontent.com/d/"+fileID+"="+size,
		"https://lh3.googleusercontent.com/d/"+fileID+"="+size+"?authuser=0",
	)
	if !strings.Contains(trimmed, "drive.google.com/thumbnail") {
		candidates = append(candidates, "https://drive.google.com/thumbnail?id="+fileID+"&sz="+size)
	}
	return lo.Uniq(candidates)
}

// PrioritizeCandidates dedupes urls and reorders them by candidatePriority.
// The sort is stable within each priority bucket.
func PrioritizeCandidates(urls []string) []string {
	unique := lo.Uniq(lo.Compact(urls))
	out := make([]string, 0, len(unique))
	for _, marker := range candidatePriority {
		out = append(out, lo.Filter(unique, func(u string, _ int) bool {
			return strings.Contains(u, marker)
		})...)
	}
	out = append(out, unique...)
	return lo.Uniq(out)
}
