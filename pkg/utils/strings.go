package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var mobileUserAgent = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// IsMobileUserAgent reports whether a User-Agent header belongs to a phone or tablet browser.
func IsMobileUserAgent(ua string) bool {
	return mobileUserAgent.MatchString(ua)
}

// ParseInt parses a string to int with a fallback default value
func ParseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}

// CacheBust appends a _ts=<unix millis> parameter so intermediaries never serve a stale feed.
func CacheBust(rawURL string, now time.Time) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + "_ts=" + strconv.FormatInt(now.UnixMilli(), 10)
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// DigitsOnly strips every non-digit and truncates the result to max characters.
func DigitsOnly(s string, max int) string {
	d := nonDigits.ReplaceAllString(s, "")
	if max > 0 && len(d) > max {
		d = d[:max]
	}
	return d
}
