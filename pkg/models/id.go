package models

import (
	"crypto/rand"
	"regexp"
	"strings"
)

const (
	maxSlugLength = 60
	suffixLength  = 6
	suffixAlpha   = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var safeIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,127}$`)

// SafeID reports whether id may be used to address storage.
func SafeID(id string) bool {
	return safeIDPattern.MatchString(id)
}

// Slugify lowercases s and keeps alphanumerics separated by single dashes.
func Slugify(s string) string {
	var b strings.Builder

	dash := false

	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}

			b.WriteRune(r)

			dash = false
		default:
			dash = true
		}

		if b.Len() >= maxSlugLength {
			break
		}
	}

	return strings.Trim(b.String()[:min(b.Len(), maxSlugLength)], "-")
}

// NewBundleID returns "<slug>-<suffix>" using the first candidate that
// slugifies to something non-empty.
func NewBundleID(candidates ...string) string {
	slug := "bundle"

	for _, c := range candidates {
		if s := Slugify(c); s != "" {
			slug = s

			break
		}
	}

	return slug + "-" + randomSuffix()
}

func randomSuffix() string {
	buf := make([]byte, suffixLength)

	// crypto/rand.Read never returns an error.
	_, _ = rand.Read(buf)

	for i, v := range buf {
		buf[i] = suffixAlpha[int(v)%len(suffixAlpha)]
	}

	return string(buf)
}
