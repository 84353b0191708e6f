package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const publicIDSuffixLen = 5

// NewRandomToken returns a fresh unique token with no separators.
func NewRandomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewPublicID builds a URL-safe public identifier from a title:
// slugified title plus a short random suffix. An empty title yields
// a bare token. The 5-char suffix is not collision-proof; callers
// persisting the result retry on duplicates.
func NewPublicID(title string) string {
	token := NewRandomToken()
	if strings.TrimSpace(title) == "" {
		return token
	}
	return slug.Make(title) + "-" + token[:publicIDSuffixLen]
}
