package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// ShortLinkLength is the number of hex characters kept from the digest
const ShortLinkLength = 16

// ShortLinkDigest derives a fixed-length identifier from url. It is a pure
// function of its input and is never stored, so it cannot be resolved back.
func ShortLinkDigest(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:ShortLinkLength]
}

// RecipeURL is the canonical public URL of a recipe
func RecipeURL(baseURL string, id uuid.UUID) string {
	return strings.TrimRight(baseURL, "/") + "/recipes/" + id.String()
}

// ShortLink returns the share link for a recipe
func ShortLink(baseURL string, id uuid.UUID) string {
	return strings.TrimRight(baseURL, "/") + "/s/" + ShortLinkDigest(RecipeURL(baseURL, id))
}
