// Copyright (c) 2026 Gavella. All rights reserved.

// Package normalize provides Unicode text normalization for user-supplied names.
//
// # Why NFC?
//
// Site names and usernames are uniqueness keys. Visually identical strings can
// differ at the byte level (e.g. "é" as one code point vs "e" + combining
// accent), which would let two "identical" usernames coexist on a site.
// Normalizing to NFC before validation and storage collapses those forms.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Name canonicalizes a user-supplied name for storage and comparison.
// It trims surrounding whitespace and applies Unicode NFC normalization.
func Name(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

// Username canonicalizes a login name. Same treatment as [Name]; usernames
// stay case-sensitive, matching exact-match login semantics.
func Username(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}
