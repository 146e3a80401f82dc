package baseline

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"
	"strings"

	"marklint/src/model"
)

// lineRegionSize collapses nearby line numbers into one region so trivial
// unrelated edits do not break baseline suppression.
const lineRegionSize = 5

// messageHashLength is the hex length of the message-only digest used to
// detect when a rule's wording changed.
const messageHashLength = 16

// messagePrefixLength bounds how many characters of the message
// participate in the fingerprint.
const messagePrefixLength = 50

// Fingerprint computes the stable identity of a diagnostic: rule id, the
// path normalized to forward slashes (relative to basePath when given),
// the line region and the leading message prefix, digested with SHA-256
// and hex-encoded in full.
func Fingerprint(d model.Diagnostic, basePath string) string {
	var sb strings.Builder
	sb.WriteString(d.RuleID)
	sb.WriteByte('|')
	sb.WriteString(normalizePath(d.Location.File, basePath))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(d.Location.Line / lineRegionSize))
	sb.WriteByte('|')
	sb.WriteString(messagePrefix(d.Message))

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// MessageHash returns a short digest of the full message, used to notice
// wording changes without invalidating the fingerprint.
func MessageHash(message string) string {
	sum := sha256.Sum256([]byte(message))
	return hex.EncodeToString(sum[:])[:messageHashLength]
}

func normalizePath(path, basePath string) string {
	if basePath != "" {
		if rel, err := filepath.Rel(basePath, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}

// messagePrefix truncates to whole runes, never mid-sequence, so messages
// with multi-byte characters keep a valid prefix.
func messagePrefix(message string) string {
	if len(message) <= messagePrefixLength {
		return message
	}
	runes := []rune(message)
	if len(runes) <= messagePrefixLength {
		return message
	}
	return string(runes[:messagePrefixLength])
}
