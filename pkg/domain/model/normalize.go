package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/notedrop/notedrop/pkg/domain/types"
)

// signatureMarkers are the line prefixes that start a trailing email
// signature block. Matching is case-insensitive.
var signatureMarkers = []string{
	"regards",
	"best regards",
	"kind regards",
	"saludos",
	"atentamente",
	"--",
}

// fingerprintSeparator joins normalized text and source before hashing.
// The fingerprint is the sole dedup key; changing this separator or the
// encoding silently breaks the identity space of every stored note.
const fingerprintSeparator = "||"

// NormalizeText canonicalizes raw captured text into the stable form used
// for fingerprinting. It is a pure function of its inputs: line endings are
// unified, horizontal whitespace is collapsed per line, and for pasted-email
// sources a trailing signature block is conservatively stripped.
func NormalizeText(raw string, source types.Source) string {
	text := normalizeNewlines(raw)
	text = collapseSpaces(text)
	if source == types.SourcePastedEmail {
		text = stripSignature(text)
		text = collapseSpaces(text)
	}
	return text
}

// Fingerprint derives the deterministic identity of a (normalizedText,
// source) pair: a SHA-256 hex digest over the UTF-8 bytes of
// normalizedText || "||" || source. Stable across processes and versions.
func Fingerprint(normalized string, source types.Source) string {
	payload := normalized + fingerprintSeparator + source.String()
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// TruncateRunes bounds text to max runes. Cutting happens on a rune
// boundary so a multibyte sequence is never split into invalid UTF-8.
func TruncateRunes(text string, max int) string {
	if len(text) <= max {
		return text
	}
	count := 0
	for i := range text {
		if count == max {
			return text[:i]
		}
		count++
	}
	return text
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text)
}

func collapseSpaces(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// stripSignature scans lines from the end for a signature marker. A marker
// line is only treated as a signature when it sits beyond one-third of the
// text (minimum line 2); a marker near the top is genuine content.
func stripSignature(text string) string {
	lines := strings.Split(text, "\n")
	guard := len(lines) / 3
	if guard < 2 {
		guard = 2
	}
	for i := len(lines) - 1; i >= 0; i-- {
		candidate := strings.ToLower(strings.TrimSpace(lines[i]))
		for _, marker := range signatureMarkers {
			if strings.HasPrefix(candidate, marker) {
				if i > guard {
					return strings.TrimSpace(strings.Join(lines[:i], "\n"))
				}
				break
			}
		}
	}
	return text
}
