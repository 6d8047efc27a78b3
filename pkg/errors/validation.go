package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// groupIDRegex matches valid Maven group identifiers (reverse-domain form).
var groupIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+)*$`)

// artifactIDRegex matches valid Maven artifact identifiers.
var artifactIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateGroupID validates a Maven group identifier.
// It rejects values that could be used for path traversal or injection when
// the identifier is later embedded in storage keys or URLs.
func ValidateGroupID(groupID string) error {
	if err := validateIdentifier(groupID); err != nil {
		return err
	}
	if !groupIDRegex.MatchString(groupID) {
		return New(ErrCodeInvalidInput, "invalid group id: %q", groupID)
	}
	return nil
}

// ValidateArtifactID validates a Maven artifact identifier.
func ValidateArtifactID(artifactID string) error {
	if err := validateIdentifier(artifactID); err != nil {
		return err
	}
	if !artifactIDRegex.MatchString(artifactID) {
		return New(ErrCodeInvalidInput, "invalid artifact id: %q", artifactID)
	}
	return nil
}

// ValidateVersionString validates the raw shape of a version string before
// semantic-version parsing. It only rejects unsafe characters; semantic
// validity is the version parser's concern.
func ValidateVersionString(version string) error {
	if err := validateIdentifier(version); err != nil {
		return err
	}
	if strings.ContainsAny(version, "/\\") {
		return New(ErrCodeInvalidInput, "version cannot contain path separators: %q", version)
	}
	return nil
}

// validateIdentifier applies the conservative checks shared by all
// coordinate components.
//
// The validation rules are intentionally conservative:
//   - No empty values
//   - No control characters or null bytes
//   - No path traversal sequences (.., //)
//   - Maximum length of 256 characters
func validateIdentifier(s string) error {
	if s == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}
	if len(s) > 256 {
		return New(ErrCodeInvalidInput, "identifier too long (max 256 characters)")
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier contains control characters")
		}
	}
	for _, pattern := range []string{"..", "//", "\x00"} {
		if strings.Contains(s, pattern) {
			return New(ErrCodeInvalidInput, "identifier contains invalid sequence %q", pattern)
		}
	}
	return nil
}
