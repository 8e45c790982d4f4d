// SPDX-License-Identifier: ice License 1.0

package upload

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ae2i/recruiting/time"
)

const (
	nameTimestampLayout = "20060102_150405"
	uniqueSuffixLength  = 8
)

//nolint:gochecknoglobals // Compiled once.
var safeExtensionRegex = regexp.MustCompile(`^\.[a-z0-9]+$`)

// MakeUniqueName builds the storage key for an uploaded file:
// `<YYYYMMDD_HHMMSS>_<micros>_<uuid8>[_<sanitized original name>]`.
// Sanitization strips everything outside a small allow-set, so the result can never
// smuggle a path separator or traversal sequence into the storage backend.
func MakeUniqueName(originalFilename string) string {
	now := time.Now()
	base := fmt.Sprintf("%v_%06d_%v", now.Format(nameTimestampLayout), now.Nanosecond()/1000, uuid.NewString()[:uniqueSuffixLength]) //nolint:lll,mnd,gomnd // Micros.
	if sanitized := SanitizeFilename(originalFilename); sanitized != "" {
		return base + "_" + sanitized
	}
	if extension := strings.ToLower(filepath.Ext(originalFilename)); safeExtensionRegex.MatchString(extension) {
		return base + extension
	}

	return base
}

// SanitizeFilename keeps only `[A-Za-z0-9. _-]` runes of the final path element.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, `\`, `/`))
	if filename == "." || filename == ".." || filename == "/" {
		return ""
	}
	var builder strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-', r == ' ':
			builder.WriteRune(r)
		default:
		}
	}

	return strings.Trim(builder.String(), ". ")
}

// ValidateLocalFilename rejects anything that could escape the local uploads directory.
// It runs before any filesystem access.
func ValidateLocalFilename(filename string) error {
	if filename == "" || strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return errors.Wrapf(ErrPathTraversal, "invalid filename %q", filename)
	}

	return nil
}
