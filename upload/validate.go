// SPDX-License-Identifier: ice License 1.0

package upload

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const bytesPerMiB = 1024 * 1024

// validate enforces the upload policy. Checks run in a fixed order and the first
// failure wins, so no storage interaction ever happens for an invalid file.
//
//nolint:revive // Control flow is a deliberate checklist.
func (p *processor) validate(data []byte, filename, declaredMimeType, category string) error {
	if filename == "" {
		return errors.Wrap(ErrValidationFailure, "empty filename")
	}
	extension := strings.ToLower(filepath.Ext(filename))
	for _, forbidden := range p.ForbiddenExtensions() {
		if strings.EqualFold(forbidden, extension) {
			return errors.Wrapf(ErrValidationFailure, "forbidden extension: %v", extension)
		}
	}
	if category == "" {
		return errors.Wrapf(ErrValidationFailure, "extension %v is not allowed", extension)
	}
	rule := p.rule(category)
	if rule == nil {
		return errors.Wrapf(ErrValidationFailure, "unknown file category: %v", category)
	}
	if !rule.allows(extension) {
		return errors.Wrapf(ErrValidationFailure, "extension %v is not allowed for category %v", extension, category)
	}
	if declaredMimeType != "" && !p.mimeTypeAllowed(declaredMimeType) {
		return errors.Wrapf(ErrValidationFailure, "mime type %v is not allowed", declaredMimeType)
	}
	if len(data) == 0 {
		return errors.Wrap(ErrValidationFailure, "empty file")
	}
	if uint64(len(data)) > p.MaxSizeBytes() {
		return errors.Wrapf(ErrValidationFailure, "file too large: %v bytes (max %v MiB)", len(data), p.MaxSizeBytes()/bytesPerMiB)
	}

	return nil
}

func (p *processor) rule(category string) *FileTypeRule {
	for _, rule := range p.Rules() {
		if rule.Category == category {
			return rule
		}
	}

	return nil
}

func (p *processor) ForbiddenExtensions() []string {
	if len(p.cfg.RecruitingUpload.ForbiddenExtensions) != 0 {
		return p.cfg.RecruitingUpload.ForbiddenExtensions
	}

	return defaultForbiddenExtensions
}

func (p *processor) mimeTypeAllowed(mimeType string) bool {
	allowed := p.cfg.RecruitingUpload.AllowedMimeTypes
	if len(allowed) == 0 {
		allowed = defaultAllowedMimeTypes
	}
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}

	return false
}
