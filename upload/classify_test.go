// SPDX-License-Identifier: ice License 1.0

package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFirstMatchWins(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "images", Classify(defaultFileTypeRules, "photo.JPG", ""))
	assert.Equal(t, "videos", Classify(defaultFileTypeRules, "clip.mp4", ""))
	assert.Equal(t, "pdf", Classify(defaultFileTypeRules, "report.pdf", ""))
	assert.Equal(t, "documents", Classify(defaultFileTypeRules, "sheet.xlsx", ""))
	assert.Empty(t, Classify(defaultFileTypeRules, "malware.exe", ""))
	assert.Empty(t, Classify(defaultFileTypeRules, "noextension", ""))
}

func TestClassifyHintWinsWhenCompatible(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "cv", Classify(defaultFileTypeRules, "resume.pdf", "cv"))
	assert.Equal(t, "cv", Classify(defaultFileTypeRules, "resume.docx", "cv"))
}

func TestClassifyHintIgnoredWhenIncompatible(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "images", Classify(defaultFileTypeRules, "photo.png", "cv"))
	assert.Equal(t, "pdf", Classify(defaultFileTypeRules, "report.pdf", "nonsense"))
}
