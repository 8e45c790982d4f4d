// SPDX-License-Identifier: ice License 1.0

package upload

import (
	"path/filepath"
	"strings"
)

// Classify maps a filename to a logical category. An explicit hint wins when the
// extension actually belongs to the hinted category, otherwise the rule table is
// scanned in its fixed order and the first match is returned. An empty result is
// not an error by itself, the caller decides what to do with unclassifiable files.
func Classify(rules []*FileTypeRule, filename, categoryHint string) string {
	extension := strings.ToLower(filepath.Ext(filename))
	if categoryHint != "" {
		for _, rule := range rules {
			if rule.Category == categoryHint && rule.allows(extension) {
				return rule.Category
			}
		}
	}
	for _, rule := range rules {
		if rule.allows(extension) {
			return rule.Category
		}
	}

	return ""
}

func (r *FileTypeRule) allows(extension string) bool {
	for _, allowed := range r.Extensions {
		if strings.EqualFold(allowed, extension) {
			return true
		}
	}

	return false
}
