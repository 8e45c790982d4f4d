// SPDX-License-Identifier: ice License 1.0

package upload

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/ae2i/recruiting/testing" //nolint:revive // Testing simplification.
)

func TestMakeUniqueNameShape(t *testing.T) {
	t.Parallel()
	name := MakeUniqueName("My Resume.pdf")
	assert.Regexp(t, regexp.MustCompile(`^\d{8}_\d{6}_\d{6}_[0-9a-f]{8}_My Resume\.pdf$`), name)
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, `\`)
}

func TestMakeUniqueNameDegenerateFilenames(t *testing.T) {
	t.Parallel()
	name := MakeUniqueName("@#$%^&.PDF")
	assert.True(t, strings.HasSuffix(name, "_PDF"), name)

	name = MakeUniqueName("////")
	assert.Regexp(t, regexp.MustCompile(`^\d{8}_\d{6}_\d{6}_[0-9a-f]{8}$`), name)
}

func TestMakeUniqueNameUniqueness(t *testing.T) {
	t.Parallel()
	const total = 10_000
	seen := make(map[string]struct{}, total)
	GIVEN("the same original filename, uploaded many times in a row", func() {
		WHEN("generating a storage name for each upload", func() {
			THEN(func() {
				IT("never produces the same name twice", func() {
					for range total {
						name := MakeUniqueName("cv.pdf")
						_, duplicate := seen[name]
						require.False(t, duplicate, "duplicate name: %v", name)
						seen[name] = struct{}{}
					}
				})
			})
		})
	})
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "boot.ini", SanitizeFilename(`..\..\windows\boot.ini`))
	assert.Equal(t, "rsum.pdf", SanitizeFilename("résumé.pdf"))
	assert.Equal(t, "report v2_final-1.pdf", SanitizeFilename("report v2_final-1.pdf"))
	assert.Empty(t, SanitizeFilename("...."))
	assert.Empty(t, SanitizeFilename(""))
	assert.Empty(t, SanitizeFilename("££££"))
}

func TestValidateLocalFilename(t *testing.T) {
	t.Parallel()
	require.NoError(t, ValidateLocalFilename("20240101_120000_000001_deadbeef_cv.pdf"))
	for _, bad := range []string{"", "..", "../secret", "a/b", `a\b`, "..\\..\\x", "nested/../../etc/passwd"} {
		assert.ErrorIs(t, ValidateLocalFilename(bad), ErrPathTraversal, bad)
	}
}
