// SPDX-License-Identifier: ice License 1.0

package terror

// Public API.

type (
	// Err is an error enriched with structured data that survives wrapping.
	Err struct {
		error
		Data map[string]any `json:"data"`
	}
)
