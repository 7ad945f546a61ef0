package zones

import (
	"fmt"

	"CryptoLevels/internal/domain/models"
)

// Key builds the canonical dedup identity for a price band. Exact string
// match at 8 decimals: nearly-equal floats are distinct zones on purpose.
func Key(top, bottom float64) string {
	return fmt.Sprintf("%.8f|%.8f", top, bottom)
}

// Dedupe collapses candidates sharing a (top, bottom) pair, keeping the first
// occurrence in emission order. Because the scanner emits most-recent-window
// first, keeping the first occurrence keeps the most recent one; that
// equivalence rides on iteration order, not on comparing recency.
func Dedupe(candidates []models.Zone) []models.Zone {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]models.Zone, 0, len(candidates))
	for _, z := range candidates {
		k := Key(z.Top, z.Bottom)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, z)
	}
	return out
}
