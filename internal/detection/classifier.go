package detection

import (
	"strings"

	"github.com/portability-study/portbench/internal/types"
)

// Markers the detection prompt instructs the model to end with.
const (
	markerNonportable = "NonPortable!!!"
	markerPortable    = "Portable!!!"
)

// Classify maps a raw model response onto a verdict. The nonportable
// marker must be checked first: it contains the portable marker as a
// substring. Responses carrying neither marker are unknown.
func Classify(response string) types.Verdict {
	switch {
	case strings.Contains(response, markerNonportable):
		return types.VerdictNonportable
	case strings.Contains(response, markerPortable):
		return types.VerdictPortable
	default:
		return types.VerdictUnknown
	}
}
