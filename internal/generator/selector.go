package generator

import (
	"sort"

	"github.com/strideloop/strideloop/internal/routing"
)

// selectAlternative picks one of the gateway's candidate paths for a leg
// according to the surface preference. The gateway exposes no surface
// metadata, so selection is a length heuristic: longer alternatives more
// often traverse parks and trails, shorter ones stick to direct paved
// streets. Returns false only when the candidate set is empty.
func selectAlternative(paths []routing.Path, prefs Preferences) (routing.Path, bool) {
	if len(paths) == 0 {
		return routing.Path{}, false
	}
	if len(paths) == 1 {
		return paths[0], true
	}

	sorted := make([]routing.Path, len(paths))
	copy(sorted, paths)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DistanceMeters < sorted[j].DistanceMeters
	})

	if surface, ok := prefs.only(); ok {
		switch surface {
		case SurfaceTrail:
			return sorted[len(sorted)-1], true
		case SurfaceRoad:
			return sorted[0], true
		}
	}

	// Mixed or multiple preferences: take the middle alternative as a compromise.
	return sorted[len(sorted)/2], true
}
