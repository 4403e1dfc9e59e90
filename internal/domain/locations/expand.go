package locations

import (
	"fmt"
	"math"

	"partshub/internal/core/apperror"
)

// MaxGeneratedLocations caps a single preview or bulk create.
const MaxGeneratedLocations = 500

const (
	largeBatchThreshold  = 100
	approachingThreshold = MaxGeneratedLocations * 9 / 10
)

// Count returns how many names l expands to. The product saturates at
// math.MaxInt64 instead of overflowing.
func Count(l Layout) int64 {
	total := int64(1)
	for _, axis := range l.Axes() {
		n := int64(axis.Len())
		if total > math.MaxInt64/n {
			return math.MaxInt64
		}
		total *= n
	}
	return total
}

// Expand enumerates every name of l in deterministic order: the first axis
// varies slowest and the last one fastest.
//
// The count is checked against MaxGeneratedLocations before any name is
// built, and a batch containing the same name twice is rejected.
func Expand(l Layout) ([]string, error) {
	total := Count(l)
	if total > MaxGeneratedLocations {
		return nil, apperror.NewLimitExceeded(clampInt(total), MaxGeneratedLocations)
	}

	axes := l.Axes()
	values := make([][]string, len(axes))
	for i, axis := range axes {
		values[i] = axis.Values()
	}

	names := make([]string, 0, total)
	cursor := make([]int, len(axes))
	current := make([]string, len(axes))
	for {
		for i := range axes {
			current[i] = values[i][cursor[i]]
		}
		names = append(names, l.Compose(current))

		// odometer step, last axis first
		i := len(axes) - 1
		for ; i >= 0; i-- {
			cursor[i]++
			if cursor[i] < len(values[i]) {
				break
			}
			cursor[i] = 0
		}
		if i < 0 {
			break
		}
	}

	if dups := duplicates(names); len(dups) > 0 {
		return nil, apperror.NewDuplicateName(dups)
	}
	return names, nil
}

// duplicates returns each name that occurs more than once, in order of its
// second occurrence.
func duplicates(names []string) []string {
	seen := make(map[string]int, len(names))
	var dups []string
	for _, n := range names {
		seen[n]++
		if seen[n] == 2 {
			dups = append(dups, n)
		}
	}
	return dups
}

// Warnings returns advisory messages for a batch of the given size.
func Warnings(count int) []string {
	warnings := []string{}
	if count > largeBatchThreshold {
		warnings = append(warnings, fmt.Sprintf("large batch: %d locations will be generated", count))
	}
	if count >= approachingThreshold {
		warnings = append(warnings, fmt.Sprintf("approaching limit: %d of %d locations", count, MaxGeneratedLocations))
	}
	return warnings
}

func clampInt(v int64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}
