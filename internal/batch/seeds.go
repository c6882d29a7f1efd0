package batch

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxSeeds caps a single seed list.
const MaxSeeds = 1 << 16

// ParseSeeds expands a comma-separated list of seeds and inclusive ranges,
// e.g. "1-64" or "3,7,100-110". Repeated seeds are dropped after their
// first appearance.
func ParseSeeds(s string) ([]int64, error) {
	var seeds []int64
	seen := make(map[int64]bool)
	add := func(v int64) error {
		if seen[v] {
			return nil
		}
		if len(seeds) >= MaxSeeds {
			return fmt.Errorf("batch: more than %d seeds", MaxSeeds)
		}
		seen[v] = true
		seeds = append(seeds, v)
		return nil
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		// A leading '-' is a sign, not a range separator.
		if i := strings.Index(part[1:], "-"); i >= 0 {
			lo, err := strconv.ParseInt(strings.TrimSpace(part[:i+1]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("batch: seed range %q: %w", part, err)
			}
			hi, err := strconv.ParseInt(strings.TrimSpace(part[i+2:]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("batch: seed range %q: %w", part, err)
			}
			if hi < lo {
				return nil, fmt.Errorf("batch: seed range %q is reversed", part)
			}
			// Two's complement difference, exact for any lo <= hi.
			if uint64(hi)-uint64(lo) >= MaxSeeds {
				return nil, fmt.Errorf("batch: more than %d seeds", MaxSeeds)
			}
			for v := lo; ; v++ {
				if err := add(v); err != nil {
					return nil, err
				}
				if v == hi {
					break
				}
			}
			continue
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("batch: seed %q: %w", part, err)
		}
		if err := add(v); err != nil {
			return nil, err
		}
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("batch: no seeds in %q", s)
	}
	return seeds, nil
}
