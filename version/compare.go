package version

import (
	"fmt"
	"strconv"
	"strings"
)

type release struct {
	numbers    [3]int
	prerelease string
}

func parseRelease(s string) (release, error) {
	var r release

	core, pre, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(s), "v"), "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return r, fmt.Errorf("version %q is not major.minor.patch", s)
	}

	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return r, fmt.Errorf("version %q: invalid number %q", s, part)
		}
		r.numbers[i] = n
	}

	r.prerelease = pre
	return r, nil
}

// Compare orders two release tags: 1 when a is newer, -1 when b is newer, 0 when equal.
// A pre-release (1.2.0-rc1) is older than the release it precedes.
func Compare(a, b string) (int, error) {
	ra, err := parseRelease(a)
	if err != nil {
		return 0, err
	}

	rb, err := parseRelease(b)
	if err != nil {
		return 0, err
	}

	for i := range ra.numbers {
		switch {
		case ra.numbers[i] > rb.numbers[i]:
			return 1, nil
		case ra.numbers[i] < rb.numbers[i]:
			return -1, nil
		}
	}

	switch {
	case ra.prerelease == rb.prerelease:
		return 0, nil
	case ra.prerelease == "":
		return 1, nil
	case rb.prerelease == "":
		return -1, nil
	default:
		return strings.Compare(ra.prerelease, rb.prerelease), nil
	}
}
