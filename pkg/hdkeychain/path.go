package hdkeychain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedPath is returned for derivation path strings that do not parse.
var ErrMalformedPath = errors.New("malformed derivation path")

// ParsePath parses a slash-separated derivation path such as "0/1/7/9" into
// child indices. An optional leading "m" or "M" component is ignored, and a
// component may carry a "'", "h" or "H" suffix to mark it hardened. The empty
// path parses to no indices.
func ParsePath(path string) ([]uint32, error) {
	if path == "" {
		return nil, nil
	}

	components := strings.Split(path, "/")
	if components[0] == "m" || components[0] == "M" {
		components = components[1:]
	}

	indices := make([]uint32, 0, len(components))
	for _, c := range components {
		hardened := false
		switch {
		case strings.HasSuffix(c, "'"), strings.HasSuffix(c, "h"), strings.HasSuffix(c, "H"):
			hardened = true
			c = c[:len(c)-1]
		}

		v, err := strconv.ParseUint(c, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: bad component %q", ErrMalformedPath, c)
		}
		if hardened {
			if v >= HardenedKeyStart {
				return nil, fmt.Errorf("%w: hardened component %q out of range", ErrMalformedPath, c)
			}
			v += HardenedKeyStart
		}

		indices = append(indices, uint32(v))
	}

	return indices, nil
}
