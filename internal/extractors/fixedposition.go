package extractors

import (
	"strconv"
	"strings"
)

// fixedPositionExtractor implements FIXED_POSITION:
// config = "<offset>|<length>". Returns content[offset:offset+length]
// trimmed, when in bounds; out-of-bounds yields an empty list.
type fixedPositionExtractor struct{}

func (fixedPositionExtractor) Supports(string) bool { return true }

func (fixedPositionExtractor) ExtractIDs(content, config string) []string {
	parts := strings.SplitN(config, "|", 2)
	if len(parts) != 2 {
		return nil
	}
	offset, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || offset < 0 {
		return nil
	}
	length, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || length < 0 {
		return nil
	}
	if offset+length > len(content) {
		return nil
	}
	v := strings.TrimSpace(content[offset : offset+length])
	if v == "" {
		return nil
	}
	return []string{v}
}
