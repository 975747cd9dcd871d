package scoring

import (
	"path"
	"strings"
)

// MatchTests returns the test cases matched by any of the requirement's
// glob-style patterns. A case matches when its file path or name matches
// the pattern (full path or basename) or its name contains the pattern
// case-insensitively.
func MatchTests(patterns []string, cases []TestCase) []TestCase {
	var matched []TestCase
	for _, tc := range cases {
		for _, pattern := range patterns {
			if matchesPattern(pattern, tc) {
				matched = append(matched, tc)
				break
			}
		}
	}
	return matched
}

func matchesPattern(pattern string, tc TestCase) bool {
	if tc.File != "" {
		if matchGlob(pattern, tc.File) || matchGlob(pattern, path.Base(tc.File)) {
			return true
		}
	}
	if matchGlob(pattern, tc.Name) {
		return true
	}
	return strings.Contains(strings.ToLower(tc.Name), strings.ToLower(pattern))
}

// matchGlob is a minimal glob matcher over plain strings supporting *, **,
// ? and [...] classes. `*` and `?` never cross a path separator; `**`
// matches anything. It deliberately avoids the filesystem glob packages:
// report paths are opaque strings, not local files.
func matchGlob(pattern, s string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			if strings.HasPrefix(pattern, "**") {
				rest := strings.TrimPrefix(pattern, "**")
				rest = strings.TrimPrefix(rest, "/")
				for i := 0; i <= len(s); i++ {
					if matchGlob(rest, s[i:]) {
						return true
					}
				}
				return false
			}
			rest := pattern[1:]
			for i := 0; i <= len(s); i++ {
				if matchGlob(rest, s[i:]) {
					return true
				}
				if i < len(s) && s[i] == '/' {
					return false
				}
			}
			return false
		case '?':
			if len(s) == 0 || s[0] == '/' {
				return false
			}
			pattern, s = pattern[1:], s[1:]
		case '[':
			rest, ok := matchClass(pattern, s)
			if !ok {
				return false
			}
			pattern, s = rest, s[1:]
		default:
			if len(s) == 0 || s[0] != pattern[0] {
				return false
			}
			pattern, s = pattern[1:], s[1:]
		}
	}
	return len(s) == 0
}

// matchClass matches a [...] class against s[0] and returns the remaining
// pattern after the closing bracket. An unterminated class never matches.
func matchClass(pattern, s string) (string, bool) {
	if len(s) == 0 {
		return "", false
	}
	c := s[0]

	i := 1
	negate := false
	if i < len(pattern) && (pattern[i] == '^' || pattern[i] == '!') {
		negate = true
		i++
	}

	matched := false
	first := true
	for {
		if i >= len(pattern) {
			return "", false // unterminated class
		}
		if pattern[i] == ']' && !first {
			i++
			break
		}
		first = false

		lo := pattern[i]
		hi := lo
		if i+2 < len(pattern) && pattern[i+1] == '-' && pattern[i+2] != ']' {
			hi = pattern[i+2]
			i += 2
		}
		if lo <= c && c <= hi {
			matched = true
		}
		i++
	}

	if matched == negate {
		return "", false
	}
	return pattern[i:], true
}
