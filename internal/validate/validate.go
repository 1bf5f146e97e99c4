package validate

// IsValidIdentifier reports whether s is a well-formed random identifier:
// 32 hex digits grouped 8-4-4-4-12 with dashes, version nibble 4, variant
// nibble one of 8/9/a/b, case-insensitive.
func IsValidIdentifier(s string) bool {
	if len(s) != 36 {
		return false
	}

	for i := 0; i < 36; i++ {
		c := s[i]
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		case 14:
			if c != '4' {
				return false
			}
		case 19:
			switch c {
			case '8', '9', 'a', 'b', 'A', 'B':
			default:
				return false
			}
		default:
			if !isHexDigit(c) {
				return false
			}
		}
	}

	return true
}

// IsValidSequenceIndex reports whether s is a non-negative decimal integer.
// Anything else, including signs, dots, or path characters, is rejected:
// the index is interpolated into storage paths, so this is a security
// boundary, not just a format check.
func IsValidSequenceIndex(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
