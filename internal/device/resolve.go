package device

// ResolvePath normalizes a user-entered target path. A bare Windows drive
// letter such as "E:" names the raw volume \\.\E:; anything else is passed
// through untouched. The normalization is notation-based, not GOOS-based,
// so image paths on every platform stay as given.
func ResolvePath(path string) string {
	if isDriveLetter(path) {
		return `\\.\` + path
	}
	return path
}

// IsRawPath reports whether path uses the Windows raw device notation.
func IsRawPath(path string) bool {
	return len(path) > 4 && path[:4] == `\\.\`
}

func isDriveLetter(path string) bool {
	if len(path) != 2 || path[1] != ':' {
		return false
	}
	c := path[0]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
