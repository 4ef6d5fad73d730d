package utils

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces a client-supplied filename to a safe base name: accents are
// decomposed to ASCII, path separators become spaces, whitespace runs become "_" and
// anything outside [A-Za-z0-9_.-] is dropped. The result may be empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	ascii := make([]rune, 0, len(name))
	for _, r := range name {
		if r < 128 {
			ascii = append(ascii, r)
		}
	}
	name = string(ascii)
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// HasExtension reports whether name ends in ext, case-insensitively.
func HasExtension(name, ext string) bool {
	return strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext))
}
