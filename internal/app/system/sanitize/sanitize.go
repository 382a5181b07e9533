// Package sanitize centralizes the string cleanup rules applied to
// user-supplied names before they become folders or filenames.
package sanitize

import "strings"

// folderNameReplacer maps characters that are unsafe in folder names
// across storage backends and filesystems to underscores.
var folderNameReplacer = strings.NewReplacer(
	`\`, "_",
	"/", "_",
	":", "_",
	"*", "_",
	"?", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// FolderName replaces each filesystem-unsafe character in s with an
// underscore. All other characters pass through unchanged.
func FolderName(s string) string {
	return folderNameReplacer.Replace(s)
}

// BaseName trims surrounding whitespace from a caller-supplied base
// filename. Interior characters are preserved verbatim.
func BaseName(s string) string {
	return strings.TrimSpace(s)
}
