package file

import (
	"path/filepath"
	"strings"
)

// SanitizeFilename removes any path components and dangerous characters from
// a client-supplied filename so it cannot escape the upload directory.
// Returns "unnamed" for empty or special directory references.
//
//	file.SanitizeFilename("../../../etc/passwd")   // "passwd"
//	file.SanitizeFilename("C:\\Windows\\file.txt") // "file.txt"
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return filename
}
