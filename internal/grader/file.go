package grader

import "os"

// ValidateFileExists returns path unchanged when it names an existing file.
// Directories and paths that cannot be stat'ed are reported as missing,
// because neither can be loaded as a document or checks file.
func ValidateFileExists(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", &MissingFileError{Path: path}
	}
	return path, nil
}
