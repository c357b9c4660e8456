package storage

import (
	"fmt"
	"os"
)

// CheckFolder checks that the given path is a readable directory and returns
// the names of the regular files it contains.
//
// Expected errors:
//   - ErrNotFound if the directory does not exist
func CheckFolder(folderPath string) ([]string, error) {
	info, err := os.Stat(folderPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("folder %s: %w", folderPath, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("provided path %s is not a directory", folderPath)
	}

	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
