// Package storage implements the JSON file stores behind the rate cache,
// portfolios, users and the update history. Each store is one file,
// read-modify-written as a whole unit; writes are atomic (temp file +
// rename) so a concurrent reader never observes a torn file. There is no
// cross-process lock: two racing writers each write a full snapshot and the
// second one wins. That is an accepted limitation of the single-file design.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// readJSONFile unmarshals the file into v. Returns false when the file does
// not exist or is empty, leaving v untouched.
func readJSONFile(path string, v interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// writeJSONFileAtomic serializes v to a temporary file in the target
// directory and renames it into place in one step.
func writeJSONFileAtomic(path string, v interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
