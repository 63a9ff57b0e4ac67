package layerenv

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// MaxSnapshotSize is the maximum allowed snapshot size (10MB).
const MaxSnapshotSize = 10 * 1024 * 1024

// ErrSnapshotTooLarge is returned when a snapshot exceeds MaxSnapshotSize.
var ErrSnapshotTooLarge = errors.New("layerenv: snapshot exceeds 10MB size limit")

// WriteSnapshot persists assembled dotenv text to path with atomic write
// semantics: the content is written to a temporary file in the same directory
// and renamed over path. The file is created with mode 0600.
//
// Writing "layerenv app false" output to the primary file makes later
// invocations that prefer existing files skip layered resolution.
func WriteSnapshot(path string, content string) error {
	if len(content) > MaxSnapshotSize {
		return ErrSnapshotTooLarge
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}

	tempPath, err := generateTempFileName(path)
	if err != nil {
		return err
	}

	var tempFileCreated bool
	defer func() {
		if tempFileCreated {
			_ = os.Remove(tempPath)
		}
	}()

	if err := os.WriteFile(tempPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	tempFileCreated = true

	// WriteFile leaves the mode of a pre-existing file untouched
	if err := os.Chmod(tempPath, 0600); err != nil {
		return err
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	tempFileCreated = false

	return nil
}

// generateTempFileName generates a unique temporary file name next to targetPath.
// Format: targetPath + ".tmp." + randomHex
func generateTempFileName(targetPath string) (string, error) {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return targetPath + ".tmp." + hex.EncodeToString(randomBytes), nil
}
