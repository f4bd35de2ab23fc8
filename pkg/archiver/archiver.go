package archiver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// ConflictError reports that the archive already holds a file with the
// source workbook's name. Archived originals are provenance records, so
// they are never overwritten.
type ConflictError struct {
	Dest string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("archive already contains %s", e.Dest)
}

// Archiver moves processed workbooks into an archive directory.
type Archiver struct {
	logger     *log.Logger
	archiveDir string
}

func New(archiveDir string, logger *log.Logger) *Archiver {
	return &Archiver{
		logger:     logger,
		archiveDir: archiveDir,
	}
}

// Archive moves the workbook at src into the archive directory, keeping its
// filename. On any failure the source file stays where it is.
func (a *Archiver) Archive(src string) (string, error) {
	if err := os.MkdirAll(a.archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	dest := filepath.Join(a.archiveDir, filepath.Base(src))
	if _, err := os.Stat(dest); err == nil {
		return "", &ConflictError{Dest: dest}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat archive destination: %w", err)
	}

	if err := os.Rename(src, dest); err != nil {
		// rename fails across filesystems, fall back to copy + remove
		if copyErr := copyFile(src, dest); copyErr != nil {
			return "", fmt.Errorf("failed to archive %s: %w", src, err)
		}
		if err := os.Remove(src); err != nil {
			return "", fmt.Errorf("archived copy written but source not removed: %w", err)
		}
	}

	a.logger.Info("archived workbook", "src", src, "dest", dest)
	return dest, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
