// Package archive verifies the integrity of zip archives.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"github.com/stackvity/tree-sweep/pkg/sweep"
)

// flagEncrypted is general purpose bit 0 of a zip file header.
const flagEncrypted = 0x1

// Checker is a sweep.Processor that opens each archive and reads every entry
// so that checksum mismatches surface. It is safe for concurrent use.
type Checker struct {
	logger *slog.Logger
}

// NewChecker creates a Checker.
func NewChecker(loggerHandler slog.Handler) *Checker {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &Checker{logger: slog.New(loggerHandler).With(slog.String("component", "zipChecker"))}
}

// Process implements sweep.Processor.
//
// Entries are inspected in archive order. An encrypted entry makes the whole
// archive Skipped(ReasonPasswordProtected); the first unreadable entry makes
// it Failed. A file that does not parse as a zip is Failed; when its header
// sniffs as some other format the message names it.
func (c *Checker) Process(_ context.Context, item sweep.WorkItem) sweep.Outcome {
	f, err := os.Open(item.Path)
	if err != nil {
		return sweep.Failedf("Cannot open file: %v", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return sweep.Failedf("Cannot open file: %v", err)
	}

	r, err := zip.NewReader(f, info.Size())
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && r != nil) {
		if format := sniffFormat(f); format != "" {
			c.logger.Debug("Not a zip archive", slog.String("path", item.RelPath), slog.String("mime", format))
			return sweep.Failedf("Invalid zip format: %v (content is %s)", err, format)
		}
		return sweep.Failedf("Invalid zip format: %v", err)
	}

	for i, entry := range r.File {
		if entry.Flags&flagEncrypted != 0 {
			c.logger.Debug("Encrypted entry found", slog.String("path", item.RelPath), slog.String("entry", entry.Name))
			return sweep.Skipped(sweep.ReasonPasswordProtected)
		}
		if err := readEntry(entry); err != nil {
			return sweep.Failedf("Cannot read file at index %d: %v", i, err)
		}
	}
	return sweep.Success()
}

// sniffFormat returns the MIME type of the file content, or "" when it
// looks like a zip or cannot be identified.
func sniffFormat(f *os.File) string {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return ""
	}
	mt, err := mimetype.DetectReader(f)
	if err != nil || mt.Is("application/zip") || mt.Is("application/octet-stream") {
		return ""
	}
	return mt.String()
}

// readEntry decompresses one entry fully; archive/zip verifies the CRC-32 at EOF.
func readEntry(entry *zip.File) error {
	rc, err := entry.Open()
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(io.Discard, rc)
	closeErr := rc.Close()
	if copyErr != nil {
		return fmt.Errorf("%s: %w", entry.Name, copyErr)
	}
	return closeErr
}
