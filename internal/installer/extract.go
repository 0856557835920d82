package installer

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/winappkit/winapp/internal/messages"
)

// extractZip unpacks archivePath into destDir. Entry paths are confined to
// destDir; an entry that would escape it fails the whole extraction.
func extractZip(archivePath string, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf(messages.InstallerOpenZipFmt, archivePath, err)
	}
	defer func() { _ = reader.Close() }()

	for _, entry := range reader.File {
		if err := extractEntry(entry, destDir); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(entry *zip.File, destDir string) error {
	target, err := confinedPath(destDir, entry.Name)
	if err != nil {
		return err
	}
	if entry.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf(messages.InstallerExtractFmt, entry.Name, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf(messages.InstallerExtractFmt, entry.Name, err)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf(messages.InstallerExtractFmt, entry.Name, err)
	}
	defer func() { _ = src.Close() }()

	mode := entry.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf(messages.InstallerExtractFmt, entry.Name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf(messages.InstallerExtractFmt, entry.Name, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf(messages.InstallerExtractFmt, entry.Name, err)
	}
	return nil
}

// confinedPath joins name onto destDir and rejects traversal outside it.
func confinedPath(destDir string, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf(messages.InstallerZipEscapeFmt, name)
	}
	return filepath.Join(destDir, cleaned), nil
}
