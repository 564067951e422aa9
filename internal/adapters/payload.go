package adapters

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"apt-warden/internal/ports"
)

// PayloadAdapter flattens a fetched source workspace into the single text
// payload handed to the oracle. Recipe and auxiliary files are inlined with
// per-file and total caps so one giant tarball member cannot blow the
// request.
type PayloadAdapter struct {
	MaxFileBytes  int
	MaxTotalBytes int
}

const defaultMaxFileBytes = 64 * 1024
const defaultMaxTotalBytes = 512 * 1024

func NewPayloadAdapter() PayloadAdapter {
	return PayloadAdapter{
		MaxFileBytes:  defaultMaxFileBytes,
		MaxTotalBytes: defaultMaxTotalBytes,
	}
}

func (a PayloadAdapter) BuildPayload(workspace string) (string, error) {
	var builder strings.Builder
	total := 0
	err := filepath.WalkDir(workspace, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !interestingPayloadFile(path) {
			return nil
		}
		if total >= a.maxTotal() {
			return fs.SkipAll
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			// A single unreadable file degrades the payload, not the scan.
			return nil
		}
		if len(data) > a.maxFile() {
			data = data[:a.maxFile()]
		}
		rel, relErr := filepath.Rel(workspace, path)
		if relErr != nil {
			rel = path
		}
		section := fmt.Sprintf("=== FILE: %s ===\n%s\n", rel, string(data))
		builder.WriteString(section)
		total += len(section)
		return nil
	})
	if err != nil {
		return "", err
	}
	return builder.String(), nil
}

// interestingPayloadFile selects the files worth showing the oracle: build
// recipes, maintainer scripts, patches and the packaging metadata. Binary
// artifacts and upstream tarballs stay out.
func interestingPayloadFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if strings.Contains(path, string(filepath.Separator)+"debian"+string(filepath.Separator)) {
		switch filepath.Ext(base) {
		case ".tar", ".gz", ".xz", ".bz2", ".zst", ".deb":
			return false
		}
		return true
	}
	switch base {
	case "pkgbuild", "makefile", "cmakelists.txt", "configure", "install":
		return true
	}
	switch filepath.Ext(base) {
	case ".sh", ".bash", ".patch", ".diff", ".dsc", ".service", ".py", ".pl":
		return true
	}
	return false
}

func (a PayloadAdapter) maxFile() int {
	if a.MaxFileBytes > 0 {
		return a.MaxFileBytes
	}
	return defaultMaxFileBytes
}

func (a PayloadAdapter) maxTotal() int {
	if a.MaxTotalBytes > 0 {
		return a.MaxTotalBytes
	}
	return defaultMaxTotalBytes
}

var _ ports.PayloadPort = PayloadAdapter{}
