package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const DefaultHTMLName = "index.html"

func DefaultChecksumsPath(outHTMLPath string) string {
	return filepath.Join(filepath.Dir(fallbackPath(outHTMLPath)), "checksums.sha256")
}

func DefaultRunLogPath(outHTMLPath string) string {
	return filepath.Join(filepath.Dir(fallbackPath(outHTMLPath)), "curation-dashboard.run.log")
}

func fallbackPath(p string) string {
	if strings.TrimSpace(p) == "" {
		return DefaultHTMLName
	}
	return p
}

// WriteChecksums writes "sha256  basename" lines, sorted by path, in the
// format sha256sum -c accepts.
func WriteChecksums(checksumsPath string, artifactPaths []string) error {
	clean := make([]string, 0, len(artifactPaths))
	for _, p := range artifactPaths {
		if strings.TrimSpace(p) != "" {
			clean = append(clean, p)
		}
	}
	sort.Strings(clean)

	lines := make([]string, 0, len(clean))
	for _, p := range clean {
		sum, err := FileSHA256(p)
		if err != nil {
			return fmt.Errorf("checksum read failed for %s: %w", p, err)
		}
		lines = append(lines, fmt.Sprintf("%s  %s", sum, filepath.Base(p)))
	}
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	return WriteFile(checksumsPath, []byte(content))
}

func FileSHA256(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// WriteFile creates parent directories before writing.
func WriteFile(path string, body []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil && dir != "." {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}
