package changelog

import (
	"fmt"
	"os"
	"strings"
)

// Sentinel is the splice marker C7 inserts new releases above (§4.7).
const Sentinel = "- - -"

// defaultHeader seeds a brand-new changelog file (`cog init`).
const defaultHeader = "# Changelog\nAll notable changes to this project will be documented in this file.\n\n" + Sentinel + "\n"

// SpliceFile inserts renderedEntry above the sentinel line in the file at
// path. If the file does not exist, it is created with a default header
// and the sentinel. If it exists but has no sentinel line, the write
// fails with ErrSeparatorNotFound (§4.7).
func SpliceFile(path, renderedEntry string) error {
	existing, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		existing = []byte(defaultHeader)
	} else if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteError, err)
	}

	lines := strings.Split(string(existing), "\n")
	idx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == Sentinel {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrSeparatorNotFound
	}

	before := strings.Join(lines[:idx], "\n")
	after := strings.Join(lines[idx:], "\n")

	var b strings.Builder
	b.WriteString(strings.TrimRight(before, "\n"))
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(renderedEntry))
	b.WriteString("\n\n")
	b.WriteString(after)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteError, err)
	}
	return nil
}

// InitFile creates a brand-new changelog file at path with the default
// header and sentinel, used by `cog init`.
func InitFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(defaultHeader), 0o644)
}
