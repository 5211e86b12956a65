package cli

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/devbush/tubekit/internal/domain"
	"github.com/spf13/afero"
)

// ParseInputFile reads a file containing YouTube URLs, one per line.
// Blank lines and lines starting with # are ignored. Lines that are not
// video URLs are returned in rejected.
func ParseInputFile(fs afero.Fs, path string) (ids, rejected []string, err error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, nil, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip blank lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id, err := domain.ParseVideoURL(line)
		if err != nil {
			rejected = append(rejected, line)
			continue
		}
		ids = append(ids, id)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	return ids, rejected, nil
}

// CollectInputs combines CLI arguments and file input, deduplicating by
// video ID. Args are processed first, then file entries.
func CollectInputs(fs afero.Fs, args []string, filePath string) (ids, rejected []string, err error) {
	seen := make(map[string]bool)
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, arg := range args {
		id, err := domain.ParseVideoURL(arg)
		if err != nil {
			rejected = append(rejected, arg)
			continue
		}
		add(id)
	}

	if filePath != "" {
		fileIDs, fileRejected, err := ParseInputFile(fs, filePath)
		if err != nil {
			return nil, nil, err
		}
		for _, id := range fileIDs {
			add(id)
		}
		rejected = append(rejected, fileRejected...)
	}

	return ids, rejected, nil
}
