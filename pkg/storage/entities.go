package storage

import (
	"bufio"
	"strings"

	"ignetwork/pkg/errors"
)

// ReadEntities reads the tracked handle list, one per line. Blank lines are
// skipped, a leading @ is dropped and duplicates keep their first position.
func ReadEntities(path string) ([]string, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]bool)
	var handles []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimPrefix(scanner.Text(), "\ufeff")
		handle := strings.TrimPrefix(strings.TrimSpace(line), "@")
		if handle == "" || seen[handle] {
			continue
		}
		seen[handle] = true
		handles = append(handles, handle)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeIO, path, "cannot read entity list", err)
	}
	if len(handles) == 0 {
		return nil, errors.Config(path, "entity list is empty", nil)
	}
	return handles, nil
}
