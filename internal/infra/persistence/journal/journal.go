package journal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/hollowmere/emberfall/internal/domain/model"
	"github.com/hollowmere/emberfall/internal/infra/persistence/file"
)

// Journal persists the snapshot history as newline-delimited JSON so
// a session can rebuild its rollback history between runs. Appends
// are cheap; rollback and clear rewrite the file, since both discard
// entries from the tail.
type Journal struct {
	fs   afero.Fs
	path string
}

// New creates a journal at the given path
func New(fs afero.Fs, path string) *Journal {
	return &Journal{fs: fs, path: path}
}

// Append writes one snapshot as a JSON line
func (j *Journal) Append(snap model.Snapshot) error {
	line, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	f, err := j.fs.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append to journal: %w", err)
	}
	return nil
}

// Load reads the journaled snapshots oldest-first, keeping at most
// the last max entries. Malformed lines are skipped. A missing
// journal file yields an empty history.
func (j *Journal) Load(max int) ([]model.Snapshot, error) {
	data, err := afero.ReadFile(j.fs, j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	var snaps []model.Snapshot
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var snap model.Snapshot
		if err := json.Unmarshal(line, &snap); err != nil {
			continue
		}
		snaps = append(snaps, snap)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan journal: %w", err)
	}

	if max > 0 && len(snaps) > max {
		snaps = snaps[len(snaps)-max:]
	}
	return snaps, nil
}

// Rewrite replaces the journal contents with the given snapshots
func (j *Journal) Rewrite(snaps []model.Snapshot) error {
	var buf bytes.Buffer
	for _, snap := range snaps {
		line, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if err := file.WriteFileAtomic(j.fs, j.path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to rewrite journal: %w", err)
	}
	return nil
}
