package rule

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the rule file's name inside a workspace folder.
const FileName = ".devreplay.json"

// ErrConcurrentEdit is returned by Save when the rule file changed on disk
// between the Load that produced the fingerprint and the write.
var ErrConcurrentEdit = errors.New("rule file changed on disk")

// File is a loaded rule file: the full rule list plus a fingerprint of the
// raw content it was parsed from. The fingerprint enables optimistic
// concurrency on save; callers that want plain last-writer-wins semantics
// clear it before saving.
type File struct {
	Rules       []Rule
	Fingerprint string
}

// FilePath returns the rule file path for a workspace folder.
func FilePath(workspace string) string {
	return filepath.Join(workspace, FileName)
}

// Load reads the workspace's rule file. A missing file is not an error: it
// loads as an empty rule list with an empty fingerprint. The file is read
// fresh on every call; nothing is cached between operations because the
// file is shared, externally-mutable state.
func Load(workspace string) (*File, error) {
	path := FilePath(workspace)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var rules []Rule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &File{Rules: rules, Fingerprint: fingerprint(raw)}, nil
}

// Save writes the full rule list back, overwriting the rule file. When the
// File carries a fingerprint, Save first compares it against the current
// on-disk content and fails with ErrConcurrentEdit on mismatch; with an
// empty fingerprint it overwrites unconditionally. The write itself goes
// through a temp file and rename so a crash never leaves a truncated rule
// file.
func (f *File) Save(workspace string) error {
	path := FilePath(workspace)
	if f.Fingerprint != "" {
		current, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err == nil && fingerprint(current) != f.Fingerprint {
			return ErrConcurrentEdit
		}
	}
	payload, err := json.MarshalIndent(f.Rules, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	payload = append(payload, '\n')
	if err := writeAtomic(path, payload); err != nil {
		return err
	}
	f.Fingerprint = fingerprint(payload)
	return nil
}

func fingerprint(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func writeAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()
	if _, err := tmp.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}
