package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	appLog "eventboard/internal/log"
	"eventboard/internal/model"
)

// Publisher writes the published feed artifacts. ICSPath is optional.
type Publisher struct {
	EventsPath string
	ICSPath    string
	Location   *time.Location
	Now        func() time.Time
}

// Publish replaces the artifacts with evs. A nil or empty list writes "[]".
func (p *Publisher) Publish(evs []model.Event) error {
	if p.EventsPath == "" {
		return errors.New("events: output path is empty")
	}
	if err := WriteFile(p.EventsPath, evs); err != nil {
		return err
	}
	if p.ICSPath == "" {
		return nil
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	data := []byte(BuildCalendar(evs, p.Location, now()).Serialize())
	if err := writeAtomic(p.ICSPath, data); err != nil {
		return fmt.Errorf("events: write ics: %w", err)
	}
	return nil
}

// WriteFile atomically writes evs as a pretty-printed JSON array, creating
// parent directories as needed.
func WriteFile(path string, evs []model.Event) error {
	if evs == nil {
		evs = []model.Event{}
	}
	data, err := json.MarshalIndent(evs, "", "  ")
	if err != nil {
		return fmt.Errorf("events: encode: %w", err)
	}
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("events: write %s: %w", path, err)
	}
	return nil
}

// ReadFile loads a published feed. A payload that is not a JSON array is
// treated as empty; only I/O errors are returned.
func ReadFile(path string) ([]model.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var evs []model.Event
	if err := json.Unmarshal(data, &evs); err != nil || evs == nil {
		if err != nil {
			appLog.Warn("events file is not an array, treating as empty", "path", path)
		}
		return []model.Event{}, nil
	}
	return evs, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".eventboard-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
