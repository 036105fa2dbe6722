package sessionfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const FileName = "session.yaml"

// state is the on-disk form of the session marker.
type state struct {
	UserID string `yaml:"user_id"`
}

// Marker persists the signed-in user id in <dir>/session.yaml.
type Marker struct {
	path string
}

// New returns a marker rooted at dir. An empty dir means the user config directory.
func New(dir string) (*Marker, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locating config dir: %w", err)
		}
		dir = filepath.Join(base, "cardify")
	}
	return &Marker{path: filepath.Join(dir, FileName)}, nil
}

func (m *Marker) Path() string {
	return m.path
}

// Load returns "" with no error when there is no marker.
func (m *Marker) Load() (string, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading session marker: %w", err)
	}
	var s state
	if err := yaml.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("parsing session marker: %w", err)
	}
	return s.UserID, nil
}

func (m *Marker) Save(userID string) error {
	data, err := yaml.Marshal(state{UserID: userID})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session marker: %w", err)
	}
	return os.Rename(tmp, m.path)
}

func (m *Marker) Clear() error {
	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session marker: %w", err)
	}
	return nil
}
