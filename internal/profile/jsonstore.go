package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	databaseFile = "ProfileDB.json"
	devicesFile  = "Devices.json"

	deviceFileVersionKey = "Oculus Device Profile Version"
	maxDeviceFileMajor   = 1
)

// JSONStore keeps the database as ProfileDB.json under Dir and reads
// per-device calibration from Devices.json in the same directory.
type JSONStore struct {
	Dir string
}

func (s JSONStore) path() string {
	return filepath.Join(s.Dir, databaseFile)
}

// Load reads ProfileDB.json.
func (s JSONStore) Load() (*Database, error) {
	data, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoDatabase
	}
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", s.path(), err)
	}
	return ParseDatabase(data)
}

// Save writes ProfileDB.json through a temporary file and rename.
func (s JSONStore) Save(db *Database) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("profile: create %s: %w", s.Dir, err)
	}
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("profile: encode database: %w", err)
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("profile: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return fmt.Errorf("profile: replace %s: %w", s.path(), err)
	}
	return nil
}

// DeviceProfile finds the "Device" entry of Devices.json whose ProductID
// and Serial match, flattening nested objects into dotted keys.
func (s JSONStore) DeviceProfile(productID int32, serial string) (*Profile, bool, error) {
	if serial == "" {
		return nil, false, nil
	}
	path := filepath.Join(s.Dir, devicesFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("profile: read %s: %w", path, err)
	}

	var root Value
	if err := root.UnmarshalJSON(data); err != nil {
		return nil, false, fmt.Errorf("profile: parse %s: %w", path, err)
	}
	ms := root.Members()
	if len(ms) == 0 || ms[0].Name != deviceFileVersionKey {
		return nil, false, fmt.Errorf("profile: %s has no version header", path)
	}
	if major, _ := ms[0].Value.AsNumber(); int(major) > maxDeviceFileMajor {
		return nil, false, fmt.Errorf("profile: %s version %v: %w", path, major, ErrBadVersion)
	}

	for _, m := range ms[1:] {
		if m.Name != "Device" {
			continue
		}
		pid, _ := m.Value.Get("ProductID")
		ser, _ := m.Value.Get("Serial")
		n, okN := pid.AsNumber()
		str, okS := ser.AsString()
		if okN && okS && int32(n) == productID && str == serial {
			p := New(s.Dir)
			p.merge(m.Value.Members(), "", true)
			return p, true, nil
		}
	}
	return nil, false, nil
}
