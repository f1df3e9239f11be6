package profile

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"ovr-stereo/internal/device"
	"ovr-stereo/internal/logging"
)

var (
	// ErrTypeMismatch is returned when an update would change the type of a stored value.
	ErrTypeMismatch = errors.New("profile: value type mismatch")
	ErrUnknownUser  = errors.New("profile: unknown user")
	// ErrIncompleteKey is returned when a device key lacks product or serial.
	ErrIncompleteKey = errors.New("profile: device key needs product and serial")
)

// Store persists a Database.
type Store interface {
	// Load returns ErrNoDatabase when nothing has been saved.
	Load() (*Database, error)
	Save(db *Database) error
}

// DeviceSource is implemented by stores that also hold per-device
// calibration, keyed by product id and printed serial.
type DeviceSource interface {
	DeviceProfile(productID int32, serial string) (*Profile, bool, error)
}

// Manager owns the in-memory profile database. All methods are safe for
// concurrent use; every Profile handed out is a copy.
type Manager struct {
	mu       sync.Mutex
	store    Store
	basePath string
	db       *Database
	loaded   bool
	loadErr  error
	changed  bool
}

// NewManager returns a manager backed by store. Nothing is read until first use.
func NewManager(store Store, basePath string) *Manager {
	return &Manager{store: store, basePath: basePath}
}

// Read discards cached data and reloads it from the store.
func (m *Manager) Read() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = false
	return m.loadLocked(false)
}

// loadLocked fills the cache once. With create set, a missing database is
// started empty; an unreadable one stays an error so it is never overwritten.
func (m *Manager) loadLocked(create bool) error {
	if !m.loaded {
		m.loaded = true
		m.db, m.changed, m.loadErr = nil, false, nil
		db, err := m.store.Load()
		switch {
		case err == nil:
			m.db = db
		case errors.Is(err, ErrNoDatabase):
		default:
			logging.Logger().Warn("profile database unreadable", "err", err)
			m.loadErr = err
		}
	}
	if m.loadErr != nil {
		return m.loadErr
	}
	if m.db == nil && create {
		m.db = NewDatabase()
	}
	return nil
}

// Save writes the database back if it changed.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil || !m.changed {
		return nil
	}
	if err := m.store.Save(m.db); err != nil {
		return fmt.Errorf("profile: save: %w", err)
	}
	m.changed = false
	return nil
}

// Changed reports whether there are unsaved modifications.
func (m *Manager) Changed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changed
}

// CreateProfile returns an empty profile scoped to the manager's base path.
func (m *Manager) CreateProfile() *Profile {
	return New(m.basePath)
}

// DefaultProfile returns the built-in defaults for hmdType.
func (m *Manager) DefaultProfile(hmdType device.HmdType) *Profile {
	p := DefaultProfile(hmdType)
	p.BasePath = m.basePath
	return p
}

// Users returns the user table, sorted by id.
func (m *Manager) Users() []User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadLocked(false) != nil || m.db == nil {
		return nil
	}
	return append([]User(nil), m.db.Users...)
}

// UserCount is len(Users()).
func (m *Manager) UserCount() int {
	return len(m.Users())
}

// HasUser reports whether id is in the user table.
func (m *Manager) HasUser(id string) bool {
	for _, u := range m.Users() {
		if u.ID == id {
			return true
		}
	}
	return false
}

// CreateUser adds a user, or renames an existing one. An empty id is
// replaced by a generated one; the id used is returned.
func (m *Manager) CreateUser(id, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadLocked(true); err != nil {
		return "", err
	}
	if id == "" {
		id = strings.ToLower(uuid.New().String())
	}

	users := m.db.Users
	i := sort.Search(len(users), func(i int) bool { return users[i].ID >= id })
	if i < len(users) && users[i].ID == id {
		if users[i].Name != name {
			users[i].Name = name
			m.changed = true
		}
		return id, nil
	}
	users = append(users, User{})
	copy(users[i+1:], users[i:])
	users[i] = User{ID: id, Name: name}
	m.db.Users = users
	m.changed = true
	return id, nil
}

// RemoveUser deletes the user and every tagged entry carrying its User tag.
// It reports whether anything was removed.
func (m *Manager) RemoveUser(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadLocked(false) != nil || m.db == nil {
		return false
	}

	removed := false
	users := m.db.Users[:0]
	for _, u := range m.db.Users {
		if u.ID == id {
			removed = true
			continue
		}
		users = append(users, u)
	}
	m.db.Users = users

	items := m.db.TaggedData[:0]
	for _, it := range m.db.TaggedData {
		if it.hasTag(TagUser, id) {
			removed = true
			continue
		}
		items = append(items, it)
	}
	m.db.TaggedData = items

	if removed {
		m.changed = true
	}
	return removed
}

// TaggedProfile returns a copy of the values stored for exactly tags.
func (m *Manager) TaggedProfile(tags ...Tag) (*Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taggedLocked(tags)
}

func (m *Manager) taggedLocked(tags []Tag) (*Profile, bool) {
	if m.loadLocked(false) != nil || m.db == nil {
		return nil, false
	}
	i := m.db.find(tags)
	if i < 0 {
		return nil, false
	}
	p := m.db.TaggedData[i].Vals.Clone()
	p.BasePath = m.basePath
	return p, true
}

// SetTaggedProfile merges p into the entry for exactly tags, creating it if
// needed. A value whose type differs from the stored one fails the whole
// update with ErrTypeMismatch and nothing is written.
func (m *Manager) SetTaggedProfile(tags []Tag, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadLocked(true); err != nil {
		return err
	}

	i := m.db.find(tags)
	var vals *Profile
	if i >= 0 {
		vals = m.db.TaggedData[i].Vals
		for _, key := range p.names {
			old, ok := vals.vals[key]
			if ok && old.Kind() != p.vals[key].Kind() {
				return fmt.Errorf("profile: set %q (%v over %v): %w", key, p.vals[key].Kind(), old.Kind(), ErrTypeMismatch)
			}
		}
	} else {
		vals = New("")
		m.db.TaggedData = append(m.db.TaggedData, TaggedItem{Tags: append([]Tag(nil), tags...), Vals: vals})
		m.changed = true
	}

	for _, key := range p.names {
		nv := p.vals[key]
		if old, ok := vals.vals[key]; ok && old.Equal(nv) {
			continue
		}
		vals.Set(key, nv)
		m.changed = true
	}
	return nil
}

// DefaultUser returns the default user for the specific device, falling
// back to the default for the product.
func (m *Manager) DefaultUser(key DeviceKey) (string, bool) {
	if key.ProductName == "" {
		return "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if key.PrintedSerial != "" {
		p, ok := m.taggedLocked([]Tag{{TagProduct, key.ProductName}, {TagSerial, key.PrintedSerial}})
		if ok {
			if u := p.GetString(KeyDefaultUser, ""); u != "" {
				return u, true
			}
		}
	}
	p, ok := m.taggedLocked([]Tag{{TagProduct, key.ProductName}})
	if ok {
		if u := p.GetString(KeyDefaultUser, ""); u != "" {
			return u, true
		}
	}
	return "", false
}

// SetDefaultUser records user as the default for the specific device.
func (m *Manager) SetDefaultUser(key DeviceKey, user string) error {
	if key.ProductName == "" || key.PrintedSerial == "" {
		return ErrIncompleteKey
	}
	p := New(m.basePath)
	p.SetString(KeyDefaultUser, user)
	return m.SetTaggedProfile([]Tag{{TagProduct, key.ProductName}, {TagSerial, key.PrintedSerial}}, p)
}

// Profile assembles the settings for user on the device. Device data comes
// first, then user tagged data from least to most specific tag combination,
// so ("bob","RiftDK2").IPD overrides ("bob").IPD. It fails when a user is
// named but has no data, or when no user is named and no device data exists.
func (m *Manager) Profile(key DeviceKey, user string) (*Profile, bool) {
	p := New(m.basePath)

	if key.Valid {
		found := false
		if src, ok := m.store.(DeviceSource); ok && key.PrintedSerial != "" {
			dp, ok, err := src.DeviceProfile(key.ProductID, key.PrintedSerial)
			if err != nil {
				logging.Logger().Warn("device profile unreadable", "product", key.ProductID, "err", err)
			}
			if ok {
				p.merge(dp.Object().Members(), "", false)
				found = true
			}
		}
		if !found && user == "" {
			return nil, false
		}
	}
	if user == "" {
		return p, true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadLocked(false) != nil || m.db == nil {
		return nil, false
	}

	tags := []Tag{{TagUser, user}}
	if key.ProductName != "" {
		tags = append(tags, Tag{TagProduct, key.ProductName})
	}
	if key.PrintedSerial != "" {
		tags = append(tags, Tag{TagSerial, key.PrintedSerial})
	}

	userFound := false
	for combo := 1; combo <= len(tags); combo++ {
		for i := 0; i+combo <= len(tags); i++ {
			idx := m.db.find(tags[i : i+combo])
			if idx < 0 {
				continue
			}
			if i == 0 {
				userFound = true
			}
			p.merge(m.db.TaggedData[idx].Vals.Object().Members(), "", false)
		}
	}
	if !userFound {
		return nil, false
	}
	p.SetString(KeyUser, user)
	return p, true
}

// DefaultUserProfile returns the profile of the device's default user, or
// the built-in defaults when there is none.
func (m *Manager) DefaultUserProfile(key DeviceKey) *Profile {
	user, _ := m.DefaultUser(key)
	if user != "" {
		if p, ok := m.Profile(key, user); ok {
			return p
		}
	}
	logging.Logger().Debug("no stored profile, using defaults", "hmd", key.HmdType.String())
	return m.DefaultProfile(key.HmdType)
}
