package profile

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DatabaseVersion is the major version of the profile database format.
const DatabaseVersion = 2

var (
	// ErrNoDatabase is returned by a Store that has nothing saved yet.
	ErrNoDatabase = errors.New("profile: no database")
	ErrBadVersion = errors.New("profile: unsupported database version")
)

// User is one entry of the user table.
type User struct {
	ID   string `json:"User"`
	Name string `json:"Name"`
}

// Tag is one key of a tagged data entry, e.g. Product=RiftDK2.
type Tag struct {
	Name  string
	Value string
}

func (t Tag) MarshalJSON() ([]byte, error) {
	return Object(Member{Name: t.Name, Value: String(t.Value)}).MarshalJSON()
}

func (t *Tag) UnmarshalJSON(data []byte) error {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	ms := v.Members()
	if len(ms) != 1 {
		return fmt.Errorf("profile: tag must have one member, got %s", data)
	}
	s, ok := ms[0].Value.AsString()
	if !ok {
		return fmt.Errorf("profile: tag %q is not a string", ms[0].Name)
	}
	*t = Tag{Name: ms[0].Name, Value: s}
	return nil
}

// TaggedItem holds values that apply to one exact combination of tags.
type TaggedItem struct {
	Tags []Tag    `json:"tags"`
	Vals *Profile `json:"vals"`
}

// matches reports whether the item carries exactly the query tags.
func (it TaggedItem) matches(query []Tag) bool {
	if len(it.Tags) != len(query) {
		return false
	}
	for _, q := range query {
		found := false
		for _, t := range it.Tags {
			if t.Name == q.Name {
				found = t.Value == q.Value
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (it TaggedItem) hasTag(name, value string) bool {
	for _, t := range it.Tags {
		if t.Name == name && t.Value == value {
			return true
		}
	}
	return false
}

// Database is the whole persisted profile store.
type Database struct {
	Version    float64      `json:"Oculus Profile Version"`
	Users      []User       `json:"Users"`
	TaggedData []TaggedItem `json:"TaggedData"`
}

// NewDatabase returns an empty database at the current version.
func NewDatabase() *Database {
	return &Database{Version: DatabaseVersion, Users: []User{}, TaggedData: []TaggedItem{}}
}

// ParseDatabase decodes and version-checks a database document.
func ParseDatabase(data []byte) (*Database, error) {
	var db Database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("profile: parse database: %w", err)
	}
	if err := db.checkVersion(); err != nil {
		return nil, err
	}
	for i := range db.TaggedData {
		if db.TaggedData[i].Vals == nil {
			db.TaggedData[i].Vals = New("")
		}
	}
	return &db, nil
}

func (db *Database) checkVersion() error {
	if int(db.Version) != DatabaseVersion {
		return fmt.Errorf("profile: database version %v: %w", db.Version, ErrBadVersion)
	}
	return nil
}

// find returns the index of the item tagged exactly with query, or -1.
func (db *Database) find(query []Tag) int {
	for i, it := range db.TaggedData {
		if it.matches(query) {
			return i
		}
	}
	return -1
}

// Clone deep-copies the database.
func (db *Database) Clone() *Database {
	c := &Database{
		Version:    db.Version,
		Users:      append([]User{}, db.Users...),
		TaggedData: make([]TaggedItem, len(db.TaggedData)),
	}
	for i, it := range db.TaggedData {
		c.TaggedData[i] = TaggedItem{Tags: append([]Tag(nil), it.Tags...), Vals: it.Vals.Clone()}
	}
	return c
}
