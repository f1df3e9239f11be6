// Package profile stores per-user and per-device settings: an ordered
// key/value Profile, the tagged profile database behind it and the Manager
// that serializes access to that database.
package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Profile is an ordered set of uniquely named values. A Profile returned by
// the Manager is a private copy; callers may modify it freely.
type Profile struct {
	BasePath string

	names []string
	vals  map[string]Value
}

// New returns an empty profile scoped to basePath.
func New(basePath string) *Profile {
	return &Profile{BasePath: basePath, vals: make(map[string]Value)}
}

// Len is the number of keys.
func (p *Profile) Len() int { return len(p.names) }

// Keys returns the keys in insertion order.
func (p *Profile) Keys() []string {
	return append([]string(nil), p.names...)
}

// Value looks up key.
func (p *Profile) Value(key string) (Value, bool) {
	v, ok := p.vals[key]
	return v, ok
}

// Has reports whether key is set.
func (p *Profile) Has(key string) bool {
	_, ok := p.vals[key]
	return ok
}

// Set stores v under key. An existing key keeps its position.
func (p *Profile) Set(key string, v Value) {
	if p.vals == nil {
		p.vals = make(map[string]Value)
	}
	if _, ok := p.vals[key]; !ok {
		p.names = append(p.names, key)
	}
	p.vals[key] = v.Clone()
}

// Delete removes key.
func (p *Profile) Delete(key string) {
	if _, ok := p.vals[key]; !ok {
		return
	}
	delete(p.vals, key)
	for i, n := range p.names {
		if n == key {
			p.names = append(p.names[:i], p.names[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := New(p.BasePath)
	for _, n := range p.names {
		c.Set(n, p.vals[n])
	}
	return c
}

// merge copies scalar and array members of an object into p. Nested objects
// are flattened as "parent.child" when flatten is set and skipped otherwise.
func (p *Profile) merge(members []Member, prefix string, flatten bool) {
	for _, m := range members {
		name := m.Name
		if prefix != "" {
			name = prefix + "." + m.Name
		}
		if m.Value.Kind() == KindObject {
			if flatten {
				p.merge(m.Value.Members(), name, true)
			}
			continue
		}
		if m.Value.Kind() == KindNull {
			continue
		}
		p.Set(name, m.Value)
	}
}

// GetString returns the string stored under key, or def.
func (p *Profile) GetString(key, def string) string {
	if s, ok := p.vals[key].AsString(); ok {
		return s
	}
	return def
}

// GetBool returns the bool stored under key, or def.
func (p *Profile) GetBool(key string, def bool) bool {
	if b, ok := p.vals[key].AsBool(); ok {
		return b
	}
	return def
}

// GetInt returns the number under key truncated to int, or def.
func (p *Profile) GetInt(key string, def int) int {
	if n, ok := p.vals[key].AsNumber(); ok {
		return int(n)
	}
	return def
}

func (p *Profile) GetFloat(key string, def float32) float32 {
	if n, ok := p.vals[key].AsNumber(); ok {
		return float32(n)
	}
	return def
}

func (p *Profile) GetDouble(key string, def float64) float64 {
	if n, ok := p.vals[key].AsNumber(); ok {
		return n
	}
	return def
}

// GetDoubles returns up to max leading numbers of the array under key.
// Reading stops at the first non-number element.
func (p *Profile) GetDoubles(key string, max int) []float64 {
	v := p.vals[key]
	if v.Kind() != KindArray {
		return nil
	}
	var out []float64
	for i := 0; i < v.Len() && len(out) < max; i++ {
		n, ok := v.Index(i).AsNumber()
		if !ok {
			break
		}
		out = append(out, n)
	}
	return out
}

// GetFloats is GetDoubles narrowed to float32.
func (p *Profile) GetFloats(key string, max int) []float32 {
	ds := p.GetDoubles(key, max)
	if ds == nil {
		return nil
	}
	out := make([]float32, len(ds))
	for i, d := range ds {
		out[i] = float32(d)
	}
	return out
}

// NumValues is the array length under key, 1 for a scalar, 0 when absent.
func (p *Profile) NumValues(key string) int {
	v, ok := p.vals[key]
	if !ok {
		return 0
	}
	if v.Kind() == KindArray {
		return v.Len()
	}
	return 1
}

func (p *Profile) SetString(key, val string)         { p.Set(key, String(val)) }
func (p *Profile) SetBool(key string, val bool)      { p.Set(key, Bool(val)) }
func (p *Profile) SetInt(key string, val int)        { p.Set(key, Number(float64(val))) }
func (p *Profile) SetFloat(key string, val float32)  { p.Set(key, Number(float64(val))) }
func (p *Profile) SetDouble(key string, val float64) { p.Set(key, Number(val)) }

func (p *Profile) SetFloats(key string, vals ...float32) {
	ds := make([]float64, len(vals))
	for i, v := range vals {
		ds[i] = float64(v)
	}
	p.Set(key, Numbers(ds...))
}

func (p *Profile) SetDoubles(key string, vals ...float64) {
	p.Set(key, Numbers(vals...))
}

// Object returns the profile as an ordered object value.
func (p *Profile) Object() Value {
	ms := make([]Member, len(p.names))
	for i, n := range p.names {
		ms[i] = Member{Name: n, Value: p.vals[n].Clone()}
	}
	return Object(ms...)
}

func (p *Profile) MarshalJSON() ([]byte, error) {
	return p.Object().MarshalJSON()
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	if v.Kind() != KindObject {
		return fmt.Errorf("profile: values must be an object, got %v", v.Kind())
	}
	*p = Profile{BasePath: p.BasePath, vals: make(map[string]Value)}
	p.merge(v.Members(), "", false)
	return nil
}

func (p *Profile) String() string {
	var buf bytes.Buffer
	b, _ := p.MarshalJSON()
	if err := json.Indent(&buf, b, "", "  "); err != nil {
		return string(b)
	}
	return buf.String()
}
