package member

import (
	"maps"

	"github.com/Ajpantuso/zone-grouper/internal/attribute"
)

// Member is one cluster node. Its attribute map is enriched in place by
// member group factories; callers must not mutate it concurrently with a
// grouping pass.
type Member struct {
	id         string
	address    string
	attributes map[string]attribute.Value
}

func NewMember(id, address string) *Member {
	return &Member{
		id:         id,
		address:    address,
		attributes: make(map[string]attribute.Value),
	}
}

func (m *Member) ID() string      { return m.id }
func (m *Member) Address() string { return m.address }

func (m *Member) SetAttribute(key string, value attribute.Value) {
	if m.attributes == nil {
		m.attributes = make(map[string]attribute.Value)
	}
	m.attributes[key] = value
}

func (m *Member) SetByteAttribute(key string, value int8) { m.SetAttribute(key, attribute.Byte(value)) }
func (m *Member) SetShortAttribute(key string, value int16) { m.SetAttribute(key, attribute.Short(value)) }
func (m *Member) SetIntAttribute(key string, value int32) { m.SetAttribute(key, attribute.Int32(value)) }
func (m *Member) SetLongAttribute(key string, value int64) { m.SetAttribute(key, attribute.Int64(value)) }
func (m *Member) SetFloatAttribute(key string, value float32) { m.SetAttribute(key, attribute.Float32(value)) }
func (m *Member) SetDoubleAttribute(key string, value float64) { m.SetAttribute(key, attribute.Float64(value)) }
func (m *Member) SetBooleanAttribute(key string, value bool) { m.SetAttribute(key, attribute.Bool(value)) }
func (m *Member) SetStringAttribute(key string, value string) { m.SetAttribute(key, attribute.String(value)) }

func (m *Member) RemoveAttribute(key string) {
	delete(m.attributes, key)
}

func (m *Member) Attribute(key string) (attribute.Value, bool) {
	v, ok := m.attributes[key]
	return v, ok
}

// StringAttribute reports ok only when key holds a string-kind value.
func (m *Member) StringAttribute(key string) (string, bool) {
	v, ok := m.attributes[key]
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (m *Member) IntAttribute(key string) (int32, bool) {
	v, ok := m.attributes[key]
	if !ok {
		return 0, false
	}
	return v.AsInt32()
}

func (m *Member) LongAttribute(key string) (int64, bool) {
	v, ok := m.attributes[key]
	if !ok {
		return 0, false
	}
	return v.AsInt64()
}

func (m *Member) BooleanAttribute(key string) (bool, bool) {
	v, ok := m.attributes[key]
	if !ok {
		return false, false
	}
	return v.AsBool()
}

// Attributes returns a copy of the attribute map.
func (m *Member) Attributes() map[string]attribute.Value {
	return maps.Clone(m.attributes)
}

func (m *Member) String() string {
	return m.id + "@" + m.address
}
