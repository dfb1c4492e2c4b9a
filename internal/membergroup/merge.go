package membergroup

import (
	"github.com/Ajpantuso/zone-grouper/internal/attribute"
	"github.com/Ajpantuso/zone-grouper/internal/member"
)

// MergeDiscoveredMetadata writes every discovered entry into m's attributes,
// overwriting existing keys. Values of unsupported types are stored as strings.
// Nil entries carry no value and are skipped.
func MergeDiscoveredMetadata(m *member.Member, metadata map[string]any) {
	for key, raw := range metadata {
		if raw == nil {
			continue
		}
		v := attribute.ValueOf(raw)
		switch v.Kind() {
		case attribute.KindByte:
			b, _ := v.AsByte()
			m.SetByteAttribute(key, b)
		case attribute.KindShort:
			s, _ := v.AsShort()
			m.SetShortAttribute(key, s)
		case attribute.KindInt32:
			i, _ := v.AsInt32()
			m.SetIntAttribute(key, i)
		case attribute.KindInt64:
			l, _ := v.AsInt64()
			m.SetLongAttribute(key, l)
		case attribute.KindFloat32:
			f, _ := v.AsFloat32()
			m.SetFloatAttribute(key, f)
		case attribute.KindFloat64:
			d, _ := v.AsFloat64()
			m.SetDoubleAttribute(key, d)
		case attribute.KindBool:
			b, _ := v.AsBool()
			m.SetBooleanAttribute(key, b)
		default:
			m.SetStringAttribute(key, v.String())
		}
	}
}
