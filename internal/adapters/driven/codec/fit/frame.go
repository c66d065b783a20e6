package fit

import (
	"github.com/muktihari/fit/factory"
	"github.com/muktihari/fit/proto"
)

// frame carries the decoded message so it can be written back unchanged.
type frame struct {
	mesg proto.Message
}

// GlobalNum implements domain.Frame.
func (f *frame) GlobalNum() uint16 { return uint16(f.mesg.Num) }

// clone returns a copy of the message whose field list can be modified
// without touching the frame.
func (f *frame) clone() proto.Message {
	m := f.mesg
	m.Fields = append([]proto.Field(nil), f.mesg.Fields...)
	m.DeveloperFields = append([]proto.DeveloperField(nil), f.mesg.DeveloperFields...)
	return m
}

// uintField returns the value of an unsigned integer field.
func uintField(m *proto.Message, num byte) (uint32, bool) {
	field := m.FieldByNum(num)
	if field == nil {
		return 0, false
	}
	switch v := field.Value.Any().(type) {
	case uint8:
		return uint32(v), true
	case uint16:
		return uint32(v), true
	case uint32:
		return v, true
	default:
		return 0, false
	}
}

// setUint16 stores value in field num, adding the field from the profile
// when the message does not carry it. An invalid value is never added.
func setUint16(m *proto.Message, num byte, value, invalid uint16) {
	if field := m.FieldByNum(num); field != nil {
		field.Value = proto.Uint16(value)
		return
	}
	if value == invalid {
		return
	}
	field := factory.CreateField(m.Num, num)
	field.Value = proto.Uint16(value)
	m.Fields = append(m.Fields, field)
}
