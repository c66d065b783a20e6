package domain

import "time"

// Manufacturer is a FIT manufacturer identifier.
type Manufacturer uint16

// Manufacturer identifiers used by the attribution rules.
const (
	// ManufacturerUnset is the zero value written by some recorders.
	ManufacturerUnset Manufacturer = 0
	// ManufacturerGarmin is Garmin's vendor id.
	ManufacturerGarmin Manufacturer = 1
	// ManufacturerWahooFitness is Wahoo Fitness' vendor id.
	ManufacturerWahooFitness Manufacturer = 32
	// ManufacturerDevelopment marks files written by unregistered developers.
	ManufacturerDevelopment Manufacturer = 255
	// ManufacturerInvalid is the FIT invalid value for uint16 fields.
	ManufacturerInvalid Manufacturer = 0xFFFF
)

// GarminProductEdge830 is the product id of a Garmin Edge 830.
const GarminProductEdge830 uint16 = 3122

// ProductInvalid is the FIT invalid value for product fields.
const ProductInvalid uint16 = 0xFFFF

// FIT global message numbers this tool distinguishes.
const (
	GlobalFileID     uint16 = 0
	GlobalEvent      uint16 = 21
	GlobalDeviceInfo uint16 = 23
)

// MessageKind discriminates the Message variants.
type MessageKind int

// Message kinds.
const (
	KindOther MessageKind = iota
	KindFileIdentity
	KindDeviceInfo
)

// String returns the kind name.
func (k MessageKind) String() string {
	switch k {
	case KindFileIdentity:
		return "file_id"
	case KindDeviceInfo:
		return "device_info"
	default:
		return "other"
	}
}

// Frame is codec-owned encoding state attached to a decoded message.
// Services never inspect it; the codec uses it to re-encode the message
// without loss.
type Frame interface {
	GlobalNum() uint16
}

// Message is a decoded FIT data message.
// The set of implementations is closed: *FileIdentity, *DeviceInfo, *Other.
type Message interface {
	Kind() MessageKind
	Global() uint16
	Frame() Frame
	isMessage()
}

// FileIdentity is the file_id message identifying the recording device.
type FileIdentity struct {
	Manufacturer Manufacturer
	Product      uint16
	// TimeCreated is zero when the file does not carry a creation time.
	TimeCreated time.Time
	Raw         Frame
}

// Kind implements Message.
func (m *FileIdentity) Kind() MessageKind { return KindFileIdentity }

// Global implements Message.
func (m *FileIdentity) Global() uint16 { return GlobalFileID }

// Frame implements Message.
func (m *FileIdentity) Frame() Frame { return m.Raw }

func (m *FileIdentity) isMessage() {}

// TimeCreatedMillis returns the creation time in Unix epoch milliseconds,
// or 0 when unset.
func (m *FileIdentity) TimeCreatedMillis() int64 {
	if m.TimeCreated.IsZero() {
		return 0
	}
	return m.TimeCreated.UnixMilli()
}

// DeviceInfo describes one device (head unit or sensor) in the recording.
type DeviceInfo struct {
	Manufacturer Manufacturer
	Product      uint16
	// GarminProduct is the product subfield interpretation used when the
	// manufacturer is Garmin. It shares storage with Product in the file.
	GarminProduct uint16
	Raw           Frame
}

// Kind implements Message.
func (m *DeviceInfo) Kind() MessageKind { return KindDeviceInfo }

// Global implements Message.
func (m *DeviceInfo) Global() uint16 { return GlobalDeviceInfo }

// Frame implements Message.
func (m *DeviceInfo) Frame() Frame { return m.Raw }

func (m *DeviceInfo) isMessage() {}

// Other is any message the attribution rules do not inspect.
type Other struct {
	GlobalNum uint16
	Raw       Frame
}

// Kind implements Message.
func (m *Other) Kind() MessageKind { return KindOther }

// Global implements Message.
func (m *Other) Global() uint16 { return m.GlobalNum }

// Frame implements Message.
func (m *Other) Frame() Frame { return m.Raw }

func (m *Other) isMessage() {}
