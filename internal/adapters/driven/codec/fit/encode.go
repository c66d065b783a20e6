package fit

import (
	"bytes"
	"fmt"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/untyped/fieldnum"
	"github.com/muktihari/fit/proto"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// Encode writes messages into a new FIT container with a 14-byte header.
// The encoder writes a definition before the first message of each layout
// and again whenever the layout changes.
func (c *Codec) Encode(messages []domain.Message) ([]byte, error) {
	file := &proto.FIT{
		FileHeader: fileHeader(),
		Messages:   make([]proto.Message, 0, len(messages)),
	}
	for i, msg := range messages {
		f, ok := msg.Frame().(*frame)
		if !ok || f == nil {
			return nil, fmt.Errorf("%w: message %d (%s) carries no FIT frame", domain.ErrEncode, i, msg.Kind())
		}
		file.Messages = append(file.Messages, patch(msg, f))
	}

	var buf bytes.Buffer
	if err := encoder.New(&buf).Encode(file); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// patch returns a copy of the frame's message with its attribution fields
// set from the message values.
func patch(msg domain.Message, f *frame) proto.Message {
	out := f.clone()

	switch m := msg.(type) {
	case *domain.FileIdentity:
		setUint16(&out, fieldnum.FileIdManufacturer, uint16(m.Manufacturer), uint16(domain.ManufacturerInvalid))
		setUint16(&out, fieldnum.FileIdProduct, m.Product, domain.ProductInvalid)
	case *domain.DeviceInfo:
		product := m.Product
		if m.Manufacturer == domain.ManufacturerGarmin && m.GarminProduct != domain.ProductInvalid {
			product = m.GarminProduct
		}
		setUint16(&out, fieldnum.DeviceInfoManufacturer, uint16(m.Manufacturer), uint16(domain.ManufacturerInvalid))
		setUint16(&out, fieldnum.DeviceInfoProduct, product, domain.ProductInvalid)
	case *domain.Other:
	}

	return out
}
