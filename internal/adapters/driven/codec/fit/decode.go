package fit

import (
	"bytes"
	"fmt"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/untyped/fieldnum"
	"github.com/muktihari/fit/profile/untyped/mesgnum"

	"github.com/custodia-labs/fitedit/internal/core/domain"
)

// Decode parses a FIT container into its data messages, in file order.
func (c *Codec) Decode(data []byte) ([]domain.Message, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrDecode)
	}

	// Components stay packed so that re-encoding writes the fields the
	// recorder wrote and nothing more.
	dec := decoder.New(bytes.NewReader(data), decoder.WithNoComponentExpansion())
	file, err := dec.Decode()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	if dec.Next() {
		return nil, fmt.Errorf("%w: chained FIT files are not supported", domain.ErrDecode)
	}

	messages := make([]domain.Message, 0, len(file.Messages))
	for i := range file.Messages {
		messages = append(messages, toMessage(&frame{mesg: file.Messages[i]}))
	}
	return messages, nil
}

// toMessage interprets a decoded message as one of the domain message kinds.
func toMessage(f *frame) domain.Message {
	m := &f.mesg
	switch m.Num {
	case mesgnum.FileId:
		msg := &domain.FileIdentity{
			Manufacturer: domain.ManufacturerInvalid,
			Product:      domain.ProductInvalid,
			Raw:          f,
		}
		if v, ok := uintField(m, fieldnum.FileIdManufacturer); ok {
			msg.Manufacturer = domain.Manufacturer(v)
		}
		if v, ok := uintField(m, fieldnum.FileIdProduct); ok {
			msg.Product = uint16(v)
		}
		if v, ok := uintField(m, fieldnum.FileIdTimeCreated); ok {
			msg.TimeCreated = fitTime(v)
		}
		return msg

	case mesgnum.DeviceInfo:
		msg := &domain.DeviceInfo{
			Manufacturer:  domain.ManufacturerInvalid,
			Product:       domain.ProductInvalid,
			GarminProduct: domain.ProductInvalid,
			Raw:           f,
		}
		if v, ok := uintField(m, fieldnum.DeviceInfoManufacturer); ok {
			msg.Manufacturer = domain.Manufacturer(v)
		}
		if v, ok := uintField(m, fieldnum.DeviceInfoProduct); ok {
			msg.Product = uint16(v)
			msg.GarminProduct = uint16(v)
		}
		return msg

	default:
		return &domain.Other{GlobalNum: uint16(m.Num), Raw: f}
	}
}
