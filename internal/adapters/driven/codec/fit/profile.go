package fit

import (
	"time"

	"github.com/muktihari/fit/proto"
)

// Header values written into encoded files.
const (
	headerSize = 14
	dataType   = ".FIT"

	// profileVersion is written into encoded headers (21.32).
	profileVersion uint16 = 2132
)

const invalidUint32 uint32 = 0xFFFFFFFF

// epoch is the FIT time origin, 1989-12-31T00:00:00Z.
var epoch = time.Unix(631065600, 0).UTC()

// fitTime converts a FIT date_time value to time; invalid values map to the
// zero time.
func fitTime(v uint32) time.Time {
	if v == invalidUint32 {
		return time.Time{}
	}
	return epoch.Add(time.Duration(v) * time.Second)
}

// fileHeader is the header of every file this codec writes. The encoder
// fills in the data size and checksums.
func fileHeader() proto.FileHeader {
	return proto.FileHeader{
		Size:            headerSize,
		ProtocolVersion: proto.V2,
		ProfileVersion:  profileVersion,
		DataType:        dataType,
	}
}
