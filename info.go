package matroska

import (
	"time"

	"github.com/google/uuid"
)

// Info carries segment-wide metadata: the timestamp scale that converts
// every tick in the file to nanoseconds, an optional duration (in
// ticks), and the muxing/writing application strings (§3.3). SegmentUID
// and its prev/next counterparts are modeled as uuid.UUID rather than a
// bare [16]byte, matching how the rest of the retrieval pack treats
// UUID-shaped identifiers (petervdpas-goop2's message and registration
// IDs).
type Info struct {
	TimestampScale uint64
	Duration       float64
	HasDuration    bool
	DateUTC        time.Time
	HasDateUTC     bool
	Title          string
	MuxingApp      string
	WritingApp     string

	SegmentUID     uuid.UUID
	HasSegmentUID  bool
	SegmentFilename string
	PrevUID        uuid.UUID
	HasPrevUID     bool
	PrevFilename   string
	NextUID        uuid.UUID
	HasNextUID     bool
	NextFilename   string
}

// ParseInfo parses the CRC-checked payload of an IDSegmentInfo element.
func ParseInfo(payload []byte) (*Info, error) {
	info := &Info{
		TimestampScale: 1_000_000,
	}

	fields := []*fieldSpec{
		{id: IDTimestampScale, name: "TimestampScale", parse: func(d []byte) error {
			v, err := decodeUint(IDTimestampScale, d)
			info.TimestampScale = v
			return err
		}},
		{id: IDDuration, name: "Duration", parse: func(d []byte) error {
			v, err := decodeFloat(IDDuration, d)
			info.Duration = v
			info.HasDuration = true
			return err
		}},
		{id: IDDateUTC, name: "DateUTC", parse: func(d []byte) error {
			v, err := decodeDate(IDDateUTC, d)
			info.DateUTC = v
			info.HasDateUTC = true
			return err
		}},
		{id: IDTitle, name: "Title", parse: func(d []byte) error {
			s, err := decodeString(IDTitle, d)
			info.Title = s
			return err
		}},
		{id: IDMuxingApp, name: "MuxingApp", required: true, parse: func(d []byte) error {
			s, err := decodeString(IDMuxingApp, d)
			info.MuxingApp = s
			return err
		}},
		{id: IDWritingApp, name: "WritingApp", required: true, parse: func(d []byte) error {
			s, err := decodeString(IDWritingApp, d)
			info.WritingApp = s
			return err
		}},
		{id: IDSegmentUID, name: "SegmentUID", parse: func(d []byte) error {
			b, err := decodeFixedBinary(IDSegmentUID, d, 16)
			if err != nil {
				return err
			}
			u, err := uuid.FromBytes(b)
			info.SegmentUID = u
			info.HasSegmentUID = true
			return err
		}},
		{id: IDSegmentFilename, name: "SegmentFilename", parse: func(d []byte) error {
			s, err := decodeString(IDSegmentFilename, d)
			info.SegmentFilename = s
			return err
		}},
		{id: IDPrevUID, name: "PrevUID", parse: func(d []byte) error {
			b, err := decodeFixedBinary(IDPrevUID, d, 16)
			if err != nil {
				return err
			}
			u, err := uuid.FromBytes(b)
			info.PrevUID = u
			info.HasPrevUID = true
			return err
		}},
		{id: IDPrevFilename, name: "PrevFilename", parse: func(d []byte) error {
			s, err := decodeString(IDPrevFilename, d)
			info.PrevFilename = s
			return err
		}},
		{id: IDNextUID, name: "NextUID", parse: func(d []byte) error {
			b, err := decodeFixedBinary(IDNextUID, d, 16)
			if err != nil {
				return err
			}
			u, err := uuid.FromBytes(b)
			info.NextUID = u
			info.HasNextUID = true
			return err
		}},
		{id: IDNextFilename, name: "NextFilename", parse: func(d []byte) error {
			s, err := decodeString(IDNextFilename, d)
			info.NextFilename = s
			return err
		}},
	}

	if err := permute(payload, fields); err != nil {
		return nil, err
	}
	return info, nil
}

// Capacity implements EbmlSize.
func (info *Info) Capacity() int {
	n := elementSize(IDTimestampScale, len(encodeUint(info.TimestampScale)))
	if info.HasDuration {
		n += elementSize(IDDuration, 8)
	}
	if info.HasDateUTC {
		n += elementSize(IDDateUTC, 8)
	}
	if info.Title != "" {
		n += elementSize(IDTitle, len(info.Title))
	}
	n += elementSize(IDMuxingApp, len(info.MuxingApp))
	n += elementSize(IDWritingApp, len(info.WritingApp))
	if info.HasSegmentUID {
		n += elementSize(IDSegmentUID, 16)
	}
	return n
}

// Marshal writes the full (id, size, payload) envelope.
func (info *Info) Marshal() []byte {
	var body []byte
	body = append(body, marshalUint(IDTimestampScale, info.TimestampScale)...)
	if info.HasDuration {
		body = append(body, marshalFloat(IDDuration, info.Duration)...)
	}
	if info.HasDateUTC {
		out := writeHeader(IDDateUTC, 8)
		body = append(body, append(out, encodeDate(info.DateUTC)...)...)
	}
	body = append(body, marshalString(IDTitle, info.Title)...)
	// MuxingApp and WritingApp are required, so they are written even
	// when empty.
	body = append(body, writeHeader(IDMuxingApp, len(info.MuxingApp))...)
	body = append(body, info.MuxingApp...)
	body = append(body, writeHeader(IDWritingApp, len(info.WritingApp))...)
	body = append(body, info.WritingApp...)
	if info.HasSegmentUID {
		body = append(body, marshalBinary(IDSegmentUID, info.SegmentUID[:])...)
	}
	out := writeHeader(IDSegmentInfo, len(body))
	return append(out, body...)
}
