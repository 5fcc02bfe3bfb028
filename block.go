package matroska

import (
	"bytes"

	"github.com/icza/bitio"
)

// Lacing modes carried in a block's flag byte (§3.4). Only LacingNone is
// written; on read, Xiph, fixed, and EBML laced blocks are split into
// their individual frames.
const (
	LacingNone  = 0x0
	LacingXiph  = 0x2
	LacingFixed = 0x4
	LacingEBML  = 0x6
)

// Block is the shared framing of SimpleBlock and the Block child of a
// BlockGroup: a track number, a cluster-relative timestamp, flags, and
// the laced frame payloads.
type Block struct {
	TrackNumber uint64
	Timestamp   int16
	Keyframe    bool
	Invisible   bool
	Lacing      uint8
	Discardable bool
	Frames      [][]byte
}

// parseBlockFraming decodes the common (track number, i16 timestamp,
// flags) header shared by SimpleBlock and Block, then splits the
// remaining bytes into frames according to the lacing mode. keyframeFlag
// selects whether bit 0x80 of the flag byte (meaningful only for
// SimpleBlock) is read into Keyframe.
func parseBlockFraming(data []byte, keyframeFlag bool) (*Block, error) {
	track, width, err := parseVint(data, false)
	if err != nil {
		return nil, err
	}
	if len(data) < width+3 {
		return nil, &MoreDataNeeded{N: width + 3 - len(data)}
	}
	ts := int16(uint16(data[width])<<8 | uint16(data[width+1]))
	keyframe, invisible, lacing, discardable, err := decodeFlagByte(data[width+2])
	if err != nil {
		return nil, err
	}
	rest := data[width+3:]

	b := &Block{
		TrackNumber: track,
		Timestamp:   ts,
		Invisible:   invisible,
		Lacing:      lacing,
		Discardable: discardable,
	}
	if keyframeFlag {
		b.Keyframe = keyframe
	}

	switch b.Lacing {
	case LacingNone:
		b.Frames = [][]byte{rest}
	case LacingXiph, LacingFixed, LacingEBML:
		frames, err := splitLacedFrames(b.Lacing, rest)
		if err != nil {
			return nil, err
		}
		b.Frames = frames
	default:
		return nil, &Error{ID: IDSimpleBlock, Kind: KindNom, msg: "unreachable lacing mode"}
	}
	return b, nil
}

// decodeFlagByte unpacks a Block's single flag byte into its keyframe,
// invisible, lacing, and discardable fields, using the same bitio.Reader
// bit-field decomposition the VINT codec relies on (ebml.go's parseVint):
// the byte's fields (keyframe, 2 reserved bits, invisible, 1 reserved bit,
// 2-bit lacing, discardable) are read MSB-first in their declared widths
// rather than recovered with ad hoc masks.
func decodeFlagByte(flagByte byte) (keyframe, invisible bool, lacing uint8, discardable bool, err error) {
	r := bitio.NewReader(bytes.NewReader([]byte{flagByte}))
	kf, err := r.ReadBits(1)
	if err != nil {
		return false, false, 0, false, err
	}
	if _, err = r.ReadBits(2); err != nil { // reserved
		return false, false, 0, false, err
	}
	inv, err := r.ReadBits(1)
	if err != nil {
		return false, false, 0, false, err
	}
	if _, err = r.ReadBits(1); err != nil { // reserved
		return false, false, 0, false, err
	}
	lac, err := r.ReadBits(2)
	if err != nil {
		return false, false, 0, false, err
	}
	disc, err := r.ReadBits(1)
	if err != nil {
		return false, false, 0, false, err
	}
	return kf == 1, inv == 1, uint8(lac) << 1, disc == 1, nil
}

// encodeFlagByte is decodeFlagByte's inverse, packing the same fields back
// into one byte with a bitio.Writer.
func encodeFlagByte(keyframe, invisible bool, lacing uint8, discardable bool) byte {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	_ = w.WriteBits(boolBit(keyframe), 1)
	_ = w.WriteBits(0, 2) // reserved
	_ = w.WriteBits(boolBit(invisible), 1)
	_ = w.WriteBits(0, 1) // reserved
	_ = w.WriteBits(uint64(lacing>>1), 2)
	_ = w.WriteBits(boolBit(discardable), 1)
	_ = w.Close()
	return buf.Bytes()[0]
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// splitLacedFrames splits a laced frame area. Xiph and EBML lacing use a
// leading frame count plus per-frame size prefixes; fixed lacing divides
// the remainder evenly. All three are parsed so a reader can at least
// recover the frame count and boundaries even though this codec does not
// produce laced output itself.
func splitLacedFrames(mode uint8, data []byte) ([][]byte, error) {
	if len(data) < 1 {
		return nil, &MoreDataNeeded{N: 1}
	}
	count := int(data[0]) + 1
	pos := 1

	switch mode {
	case LacingFixed:
		if count == 0 {
			return nil, &Error{ID: IDSimpleBlock, Kind: KindNom, msg: "fixed lacing with zero frames"}
		}
		remaining := data[pos:]
		if len(remaining)%count != 0 {
			return nil, &Error{ID: IDSimpleBlock, Kind: KindNom, msg: "fixed lacing size not divisible by frame count"}
		}
		frameLen := len(remaining) / count
		frames := make([][]byte, count)
		for i := 0; i < count; i++ {
			frames[i] = remaining[i*frameLen : (i+1)*frameLen]
		}
		return frames, nil

	case LacingXiph:
		sizes := make([]int, count-1)
		for i := 0; i < count-1; i++ {
			size := 0
			for {
				if pos >= len(data) {
					return nil, &MoreDataNeeded{N: 1}
				}
				size += int(data[pos])
				done := data[pos] != 0xFF
				pos++
				if done {
					break
				}
			}
			sizes[i] = size
		}
		return sliceFrames(data[pos:], sizes)

	case LacingEBML:
		sizes := make([]int, count-1)
		var prev int64
		for i := 0; i < count-1; i++ {
			if i == 0 {
				v, w, err := parseVint(data[pos:], false)
				if err != nil {
					return nil, err
				}
				sizes[i] = int(v)
				prev = int64(v)
				pos += w
				continue
			}
			v, w, err := parseSignedVint(data[pos:])
			if err != nil {
				return nil, err
			}
			prev += v
			sizes[i] = int(prev)
			pos += w
		}
		return sliceFrames(data[pos:], sizes)
	}
	return nil, &Error{ID: IDSimpleBlock, Kind: KindNom, msg: "unreachable lacing mode"}
}

// parseSignedVint decodes an EBML-lacing signed VINT: an unsigned VINT of
// width w biased by 2^(7w-1)-1.
func parseSignedVint(buf []byte) (int64, int, error) {
	v, w, err := parseVint(buf, false)
	if err != nil {
		return 0, 0, err
	}
	bias := int64(1)<<(7*uint(w)-1) - 1
	return int64(v) - bias, w, nil
}

func sliceFrames(data []byte, sizes []int) ([][]byte, error) {
	frames := make([][]byte, len(sizes)+1)
	pos := 0
	for i, sz := range sizes {
		if pos+sz > len(data) {
			return nil, &Error{ID: IDSimpleBlock, Kind: KindNom, msg: "laced frame size exceeds block"}
		}
		frames[i] = data[pos : pos+sz]
		pos += sz
	}
	frames[len(sizes)] = data[pos:]
	return frames, nil
}

// bodyCapacity is the payload size of an unlaced Block (the only lacing
// mode this codec writes), without its own element envelope.
func (b *Block) bodyCapacity() int {
	n := vintWidth(b.TrackNumber) + 3
	for _, f := range b.Frames {
		n += len(f)
	}
	return n
}

// marshalFraming writes the common (track number, i16 timestamp, flags)
// header followed by the single unlaced frame. Writing only supports
// LacingNone with exactly one frame, matching the muxer's single-frame
// packets.
func (b *Block) marshalFraming(keyframeFlag bool) []byte {
	out := writeVint(b.TrackNumber)
	out = append(out, byte(uint16(b.Timestamp)>>8), byte(uint16(b.Timestamp)))
	flags := encodeFlagByte(keyframeFlag && b.Keyframe, b.Invisible, b.Lacing, b.Discardable)
	out = append(out, flags)
	if len(b.Frames) > 0 {
		out = append(out, b.Frames[0]...)
	}
	return out
}

// SimpleBlock is a self-contained frame directly under a Cluster: the
// common Block framing plus the implicit "it is its own BlockGroup"
// semantics (§3.4).
type SimpleBlock struct {
	Block
}

func parseSimpleBlock(payload []byte) (*SimpleBlock, error) {
	b, err := parseBlockFraming(payload, true)
	if err != nil {
		return nil, err
	}
	return &SimpleBlock{Block: *b}, nil
}

func (s *SimpleBlock) Capacity() int {
	return s.bodyCapacity()
}

func (s *SimpleBlock) Marshal() []byte {
	body := s.marshalFraming(true)
	out := writeHeader(IDSimpleBlock, len(body))
	return append(out, body...)
}

// BlockGroup wraps a Block with optional duration and reference
// timestamps used by non-keyframe frames (§3.4). This codec only
// populates Duration; backward/forward reference fields are outside the
// spec's scope and recognized-and-skipped by permute's unknown-element
// path.
type BlockGroup struct {
	Block       Block
	Duration    uint64
	HasDuration bool
}

func parseBlockGroup(payload []byte) (*BlockGroup, error) {
	g := &BlockGroup{}
	var blockSeen bool
	fields := []*fieldSpec{
		{id: IDBlock, name: "Block", required: true, parse: func(d []byte) error {
			b, err := parseBlockFraming(d, false)
			if err != nil {
				return err
			}
			g.Block = *b
			blockSeen = true
			return nil
		}},
		{id: IDBlockDuration, name: "BlockDuration", parse: func(d []byte) error {
			v, err := decodeUint(IDBlockDuration, d)
			g.Duration = v
			g.HasDuration = true
			return err
		}},
	}
	if err := permute(payload, fields); err != nil {
		return nil, err
	}
	_ = blockSeen
	return g, nil
}

func (g *BlockGroup) Capacity() int {
	n := elementSize(IDBlock, g.Block.bodyCapacity())
	if g.HasDuration {
		n += elementSize(IDBlockDuration, len(encodeUint(g.Duration)))
	}
	return n
}

func (g *BlockGroup) Marshal() []byte {
	var body []byte
	blockBody := g.Block.marshalFraming(false)
	body = append(body, writeHeader(IDBlock, len(blockBody))...)
	body = append(body, blockBody...)
	if g.HasDuration {
		body = append(body, marshalUint(IDBlockDuration, g.Duration)...)
	}
	out := writeHeader(IDBlockGroup, len(body))
	return append(out, body...)
}
