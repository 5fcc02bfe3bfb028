package matroska

// Track types (§3.3). Only Video and Audio get a dedicated sub-record;
// everything else is carried as an opaque track kind. TrackTypeOther is
// Matroska's "control" track type, used as the wire value for a Stream
// whose Kind is neither Video nor Audio (§4.7).
const (
	TrackTypeVideo = 0x1
	TrackTypeAudio = 0x2
	TrackTypeOther = 0x20
)

// Colour carries HDR/wide-gamut metadata for a Video track. Recovered
// from original_source/src/elements.rs (§7 of SPEC_FULL.md): the
// distilled spec names it only as "optional colour" on Video, but the
// original models it as its own permutation-parsed record rather than an
// opaque blob, and nothing in spec.md's Non-goals excludes it.
type Colour struct {
	MatrixCoefficients uint64
	Range              uint64
	TransferCharacteristics uint64
	Primaries          uint64
	MaxCLL             uint64
	MaxFALL            uint64
}

func parseColour(payload []byte) (*Colour, error) {
	c := &Colour{}
	fields := []*fieldSpec{
		{id: IDColourMatrix, name: "MatrixCoefficients", parse: func(d []byte) error {
			v, err := decodeUint(IDColourMatrix, d)
			c.MatrixCoefficients = v
			return err
		}},
		{id: IDColourRange, name: "Range", parse: func(d []byte) error {
			v, err := decodeUint(IDColourRange, d)
			c.Range = v
			return err
		}},
		{id: IDColourTransfer, name: "TransferCharacteristics", parse: func(d []byte) error {
			v, err := decodeUint(IDColourTransfer, d)
			c.TransferCharacteristics = v
			return err
		}},
		{id: IDColourPrimaries, name: "Primaries", parse: func(d []byte) error {
			v, err := decodeUint(IDColourPrimaries, d)
			c.Primaries = v
			return err
		}},
		{id: IDColourMaxCLL, name: "MaxCLL", parse: func(d []byte) error {
			v, err := decodeUint(IDColourMaxCLL, d)
			c.MaxCLL = v
			return err
		}},
		{id: IDColourMaxFALL, name: "MaxFALL", parse: func(d []byte) error {
			v, err := decodeUint(IDColourMaxFALL, d)
			c.MaxFALL = v
			return err
		}},
	}
	if err := permute(payload, fields); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Colour) Capacity() int {
	n := 0
	n += elementSize(IDColourMatrix, len(encodeUint(c.MatrixCoefficients)))
	n += elementSize(IDColourRange, len(encodeUint(c.Range)))
	n += elementSize(IDColourTransfer, len(encodeUint(c.TransferCharacteristics)))
	n += elementSize(IDColourPrimaries, len(encodeUint(c.Primaries)))
	n += elementSize(IDColourMaxCLL, len(encodeUint(c.MaxCLL)))
	n += elementSize(IDColourMaxFALL, len(encodeUint(c.MaxFALL)))
	return n
}

func (c *Colour) Marshal() []byte {
	var body []byte
	body = append(body, marshalUint(IDColourMatrix, c.MatrixCoefficients)...)
	body = append(body, marshalUint(IDColourRange, c.Range)...)
	body = append(body, marshalUint(IDColourTransfer, c.TransferCharacteristics)...)
	body = append(body, marshalUint(IDColourPrimaries, c.Primaries)...)
	body = append(body, marshalUint(IDColourMaxCLL, c.MaxCLL)...)
	body = append(body, marshalUint(IDColourMaxFALL, c.MaxFALL)...)
	out := writeHeader(IDColour, len(body))
	return append(out, body...)
}

// Projection carries spherical/360-video projection metadata. Recovered
// from original_source the same way as Colour.
type Projection struct {
	Type      uint64
	Private   []byte
	PoseYaw   float64
	PosePitch float64
	PoseRoll  float64
}

func parseProjection(payload []byte) (*Projection, error) {
	p := &Projection{}
	fields := []*fieldSpec{
		{id: IDProjectionType, name: "ProjectionType", parse: func(d []byte) error {
			v, err := decodeUint(IDProjectionType, d)
			p.Type = v
			return err
		}},
		{id: IDProjectionPrivate, name: "ProjectionPrivate", parse: func(d []byte) error {
			p.Private = d
			return nil
		}},
		{id: IDProjectionPoseYaw, name: "ProjectionPoseYaw", parse: func(d []byte) error {
			v, err := decodeFloat(IDProjectionPoseYaw, d)
			p.PoseYaw = v
			return err
		}},
		{id: IDProjectionPosePitch, name: "ProjectionPosePitch", parse: func(d []byte) error {
			v, err := decodeFloat(IDProjectionPosePitch, d)
			p.PosePitch = v
			return err
		}},
		{id: IDProjectionPoseRoll, name: "ProjectionPoseRoll", parse: func(d []byte) error {
			v, err := decodeFloat(IDProjectionPoseRoll, d)
			p.PoseRoll = v
			return err
		}},
	}
	if err := permute(payload, fields); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Projection) Capacity() int {
	n := elementSize(IDProjectionType, len(encodeUint(p.Type)))
	if len(p.Private) > 0 {
		n += elementSize(IDProjectionPrivate, len(p.Private))
	}
	n += elementSize(IDProjectionPoseYaw, 8)
	n += elementSize(IDProjectionPosePitch, 8)
	n += elementSize(IDProjectionPoseRoll, 8)
	return n
}

func (p *Projection) Marshal() []byte {
	var body []byte
	body = append(body, marshalUint(IDProjectionType, p.Type)...)
	body = append(body, marshalBinary(IDProjectionPrivate, p.Private)...)
	body = append(body, marshalFloat(IDProjectionPoseYaw, p.PoseYaw)...)
	body = append(body, marshalFloat(IDProjectionPosePitch, p.PosePitch)...)
	body = append(body, marshalFloat(IDProjectionPoseRoll, p.PoseRoll)...)
	out := writeHeader(IDProjection, len(body))
	return append(out, body...)
}

// Video holds the video-specific fields of a TrackEntry (§3.3). Display
// dimensions default to the pixel dimensions when absent.
type Video struct {
	PixelWidth     uint64
	PixelHeight    uint64
	DisplayWidth   uint64
	DisplayHeight  uint64
	DisplayUnit    uint64
	FlagInterlaced uint64
	FieldOrder     uint64
	StereoMode     uint64
	ColourSpace    []byte
	Colour         *Colour
	Projection     *Projection
}

func parseVideo(payload []byte) (*Video, error) {
	v := &Video{
		FieldOrder: 2,
	}
	var widthSeen, heightSeen bool
	fields := []*fieldSpec{
		{id: IDPixelWidth, name: "PixelWidth", required: true, parse: func(d []byte) error {
			val, err := decodeUint(IDPixelWidth, d)
			v.PixelWidth = val
			widthSeen = true
			return err
		}},
		{id: IDPixelHeight, name: "PixelHeight", required: true, parse: func(d []byte) error {
			val, err := decodeUint(IDPixelHeight, d)
			v.PixelHeight = val
			heightSeen = true
			return err
		}},
		{id: IDDisplayWidth, name: "DisplayWidth", parse: func(d []byte) error {
			val, err := decodeUint(IDDisplayWidth, d)
			v.DisplayWidth = val
			return err
		}},
		{id: IDDisplayHeight, name: "DisplayHeight", parse: func(d []byte) error {
			val, err := decodeUint(IDDisplayHeight, d)
			v.DisplayHeight = val
			return err
		}},
		{id: IDDisplayUnit, name: "DisplayUnit", parse: func(d []byte) error {
			val, err := decodeUint(IDDisplayUnit, d)
			v.DisplayUnit = val
			return err
		}},
		{id: IDFlagInterlaced, name: "FlagInterlaced", parse: func(d []byte) error {
			val, err := decodeUint(IDFlagInterlaced, d)
			v.FlagInterlaced = val
			return err
		}},
		{id: IDFieldOrder, name: "FieldOrder", parse: func(d []byte) error {
			val, err := decodeUint(IDFieldOrder, d)
			v.FieldOrder = val
			return err
		}},
		{id: IDStereoMode, name: "StereoMode", parse: func(d []byte) error {
			val, err := decodeUint(IDStereoMode, d)
			v.StereoMode = val
			return err
		}},
		{id: IDColourSpace, name: "ColourSpace", parse: func(d []byte) error {
			v.ColourSpace = d
			return nil
		}},
		{id: IDColour, name: "Colour", parse: func(d []byte) error {
			c, err := parseColour(d)
			v.Colour = c
			return err
		}},
		{id: IDProjection, name: "Projection", parse: func(d []byte) error {
			p, err := parseProjection(d)
			v.Projection = p
			return err
		}},
	}
	if err := permute(payload, fields); err != nil {
		return nil, err
	}
	if v.DisplayWidth == 0 {
		v.DisplayWidth = v.PixelWidth
	}
	if v.DisplayHeight == 0 {
		v.DisplayHeight = v.PixelHeight
	}
	_ = widthSeen
	_ = heightSeen
	return v, nil
}

func (v *Video) Capacity() int {
	n := elementSize(IDPixelWidth, len(encodeUint(v.PixelWidth)))
	n += elementSize(IDPixelHeight, len(encodeUint(v.PixelHeight)))
	if v.DisplayWidth != 0 && v.DisplayWidth != v.PixelWidth {
		n += elementSize(IDDisplayWidth, len(encodeUint(v.DisplayWidth)))
	}
	if v.DisplayHeight != 0 && v.DisplayHeight != v.PixelHeight {
		n += elementSize(IDDisplayHeight, len(encodeUint(v.DisplayHeight)))
	}
	if v.Colour != nil {
		n += elementSize(IDColour, v.Colour.Capacity())
	}
	if v.Projection != nil {
		n += elementSize(IDProjection, v.Projection.Capacity())
	}
	return n
}

func (v *Video) Marshal() []byte {
	var body []byte
	body = append(body, marshalUint(IDPixelWidth, v.PixelWidth)...)
	body = append(body, marshalUint(IDPixelHeight, v.PixelHeight)...)
	if v.DisplayWidth != 0 && v.DisplayWidth != v.PixelWidth {
		body = append(body, marshalUint(IDDisplayWidth, v.DisplayWidth)...)
	}
	if v.DisplayHeight != 0 && v.DisplayHeight != v.PixelHeight {
		body = append(body, marshalUint(IDDisplayHeight, v.DisplayHeight)...)
	}
	if v.Colour != nil {
		body = append(body, v.Colour.Marshal()...)
	}
	if v.Projection != nil {
		body = append(body, v.Projection.Marshal()...)
	}
	out := writeHeader(IDVideo, len(body))
	return append(out, body...)
}

// Audio holds the audio-specific fields of a TrackEntry (§3.3). Per the
// resolved open question (SPEC_FULL.md §8, item 1), SamplingFrequency
// defaults to 8000.0 Hz as the Matroska spec prescribes, not the 5360.0
// the original source mistakenly hard-coded.
type Audio struct {
	SamplingFrequency       float64
	OutputSamplingFrequency float64
	Channels                uint64
	BitDepth                uint64
	ChannelPositions        []byte
}

func parseAudio(payload []byte) (*Audio, error) {
	a := &Audio{
		SamplingFrequency: 8000.0,
	}
	fields := []*fieldSpec{
		{id: IDSamplingFrequency, name: "SamplingFrequency", parse: func(d []byte) error {
			v, err := decodeFloat(IDSamplingFrequency, d)
			a.SamplingFrequency = v
			return err
		}},
		{id: IDOutputSamplingFrequency, name: "OutputSamplingFrequency", parse: func(d []byte) error {
			v, err := decodeFloat(IDOutputSamplingFrequency, d)
			a.OutputSamplingFrequency = v
			return err
		}},
		{id: IDChannels, name: "Channels", required: true, parse: func(d []byte) error {
			v, err := decodeUint(IDChannels, d)
			a.Channels = v
			return err
		}},
		{id: IDBitDepth, name: "BitDepth", parse: func(d []byte) error {
			v, err := decodeUint(IDBitDepth, d)
			a.BitDepth = v
			return err
		}},
		{id: IDChannelPositions, name: "ChannelPositions", parse: func(d []byte) error {
			a.ChannelPositions = d
			return nil
		}},
	}
	if err := permute(payload, fields); err != nil {
		return nil, err
	}
	if a.OutputSamplingFrequency == 0 {
		a.OutputSamplingFrequency = a.SamplingFrequency
	}
	return a, nil
}

func (a *Audio) Capacity() int {
	n := elementSize(IDSamplingFrequency, 8)
	if a.OutputSamplingFrequency != 0 && a.OutputSamplingFrequency != a.SamplingFrequency {
		n += elementSize(IDOutputSamplingFrequency, 8)
	}
	n += elementSize(IDChannels, len(encodeUint(a.Channels)))
	if a.BitDepth != 0 {
		n += elementSize(IDBitDepth, len(encodeUint(a.BitDepth)))
	}
	return n
}

func (a *Audio) Marshal() []byte {
	var body []byte
	body = append(body, marshalFloat(IDSamplingFrequency, a.SamplingFrequency)...)
	if a.OutputSamplingFrequency != 0 && a.OutputSamplingFrequency != a.SamplingFrequency {
		body = append(body, marshalFloat(IDOutputSamplingFrequency, a.OutputSamplingFrequency)...)
	}
	body = append(body, marshalUint(IDChannels, a.Channels)...)
	if a.BitDepth != 0 {
		body = append(body, marshalUint(IDBitDepth, a.BitDepth)...)
	}
	out := writeHeader(IDAudio, len(body))
	return append(out, body...)
}

// TrackEntry describes a single media track: its number (as used in
// SimpleBlock headers), a stable UID, its type, codec, and the
// type-specific Video or Audio sub-record (§3.3).
type TrackEntry struct {
	Number         uint64
	UID            uint64
	Type           uint64
	FlagEnabled    uint64
	FlagDefault    uint64
	FlagForced     uint64
	FlagLacing     uint64
	DefaultDuration uint64
	TrackTimescale float64
	Name           string
	Language       string
	CodecID        string
	CodecPrivate   []byte
	CodecDelay     uint64
	SeekPreRoll    uint64
	Video          *Video
	Audio          *Audio
}

func parseTrackEntry(payload []byte) (*TrackEntry, error) {
	t := &TrackEntry{
		FlagEnabled:    1,
		FlagDefault:    1,
		FlagLacing:     1,
		TrackTimescale: 1.0,
		Language:       "eng",
	}
	fields := []*fieldSpec{
		{id: IDTrackNum, name: "TrackNumber", required: true, parse: func(d []byte) error {
			v, err := decodeUint(IDTrackNum, d)
			t.Number = v
			return err
		}},
		{id: IDTrackUID, name: "TrackUID", required: true, parse: func(d []byte) error {
			v, err := decodeUint(IDTrackUID, d)
			t.UID = v
			return err
		}},
		{id: IDTrackType, name: "TrackType", required: true, parse: func(d []byte) error {
			v, err := decodeUint(IDTrackType, d)
			t.Type = v
			return err
		}},
		{id: IDFlagEnabled, name: "FlagEnabled", parse: func(d []byte) error {
			v, err := decodeUint(IDFlagEnabled, d)
			t.FlagEnabled = v
			return err
		}},
		{id: IDFlagDefault, name: "FlagDefault", parse: func(d []byte) error {
			v, err := decodeUint(IDFlagDefault, d)
			t.FlagDefault = v
			return err
		}},
		{id: IDFlagForced, name: "FlagForced", parse: func(d []byte) error {
			v, err := decodeUint(IDFlagForced, d)
			t.FlagForced = v
			return err
		}},
		{id: IDFlagLacing, name: "FlagLacing", parse: func(d []byte) error {
			v, err := decodeUint(IDFlagLacing, d)
			t.FlagLacing = v
			return err
		}},
		{id: IDDefaultDuration, name: "DefaultDuration", parse: func(d []byte) error {
			v, err := decodeUint(IDDefaultDuration, d)
			t.DefaultDuration = v
			return err
		}},
		// FIXME: the original source left float_or handling for
		// TrackTimescale unreimplemented; per SPEC_FULL.md §8 item 4 we
		// default to 1.0 on absent and otherwise take the wire value,
		// including an explicit zero.
		{id: IDTrackTimescale, name: "TrackTimescale", parse: func(d []byte) error {
			v, err := decodeFloat(IDTrackTimescale, d)
			t.TrackTimescale = v
			return err
		}},
		{id: IDTrackName, name: "Name", parse: func(d []byte) error {
			s, err := decodeString(IDTrackName, d)
			t.Name = s
			return err
		}},
		{id: IDLanguage, name: "Language", parse: func(d []byte) error {
			s, err := decodeString(IDLanguage, d)
			t.Language = s
			return err
		}},
		{id: IDCodecID, name: "CodecID", required: true, parse: func(d []byte) error {
			s, err := decodeString(IDCodecID, d)
			t.CodecID = s
			return err
		}},
		{id: IDCodecPriv, name: "CodecPrivate", parse: func(d []byte) error {
			t.CodecPrivate = d
			return nil
		}},
		{id: IDCodecDelay, name: "CodecDelay", parse: func(d []byte) error {
			v, err := decodeUint(IDCodecDelay, d)
			t.CodecDelay = v
			return err
		}},
		{id: IDSeekPreRoll, name: "SeekPreRoll", parse: func(d []byte) error {
			v, err := decodeUint(IDSeekPreRoll, d)
			t.SeekPreRoll = v
			return err
		}},
		{id: IDVideo, name: "Video", parse: func(d []byte) error {
			v, err := parseVideo(d)
			t.Video = v
			return err
		}},
		{id: IDAudio, name: "Audio", parse: func(d []byte) error {
			a, err := parseAudio(d)
			t.Audio = a
			return err
		}},
	}

	if err := permute(payload, fields); err != nil {
		return nil, err
	}

	if t.Type == TrackTypeVideo && t.Video == nil {
		return nil, &Error{ID: IDVideo, Kind: KindMissingElement, msg: "Video"}
	}
	if t.Type == TrackTypeAudio && t.Audio == nil {
		return nil, &Error{ID: IDAudio, Kind: KindMissingElement, msg: "Audio"}
	}
	return t, nil
}

func (t *TrackEntry) Capacity() int {
	n := elementSize(IDTrackNum, len(encodeUint(t.Number)))
	n += elementSize(IDTrackUID, len(encodeUint(t.UID)))
	n += elementSize(IDTrackType, len(encodeUint(t.Type)))
	if t.FlagEnabled != 1 {
		n += elementSize(IDFlagEnabled, len(encodeUint(t.FlagEnabled)))
	}
	if t.FlagDefault != 1 {
		n += elementSize(IDFlagDefault, len(encodeUint(t.FlagDefault)))
	}
	if t.FlagForced != 0 {
		n += elementSize(IDFlagForced, len(encodeUint(t.FlagForced)))
	}
	if t.FlagLacing != 1 {
		n += elementSize(IDFlagLacing, len(encodeUint(t.FlagLacing)))
	}
	if t.DefaultDuration != 0 {
		n += elementSize(IDDefaultDuration, len(encodeUint(t.DefaultDuration)))
	}
	if t.TrackTimescale != 1.0 {
		n += elementSize(IDTrackTimescale, len(encodeFloat(t.TrackTimescale)))
	}
	n += elementSize(IDLanguage, len(t.Language))
	n += elementSize(IDCodecID, len(t.CodecID))
	if len(t.CodecPrivate) > 0 {
		n += elementSize(IDCodecPriv, len(t.CodecPrivate))
	}
	if t.Name != "" {
		n += elementSize(IDTrackName, len(t.Name))
	}
	if t.CodecDelay != 0 {
		n += elementSize(IDCodecDelay, len(encodeUint(t.CodecDelay)))
	}
	if t.SeekPreRoll != 0 {
		n += elementSize(IDSeekPreRoll, len(encodeUint(t.SeekPreRoll)))
	}
	if t.Video != nil {
		n += elementSize(IDVideo, t.Video.Capacity())
	}
	if t.Audio != nil {
		n += elementSize(IDAudio, t.Audio.Capacity())
	}
	return n
}

func (t *TrackEntry) Marshal() []byte {
	var body []byte
	body = append(body, marshalUint(IDTrackNum, t.Number)...)
	body = append(body, marshalUint(IDTrackUID, t.UID)...)
	body = append(body, marshalUint(IDTrackType, t.Type)...)
	if t.FlagEnabled != 1 {
		body = append(body, marshalUint(IDFlagEnabled, t.FlagEnabled)...)
	}
	if t.FlagDefault != 1 {
		body = append(body, marshalUint(IDFlagDefault, t.FlagDefault)...)
	}
	if t.FlagForced != 0 {
		body = append(body, marshalUint(IDFlagForced, t.FlagForced)...)
	}
	if t.FlagLacing != 1 {
		body = append(body, marshalUint(IDFlagLacing, t.FlagLacing)...)
	}
	if t.DefaultDuration != 0 {
		body = append(body, marshalUint(IDDefaultDuration, t.DefaultDuration)...)
	}
	if t.TrackTimescale != 1.0 {
		body = append(body, marshalFloat(IDTrackTimescale, t.TrackTimescale)...)
	}
	body = append(body, writeHeader(IDLanguage, len(t.Language))...)
	body = append(body, t.Language...)
	body = append(body, writeHeader(IDCodecID, len(t.CodecID))...)
	body = append(body, t.CodecID...)
	if len(t.CodecPrivate) > 0 {
		body = append(body, marshalBinary(IDCodecPriv, t.CodecPrivate)...)
	}
	if t.Name != "" {
		body = append(body, marshalString(IDTrackName, t.Name)...)
	}
	if t.CodecDelay != 0 {
		body = append(body, marshalUint(IDCodecDelay, t.CodecDelay)...)
	}
	if t.SeekPreRoll != 0 {
		body = append(body, marshalUint(IDSeekPreRoll, t.SeekPreRoll)...)
	}
	if t.Video != nil {
		body = append(body, t.Video.Marshal()...)
	}
	if t.Audio != nil {
		body = append(body, t.Audio.Marshal()...)
	}
	out := writeHeader(IDTrackEntry, len(body))
	return append(out, body...)
}

// Tracks is the list of TrackEntry records for a Segment; §3.3 requires
// at least one.
type Tracks struct {
	Entries []*TrackEntry
}

// ParseTracks parses the CRC-checked payload of an IDTracks element.
func ParseTracks(payload []byte) (*Tracks, error) {
	tracks := &Tracks{}
	pos := 0
	for pos < len(payload) {
		if n, ok, err := trySkipVoid(payload[pos:]); err != nil {
			return nil, err
		} else if ok {
			pos += n
			continue
		}
		h, err := readHeader(payload[pos:])
		if err != nil {
			if _, ok := err.(*MoreDataNeeded); ok {
				return nil, &Error{ID: IDTracks, Kind: KindNom, msg: "truncated Tracks"}
			}
			return nil, err
		}
		end := pos + h.HeaderLen + int(h.Size)
		if end > len(payload) {
			return nil, &Error{ID: IDTracks, Kind: KindNom, msg: "TrackEntry exceeds Tracks bounds"}
		}
		if h.ID == IDTrackEntry {
			entryPayload, err := stripCRC(IDTrackEntry, payload[pos+h.HeaderLen:end])
			if err != nil {
				return nil, err
			}
			entry, err := parseTrackEntry(entryPayload)
			if err != nil {
				return nil, err
			}
			tracks.Entries = append(tracks.Entries, entry)
		} else if n, err := skipUnknownElement(payload[pos:]); err != nil {
			return nil, err
		} else if n == 0 {
			break
		}
		pos = end
	}
	if len(tracks.Entries) == 0 {
		return nil, &Error{ID: IDTracks, Kind: KindMissingElement, msg: "TrackEntry"}
	}
	return tracks, nil
}

func (tr *Tracks) Capacity() int {
	n := 0
	for _, e := range tr.Entries {
		n += elementSize(IDTrackEntry, e.Capacity())
	}
	return n
}

func (tr *Tracks) Marshal() []byte {
	var body []byte
	for _, e := range tr.Entries {
		body = append(body, e.Marshal()...)
	}
	out := writeHeader(IDTracks, len(body))
	return append(out, body...)
}
