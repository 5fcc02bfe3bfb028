package matroska

// Codec is a normalized codec identifier, decoupled from Matroska's
// string CodecID so callers can switch on a small closed set instead of
// string-matching "V_VP9" throughout (§6.3).
type Codec int

// Recognized codecs. CodecUnknown is returned for any CodecID string not
// in the table below; callers that need the original string can still
// read TrackEntry.CodecID directly.
const (
	CodecUnknown Codec = iota
	CodecOpus
	CodecVorbis
	CodecAV1
	CodecVP8
	CodecVP9
)

var codecIDToCodec = map[string]Codec{
	"A_OPUS":   CodecOpus,
	"A_VORBIS": CodecVorbis,
	"V_AV1":    CodecAV1,
	"V_VP8":    CodecVP8,
	"V_VP9":    CodecVP9,
}

var codecToCodecID = map[Codec]string{
	CodecOpus:   "A_OPUS",
	CodecVorbis: "A_VORBIS",
	CodecAV1:    "V_AV1",
	CodecVP8:    "V_VP8",
	CodecVP9:    "V_VP9",
}

// CodecFromID maps a Matroska CodecID string to a normalized Codec.
// Unrecognized strings map to CodecUnknown rather than an error: per
// DESIGN.md's resolution of the corresponding open question, an
// unknown codec is not a parse failure, since TrackEntry.CodecID still
// carries the original string for callers that need it.
func CodecFromID(codecID string) Codec {
	if c, ok := codecIDToCodec[codecID]; ok {
		return c
	}
	return CodecUnknown
}

// CodecID returns the Matroska CodecID string for c, or "" if c is not
// one of the recognized codecs.
func (c Codec) CodecID() string {
	return codecToCodecID[c]
}

func (c Codec) String() string {
	switch c {
	case CodecOpus:
		return "opus"
	case CodecVorbis:
		return "vorbis"
	case CodecAV1:
		return "av1"
	case CodecVP8:
		return "vp8"
	case CodecVP9:
		return "vp9"
	default:
		return "unknown"
	}
}
