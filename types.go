package matroska

import "github.com/google/uuid"

// Packet flags (§3.4), carried on the legacy whole-file LegacyPacket type.
const (
	KF = 1 << iota // Keyframe
)

// Seek flags for FileDemuxer.Seek / SeekCueAware.
const (
	SeekToPrevKeyFrame = 1 << iota
	SeekToPrevKeyFrameStrict
)

// VideoTrackInfo is the video-specific subset of TrackInfo, translated
// from the wire-level Video schema element.
type VideoTrackInfo struct {
	PixelWidth    uint32
	PixelHeight   uint32
	DisplayWidth  uint32
	DisplayHeight uint32
	Interlaced    bool
}

// AudioTrackInfo is the audio-specific subset of TrackInfo, translated
// from the wire-level Audio schema element.
type AudioTrackInfo struct {
	SamplingFreq       float64
	OutputSamplingFreq float64
	Channels           uint8
	BitDepth           uint8
}

// TrackInfo is the legacy, flattened view of a TrackEntry returned by
// FileDemuxer/MatroskaParser's GetTrackInfo. It exists alongside the
// richer TrackEntry for callers written against the whole-file
// random-access API.
type TrackInfo struct {
	Number   uint8
	UID      uint64
	Type     uint8
	Name     string
	Language string
	CodecID  string
	CodecPrivate []byte

	Enabled bool
	Default bool
	Lacing  bool

	TimecodeScale float64

	Video VideoTrackInfo
	Audio AudioTrackInfo
}

// SegmentInfo is the legacy, flattened view of an Info element.
type SegmentInfo struct {
	UID             [16]byte
	Filename        string
	PrevUID         [16]byte
	PrevFilename    string
	NextUID         [16]byte
	NextFilename    string
	TimecodeScale   uint64
	Duration        uint64
	DateUTC         int64
	DateUTCValid    bool
	Title           string
	MuxingApp       string
	WritingApp      string
}

func segmentInfoFromInfo(info *Info) *SegmentInfo {
	si := &SegmentInfo{
		TimecodeScale: info.TimestampScale,
		Duration:      uint64(info.Duration),
		Title:         info.Title,
		MuxingApp:     info.MuxingApp,
		WritingApp:    info.WritingApp,
		Filename:      info.SegmentFilename,
		PrevFilename:  info.PrevFilename,
		NextFilename:  info.NextFilename,
	}
	if info.HasSegmentUID {
		si.UID = uuidTo16(info.SegmentUID)
	}
	if info.HasPrevUID {
		si.PrevUID = uuidTo16(info.PrevUID)
	}
	if info.HasNextUID {
		si.NextUID = uuidTo16(info.NextUID)
	}
	if info.HasDateUTC {
		si.DateUTC = info.DateUTC.UnixNano()
		si.DateUTCValid = true
	}
	return si
}

func uuidTo16(u uuid.UUID) [16]byte {
	var out [16]byte
	copy(out[:], u[:])
	return out
}

func trackInfoFromEntry(e *TrackEntry) *TrackInfo {
	ti := &TrackInfo{
		Number:        uint8(e.Number),
		UID:           e.UID,
		Type:          uint8(e.Type),
		Name:          e.Name,
		Language:      e.Language,
		CodecID:       e.CodecID,
		CodecPrivate:  e.CodecPrivate,
		Enabled:       e.FlagEnabled != 0,
		Default:       e.FlagDefault != 0,
		Lacing:        e.FlagLacing != 0,
		TimecodeScale: e.TrackTimescale,
	}
	if e.Video != nil {
		ti.Video = VideoTrackInfo{
			PixelWidth:    uint32(e.Video.PixelWidth),
			PixelHeight:   uint32(e.Video.PixelHeight),
			DisplayWidth:  uint32(e.Video.DisplayWidth),
			DisplayHeight: uint32(e.Video.DisplayHeight),
			Interlaced:    e.Video.FlagInterlaced != 0,
		}
	}
	if e.Audio != nil {
		ti.Audio = AudioTrackInfo{
			SamplingFreq:       e.Audio.SamplingFrequency,
			OutputSamplingFreq: e.Audio.OutputSamplingFrequency,
			Channels:           uint8(e.Audio.Channels),
			BitDepth:           uint8(e.Audio.BitDepth),
		}
	}
	return ti
}

// Attachment, Chapter, Tag, and Cue are recognized-and-skipped per §1's
// Non-goals: this codec never parses their bodies, so these are opaque
// placeholders callers of the legacy API can type-assert against without
// the API surface changing if attachment/chapter/tag parsing is added
// later.
type Attachment struct {
	UID      uint64
	Filename string
	MimeType string
	Data     []byte
}

type Chapter struct {
	UID   uint64
	Start uint64
	End   uint64
	Title string
}

type Tag struct {
	Name  string
	Value string
}

type Cue struct {
	Time    uint64
	Track   uint64
	Cluster uint64
}

// LegacyPacket is the flattened, whole-file view of a decoded media unit
// returned by FileDemuxer.ReadPacket / MatroskaParser.ReadPacket. It
// predates the incremental Demuxer's Packet type (§4.6) and is kept
// alongside it for callers written against the random-access API.
type LegacyPacket struct {
	Track     uint8
	StartTime uint64
	EndTime   uint64
	FilePos   uint64
	Data      []byte
	Flags     uint32
}
