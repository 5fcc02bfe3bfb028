package matroska

// MuxerState tracks a Muxer's position in its write-once lifecycle
// (§4.7): a Muxer never rewinds or back-patches what it has already
// returned to the caller.
type MuxerState int

const (
	// StateConfigured: WriteHeader has not been called; SetGlobalInfo
	// is valid in this state only.
	StateConfigured MuxerState = iota
	// StateHeaderWritten: WriteHeader has produced the EBMLHeader, open
	// Segment, SeekHead, Info, and Tracks; WritePacket is now valid.
	StateHeaderWritten
	// StateClustering: at least one packet has been buffered into the
	// open Cluster.
	StateClustering
	// StateClosed: WriteTrailer has flushed the final Cluster.
	StateClosed
)

// clusterSizeLimit bounds how large a Cluster's accumulated frame bytes
// may grow before WritePacket forces a new one, even absent a keyframe
// (§4.7). 5 MiB matches the libwebm/libmatroska muxer convention this
// design follows.
const clusterSizeLimit = 5 * 1024 * 1024

// MuxerParams configures a Muxer's ambient strings (§4.7).
type MuxerParams struct {
	MuxingApp  string
	WritingApp string
}

// Muxer writes a Matroska Segment in a single forward pass: every
// element's size is known (via EbmlSize.Capacity) before its bytes are
// emitted, so the Segment itself is opened with the reserved
// unknown-size marker and nothing downstream of the header is ever
// rewritten (§4.7, §6.1's EbmlSize interface).
type Muxer struct {
	state  MuxerState
	params MuxerParams

	info   *Info
	tracks *Tracks

	cluster        *Cluster
	clusterBytes   int
	lastTimestamp  int64
	haveTimestamp  bool
}

// NewMuxer constructs a Muxer in StateConfigured.
func NewMuxer(params MuxerParams) *Muxer {
	return &Muxer{state: StateConfigured, params: params}
}

// SetGlobalInfo translates duration and streams into the segment-wide
// Info and Tracks WriteHeader will carry (§4.7): each Stream becomes a
// TrackEntry (track_uid <- stream.id, track_number <- stream.index,
// CodecID mapped back through the §6 codec table, plus a kind-
// appropriate Video/Audio subrecord), and Info gets TimestampScale fixed
// at 1,000,000 and the configured MuxingApp/WritingApp. It must be
// called exactly once, before WriteHeader.
func (m *Muxer) SetGlobalInfo(duration float64, hasDuration bool, streams []Stream) error {
	if m.state != StateConfigured {
		return &Error{Kind: KindNom, msg: "SetGlobalInfo called outside Configured state"}
	}

	entries := make([]*TrackEntry, 0, len(streams))
	for _, s := range streams {
		entries = append(entries, streamToTrackEntry(s))
	}

	m.info = &Info{
		TimestampScale: 1_000_000,
		Duration:       duration,
		HasDuration:    hasDuration,
		MuxingApp:      m.params.MuxingApp,
		WritingApp:     m.params.WritingApp,
	}
	m.tracks = &Tracks{Entries: entries}
	return nil
}

// streamToTrackEntry is SetGlobalInfo's per-stream half of the
// Stream/TrackEntry translation streamsFromTracks performs in the
// other direction. RawCodecID is preferred over re-deriving a string
// from Codec so a stream built from an unrecognized CodecID keeps its
// original wire string instead of collapsing to "" (§6's resolution:
// preserve the raw ID rather than fail or substitute a sentinel).
func streamToTrackEntry(s Stream) *TrackEntry {
	t := &TrackEntry{
		Number:         uint64(s.Index),
		UID:            s.ID,
		FlagEnabled:    1,
		FlagDefault:    1,
		FlagLacing:     1,
		TrackTimescale: 1.0,
		Language:       "eng",
		CodecID:        s.RawCodecID,
		CodecPrivate:   s.Extradata,
		CodecDelay:     s.Delay,
		SeekPreRoll:    s.ConvergenceWindow,
	}
	if t.CodecID == "" {
		t.CodecID = s.Codec.CodecID()
	}

	switch s.Kind {
	case StreamVideo:
		t.Type = TrackTypeVideo
		t.Video = &Video{FieldOrder: 2}
	case StreamAudio:
		t.Type = TrackTypeAudio
		t.Audio = &Audio{SamplingFrequency: 8000.0}
	default:
		t.Type = TrackTypeOther
	}
	return t
}

// WriteHeader returns the complete EBMLHeader, an open (unknown-size)
// Segment header, a SeekHead pointing at Info and Tracks, and the Info
// and Tracks elements themselves. Every position the SeekHead reports is
// computed from Capacity() alone, before any bytes downstream of it are
// produced, so no back-patching pass is required (§4.7).
func (m *Muxer) WriteHeader() ([]byte, error) {
	if m.state != StateConfigured {
		return nil, &Error{Kind: KindNom, msg: "WriteHeader called outside Configured state"}
	}
	if m.info == nil || m.tracks == nil {
		return nil, &Error{Kind: KindMissingElement, msg: "SetGlobalInfo not called"}
	}

	ebmlHeader := &EBMLHeader{
		Version:            1,
		ReadVersion:        1,
		MaxIDLength:        4,
		MaxSizeLength:      8,
		DocType:            "matroska",
		DocTypeVersion:     4,
		DocTypeReadVersion: 2,
	}

	seekHead := &SeekHead{Entries: []Seek{
		{ID: idAs4Bytes(IDSegmentInfo), Position: 0}, // placeholder, filled below
		{ID: idAs4Bytes(IDTracks), Position: 0},
	}}

	infoSize := elementSize(IDSegmentInfo, m.info.Capacity())

	// Filling in a position can widen its SeekPosition field and so grow
	// the SeekHead itself; repeat until the size no longer changes.
	seekHeadSize := 0
	for {
		size := elementSize(IDSeekHead, seekHead.Capacity())
		if size == seekHeadSize {
			break
		}
		seekHeadSize = size
		seekHead.Entries[0].Position = uint64(seekHeadSize)
		seekHead.Entries[1].Position = uint64(seekHeadSize + infoSize)
	}

	var out []byte
	out = append(out, ebmlHeader.Marshal()...)
	out = append(out, writeID(IDSegment)...)
	out = append(out, writeVint(unknownSizeMarker(8))...)
	out = append(out, seekHead.Marshal()...)
	out = append(out, m.info.Marshal()...)
	out = append(out, m.tracks.Marshal()...)

	m.state = StateHeaderWritten
	return out, nil
}

// unknownSizeMarker returns the reserved all-ones VINT value for a size
// field of the given byte width (writeVint encodes it verbatim since it
// is itself the narrowest representation of that all-ones value only
// when width==8; callers always pass 8 for a Segment/Cluster left open).
func unknownSizeMarker(width int) uint64 {
	return (uint64(1) << (7 * uint(width))) - 1
}

// idAs4Bytes renders a canonical 4-byte-wide element ID as a big-endian
// array, as SeekID requires regardless of the referenced element's own
// natural ID width.
func idAs4Bytes(id uint32) [4]byte {
	return [4]byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
}

// WritePacket buffers one Packet into the open Cluster, starting a new
// Cluster (flushing the previous one as the return value) when: this is
// the first packet, the packet is a keyframe (on any track), adding the
// packet would push the current Cluster's frame data past
// clusterSizeLimit bytes, or its timestamp does not fit the current
// Cluster's i16 relative range (§4.7). The returned slice is empty when
// the packet was absorbed into the still-open Cluster.
func (m *Muxer) WritePacket(p Packet) ([]byte, error) {
	if m.state != StateHeaderWritten && m.state != StateClustering {
		return nil, &Error{Kind: KindNom, msg: "WritePacket called outside HeaderWritten/Clustering state"}
	}

	var flushed []byte
	startNew := m.cluster == nil ||
		p.Keyframe ||
		m.clusterBytes+len(p.Data) > clusterSizeLimit

	if startNew && m.cluster != nil {
		flushed = m.cluster.Marshal()
		m.cluster = nil
		m.clusterBytes = 0
	}

	if m.cluster == nil {
		m.cluster = &Cluster{Timestamp: uint64(p.Timestamp)}
	}

	rel := p.Timestamp - int64(m.cluster.Timestamp)
	if rel < -32768 || rel > 32767 {
		// Forced new Cluster: the relative timestamp would not fit the
		// i16 field (§4.7's bound on Block.Timestamp).
		if m.cluster != nil && len(flushed) == 0 {
			flushed = m.cluster.Marshal()
		}
		m.cluster = &Cluster{Timestamp: uint64(p.Timestamp)}
		m.clusterBytes = 0
		rel = 0
	}

	sb := &SimpleBlock{Block: Block{
		TrackNumber: p.TrackNumber,
		Timestamp:   int16(rel),
		Keyframe:    p.Keyframe,
		Discardable: p.Discardable,
		Frames:      [][]byte{p.Data},
	}}
	m.cluster.SimpleBlocks = append(m.cluster.SimpleBlocks, sb)
	m.clusterBytes += len(p.Data)
	m.lastTimestamp = p.Timestamp
	m.haveTimestamp = true
	m.state = StateClustering

	return flushed, nil
}

// WriteTrailer flushes any still-open Cluster and transitions to
// StateClosed. Matroska has no end-of-stream marker beyond simply ending
// the Segment's unknown-size element, so the returned bytes are the
// final Cluster or nil if none was pending.
func (m *Muxer) WriteTrailer() ([]byte, error) {
	if m.state != StateHeaderWritten && m.state != StateClustering {
		return nil, &Error{Kind: KindNom, msg: "WriteTrailer called outside HeaderWritten/Clustering state"}
	}
	var out []byte
	if m.cluster != nil {
		out = m.cluster.Marshal()
		m.cluster = nil
	}
	m.state = StateClosed
	return out, nil
}
