package matroska

import (
	"fmt"
	"io"
)

// FileDemuxer is a whole-file convenience wrapper around MatroskaParser,
// in the shape of the original random-access Demuxer API. New code
// should prefer the incremental Demuxer (demuxer.go) directly; this type
// exists for callers that already have a complete io.Reader and want the
// GetNumTracks/GetTrackInfo/ReadPacket-style surface.
type FileDemuxer struct {
	parser *MatroskaParser
}

// NewFileDemuxer creates a new FileDemuxer from r, reading the entire
// stream into memory up front.
func NewFileDemuxer(r io.Reader) (*FileDemuxer, error) {
	parser, err := NewMatroskaParser(r, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}
	return &FileDemuxer{parser: parser}, nil
}

// NewStreamingFileDemuxer creates a new FileDemuxer from an io.Reader
// that may not support seeking. Since MatroskaParser always buffers the
// whole stream internally, this is equivalent to NewFileDemuxer; it is
// kept as a distinct entry point for callers that want to document at
// the call site that their source is not seekable.
func NewStreamingFileDemuxer(r io.Reader) (*FileDemuxer, error) {
	parser, err := NewMatroskaParser(r, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create streaming parser: %w", err)
	}
	return &FileDemuxer{parser: parser}, nil
}

// Close closes a demuxer. The pure Go implementation holds no external
// resources once construction has finished, so this is a no-op.
func (d *FileDemuxer) Close() {}

// GetNumTracks delegates to the wrapped MatroskaParser.
func (d *FileDemuxer) GetNumTracks() (uint, error) {
	return d.parser.GetNumTracks(), nil
}

// GetTrackInfo returns track-level information for track, an index below
// GetNumTracks.
func (d *FileDemuxer) GetTrackInfo(track uint) (*TrackInfo, error) {
	trackInfo := d.parser.GetTrackInfo(track)
	if trackInfo == nil {
		return nil, fmt.Errorf("track %d not found", track)
	}
	return trackInfo, nil
}

// GetFileInfo returns the whole-file info parsed from the Segment's Info
// element.
func (d *FileDemuxer) GetFileInfo() (*SegmentInfo, error) {
	fileInfo := d.parser.GetFileInfo()
	if fileInfo == nil {
		return nil, fmt.Errorf("no file info available")
	}
	return fileInfo, nil
}

// GetAttachments, GetChapters, GetTags, and GetCues each delegate to the
// wrapped MatroskaParser; the returned slice may be of length 0.
func (d *FileDemuxer) GetAttachments() []*Attachment { return d.parser.GetAttachments() }
func (d *FileDemuxer) GetChapters() []*Chapter       { return d.parser.GetChapters() }
func (d *FileDemuxer) GetTags() []*Tag               { return d.parser.GetTags() }
func (d *FileDemuxer) GetCues() []*Cue               { return d.parser.GetCues() }

// GetSegment and GetSegmentTop bound the Segment element's body: the
// position of the first byte after the Segment header and the position
// of the byte past its last.
func (d *FileDemuxer) GetSegment() uint64    { return d.parser.GetSegment() }
func (d *FileDemuxer) GetSegmentTop() uint64 { return d.parser.GetSegmentTop() }

// GetCuesPos and GetCuesTopPos always return 0: Cues are skipped on read
// and their position is not recorded.
func (d *FileDemuxer) GetCuesPos() uint64    { return d.parser.GetCuesPos() }
func (d *FileDemuxer) GetCuesTopPos() uint64 { return d.parser.GetCuesTopPos() }

// The incremental Demuxer this facade wraps reads forward only and keeps
// no random-access index (§1 Non-goals exclude Cues-based seeking), so
// Seek, SeekCueAware, SkipToKeyframe, and SetTrackMask are kept as stubs
// for API compatibility with the original random-access surface rather
// than implemented. Flags for Seek/SeekCueAware are 0 (normal seek),
// matroska.SeekToPrevKeyFrame, or matroska.SeekToPrevKeyFrameStrict.

func (d *FileDemuxer) Seek(timecode uint64, flags uint32)                     {}
func (d *FileDemuxer) SeekCueAware(timecode uint64, flags uint32, fuzzy bool) {}
func (d *FileDemuxer) SkipToKeyframe()                                        {}
func (d *FileDemuxer) SetTrackMask(mask uint64)                               {}

// GetLowestQTimecode always returns 0; the timecodes of packets queued
// from the current Cluster are not inspected.
func (d *FileDemuxer) GetLowestQTimecode() uint64 {
	return 0
}

// ReadPacketMask is the same as ReadPacket except with a track mask. The
// mask is currently ignored.
func (d *FileDemuxer) ReadPacketMask(mask uint64) (*LegacyPacket, error) {
	return d.parser.ReadPacket()
}

// ReadPacket returns the next packet from a demuxer.
func (d *FileDemuxer) ReadPacket() (*LegacyPacket, error) {
	return d.parser.ReadPacket()
}
