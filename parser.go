// Package matroska implements a decoder and encoder for the Matroska and
// WebM media container formats, built on the EBML (Extensible Binary
// Meta Language) binary encoding.
//
// The primary entry point for new code is the incremental Demuxer
// (demuxer.go), which parses from a refillable byte buffer and never
// blocks: every call either makes progress or returns *MoreDataNeeded.
// MatroskaParser is a whole-file convenience layer, kept in the shape of
// the original random-access API, for callers that already hold the
// entire stream in memory or behind an io.ReadSeeker.
package matroska

import (
	"fmt"
	"io"
)

// MatroskaParser parses an entire Matroska/WebM stream up front and
// exposes its metadata and packets through the legacy whole-file API
// shape. Internally it loads the stream into memory and drives the same
// incremental Demuxer, SeekHead, Info, Tracks, and Cluster machinery
// every other entry point in this package uses; it does not duplicate
// any wire-level parsing of its own.
type MatroskaParser struct {
	demux  *Demuxer
	buf    []byte
	global *GlobalInfo

	tracks   []*TrackInfo
	fileInfo *SegmentInfo

	segmentPos    uint64
	segmentTopPos uint64

	avoidSeeks bool
}

// NewMatroskaParser creates a new MatroskaParser for the given
// io.Reader.
//
// avoidSeeks is accepted for API compatibility with the random-access
// parser this type replaces; the implementation always reads the whole
// stream into memory regardless, since the incremental Demuxer
// underneath has no use for random access.
func NewMatroskaParser(r io.Reader, avoidSeeks bool) (*MatroskaParser, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}

	mp := &MatroskaParser{
		demux:      NewDemuxer(DemuxerParams{}),
		buf:        data,
		avoidSeeks: avoidSeeks,
	}

	global, err := mp.demux.ReadHeaders(mp.buf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse headers: %w", err)
	}
	mp.global = global
	mp.fileInfo = segmentInfoFromInfo(global.Info)
	for _, e := range global.Tracks.Entries {
		mp.tracks = append(mp.tracks, trackInfoFromEntry(e))
	}

	mp.segmentPos = uint64(mp.demux.segmentHeaderLen)
	mp.segmentTopPos = uint64(len(data))

	return mp, nil
}

// ReadPacket returns the next packet from the stream, translated into
// the legacy flattened LegacyPacket shape. It returns io.EOF once the
// underlying Demuxer reports StateEof.
func (mp *MatroskaParser) ReadPacket() (*LegacyPacket, error) {
	p, err := mp.demux.NextPacket(mp.buf[mp.demux.Consumed():])
	if err != nil {
		if _, ok := err.(*MoreDataNeeded); ok {
			// The whole stream is already in mp.buf; a MoreDataNeeded here
			// means the stream is truncated.
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if p == nil {
		return nil, io.EOF
	}

	var flags uint32
	if p.Keyframe {
		flags |= KF
	}
	return &LegacyPacket{
		Track:     uint8(p.TrackNumber),
		StartTime: uint64(p.Timestamp),
		EndTime:   uint64(p.Timestamp),
		FilePos:   uint64(mp.demux.Consumed()),
		Data:      p.Data,
		Flags:     flags,
	}, nil
}

// GetNumTracks returns the number of tracks.
func (mp *MatroskaParser) GetNumTracks() uint {
	return uint(len(mp.tracks))
}

// GetTrackInfo returns information about a specific track.
func (mp *MatroskaParser) GetTrackInfo(track uint) *TrackInfo {
	if track >= uint(len(mp.tracks)) {
		return nil
	}
	return mp.tracks[track]
}

// GetFileInfo returns file-level information.
func (mp *MatroskaParser) GetFileInfo() *SegmentInfo {
	return mp.fileInfo
}

// GetAttachments returns all attachments. Attachments are recognized and
// skipped by this codec (§1 Non-goals), so this always returns nil.
func (mp *MatroskaParser) GetAttachments() []*Attachment {
	return nil
}

// GetChapters returns all chapters. Chapters are recognized and skipped
// by this codec, so this always returns nil.
func (mp *MatroskaParser) GetChapters() []*Chapter {
	return nil
}

// GetTags returns all tags. Tags are recognized and skipped by this
// codec, so this always returns nil.
func (mp *MatroskaParser) GetTags() []*Tag {
	return nil
}

// GetCues returns all cues. Cues are recognized and skipped by this
// codec, so this always returns nil.
func (mp *MatroskaParser) GetCues() []*Cue {
	return nil
}

// GetSegment returns the segment position: the byte offset of the first
// byte after the Segment element's own header.
func (mp *MatroskaParser) GetSegment() uint64 {
	return mp.segmentPos
}

// GetSegmentTop returns the position of the next byte after the segment.
func (mp *MatroskaParser) GetSegmentTop() uint64 {
	return mp.segmentTopPos
}

// GetCuesPos returns the position of the cues in the stream. Always 0:
// this codec does not index Cues (§1 Non-goals).
func (mp *MatroskaParser) GetCuesPos() uint64 { return 0 }

// GetCuesTopPos returns the position of the byte after the end of the
// cues. Always 0, for the same reason as GetCuesPos.
func (mp *MatroskaParser) GetCuesTopPos() uint64 { return 0 }
