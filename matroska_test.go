package matroska

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMockMatroskaFile assembles a minimal but complete Matroska stream
// (EBMLHeader, Segment{Info,Tracks,Cluster}) by driving the schema types'
// own Marshal methods, the way a caller would build one from scratch.
func buildMockMatroskaFile(t *testing.T) []byte {
	t.Helper()
	header := (&EBMLHeader{DocType: "matroska"}).Marshal()

	info := (&Info{Title: "Test Title"}).Marshal()
	tracks := (&Tracks{Entries: []*TrackEntry{
		{Number: 1, UID: 1, Type: TrackTypeVideo, Name: "TestVideo", Language: "und", CodecID: "V_TEST",
			Video: &Video{PixelWidth: 320, PixelHeight: 240}},
	}}).Marshal()
	cluster := (&Cluster{Timestamp: 0, SimpleBlocks: []*SimpleBlock{
		{Block: Block{TrackNumber: 1, Timestamp: 0, Keyframe: true, Frames: [][]byte{[]byte("frame")}}},
	}}).Marshal()

	var body []byte
	body = append(body, info...)
	body = append(body, tracks...)
	body = append(body, cluster...)
	segment := writeHeader(IDSegment, len(body))
	segment = append(segment, body...)

	var out []byte
	out = append(out, header...)
	out = append(out, segment...)
	return out
}

func TestFileDemuxer(t *testing.T) {
	mock := buildMockMatroskaFile(t)
	demuxer, err := NewFileDemuxer(bytes.NewReader(mock))
	require.NoError(t, err)
	defer demuxer.Close()

	fileInfo, err := demuxer.GetFileInfo()
	require.NoError(t, err)
	require.NotNil(t, fileInfo)
	assert.Equal(t, "Test Title", fileInfo.Title)

	numTracks, err := demuxer.GetNumTracks()
	require.NoError(t, err)
	require.Equal(t, uint(1), numTracks)

	trackInfo, err := demuxer.GetTrackInfo(0)
	require.NoError(t, err)
	require.NotNil(t, trackInfo)
	assert.Equal(t, "V_TEST", trackInfo.CodecID)

	packet, err := demuxer.ReadPacket()
	require.NoError(t, err)
	require.NotNil(t, packet)
	assert.Equal(t, uint8(1), packet.Track)
	assert.Equal(t, "frame", string(packet.Data))
	assert.NotEqual(t, uint32(0), packet.Flags&KF)

	_, err = demuxer.ReadPacket()
	assert.Equal(t, io.EOF, err)
}

func TestStreamingFileDemuxer(t *testing.T) {
	mock := buildMockMatroskaFile(t)
	demuxer, err := NewStreamingFileDemuxer(bytes.NewReader(mock))
	require.NoError(t, err)
	defer demuxer.Close()

	fileInfo, err := demuxer.GetFileInfo()
	require.NoError(t, err)
	assert.Equal(t, "Test Title", fileInfo.Title)

	numTracks, err := demuxer.GetNumTracks()
	require.NoError(t, err)
	assert.Equal(t, uint(1), numTracks)

	packet, err := demuxer.ReadPacket()
	require.NoError(t, err)
	require.NotNil(t, packet)
	assert.Equal(t, uint8(1), packet.Track)
	assert.Equal(t, "frame", string(packet.Data))
}
