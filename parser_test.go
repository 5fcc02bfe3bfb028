package matroska

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatroskaParser(t *testing.T) {
	mock := buildMockMatroskaFile(t)
	parser, err := NewMatroskaParser(bytes.NewReader(mock), false)
	require.NoError(t, err)

	require.NotNil(t, parser.global)
	require.NotNil(t, parser.fileInfo)
	assert.Equal(t, "Test Title", parser.fileInfo.Title)
	assert.NotEmpty(t, parser.tracks)
	assert.Equal(t, uint64(len(mock)), parser.segmentTopPos)
}

func TestMatroskaParserGetters(t *testing.T) {
	mock := buildMockMatroskaFile(t)
	parser, err := NewMatroskaParser(bytes.NewReader(mock), false)
	require.NoError(t, err)

	assert.Equal(t, uint(1), parser.GetNumTracks())
	info := parser.GetTrackInfo(0)
	require.NotNil(t, info)
	assert.Equal(t, "V_TEST", info.CodecID)
	assert.Nil(t, parser.GetTrackInfo(1))

	assert.Nil(t, parser.GetAttachments())
	assert.Nil(t, parser.GetChapters())
	assert.Nil(t, parser.GetTags())
	assert.Nil(t, parser.GetCues())
	assert.Equal(t, uint64(0), parser.GetCuesPos())
	assert.Equal(t, uint64(0), parser.GetCuesTopPos())
	assert.Greater(t, parser.GetSegmentTop(), parser.GetSegment())
}

func TestMatroskaParserReadPacketReachesEOF(t *testing.T) {
	mock := buildMockMatroskaFile(t)
	parser, err := NewMatroskaParser(bytes.NewReader(mock), false)
	require.NoError(t, err)

	packet, err := parser.ReadPacket()
	require.NoError(t, err)
	require.NotNil(t, packet)
	assert.Equal(t, "frame", string(packet.Data))

	_, err = parser.ReadPacket()
	assert.Equal(t, io.EOF, err)
}
