package matroska

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMinimalStream(t *testing.T, clusters ...*Cluster) []byte {
	t.Helper()
	header := (&EBMLHeader{DocType: "matroska"}).Marshal()

	info := (&Info{MuxingApp: "goebml", WritingApp: "goebml"}).Marshal()
	tracks := (&Tracks{Entries: []*TrackEntry{
		{Number: 1, UID: 1, Type: TrackTypeAudio, Language: "eng", CodecID: "A_OPUS",
			Audio: &Audio{SamplingFrequency: 48000, Channels: 2}},
	}}).Marshal()

	var body []byte
	body = append(body, info...)
	body = append(body, tracks...)
	for _, c := range clusters {
		body = append(body, c.Marshal()...)
	}

	segment := writeHeader(IDSegment, len(body))
	segment = append(segment, body...)

	var out []byte
	out = append(out, header...)
	out = append(out, segment...)
	return out
}

func TestDemuxerReadHeadersResumable(t *testing.T) {
	full := buildMinimalStream(t)
	d := NewDemuxer(DemuxerParams{})

	// Feed only the first few bytes: not even the EBML header fits.
	_, err := d.ReadHeaders(full[:2])
	require.Error(t, err)
	_, ok := err.(*MoreDataNeeded)
	require.True(t, ok)
	assert.Equal(t, StateReadHeaders, d.State())

	// Feed everything but the last byte, so Tracks is incomplete.
	partial := full[:len(full)-1]
	_, err = d.ReadHeaders(partial)
	require.Error(t, err)
	_, ok = err.(*MoreDataNeeded)
	require.True(t, ok)
	assert.Equal(t, StateReadHeaders, d.State())

	global, err := d.ReadHeaders(full)
	require.NoError(t, err)
	require.NotNil(t, global)
	assert.Equal(t, StateStreaming, d.State())
	require.Len(t, global.Tracks.Entries, 1)
	assert.Equal(t, "A_OPUS", global.Tracks.Entries[0].CodecID)
}

func TestDemuxerNextPacketAcrossClusters(t *testing.T) {
	c1 := &Cluster{Timestamp: 0, SimpleBlocks: []*SimpleBlock{
		{Block: Block{TrackNumber: 1, Timestamp: 0, Keyframe: true, Frames: [][]byte{{1, 2}}}},
	}}
	c2 := &Cluster{Timestamp: 1000, SimpleBlocks: []*SimpleBlock{
		{Block: Block{TrackNumber: 1, Timestamp: 10, Frames: [][]byte{{3, 4}}}},
	}}
	full := buildMinimalStream(t, c1, c2)

	d := NewDemuxer(DemuxerParams{})
	_, err := d.ReadHeaders(full)
	require.NoError(t, err)

	p1, err := d.NextPacket(full[d.Consumed():])
	require.NoError(t, err)
	require.NotNil(t, p1)
	assert.Equal(t, int64(0), p1.Timestamp)
	assert.True(t, p1.Keyframe)

	p2, err := d.NextPacket(full[d.Consumed():])
	require.NoError(t, err)
	require.NotNil(t, p2)
	assert.Equal(t, int64(1010), p2.Timestamp)

	p3, err := d.NextPacket(full[d.Consumed():])
	require.NoError(t, err)
	assert.Nil(t, p3)
	assert.Equal(t, StateEof, d.State())
}

func TestDemuxerNextPacketMoreDataNeeded(t *testing.T) {
	c1 := &Cluster{Timestamp: 0, SimpleBlocks: []*SimpleBlock{
		{Block: Block{TrackNumber: 1, Timestamp: 0, Keyframe: true, Frames: [][]byte{{1, 2, 3, 4}}}},
	}}
	full := buildMinimalStream(t, c1)
	d := NewDemuxer(DemuxerParams{})
	_, err := d.ReadHeaders(full)
	require.NoError(t, err)

	truncated := full[d.Consumed() : len(full)-1]
	_, err = d.NextPacket(truncated)
	require.Error(t, err)
	_, ok := err.(*MoreDataNeeded)
	require.True(t, ok)

	p, err := d.NextPacket(full[d.Consumed():])
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, []byte{1, 2, 3, 4}, p.Data)
}

func TestDemuxerTrackFilter(t *testing.T) {
	c1 := &Cluster{Timestamp: 0, SimpleBlocks: []*SimpleBlock{
		{Block: Block{TrackNumber: 1, Timestamp: 0, Frames: [][]byte{{1}}}},
		{Block: Block{TrackNumber: 2, Timestamp: 0, Frames: [][]byte{{2}}}},
	}}
	full := buildMinimalStream(t, c1)
	d := NewDemuxer(DemuxerParams{TrackNumbers: map[uint64]bool{2: true}})
	_, err := d.ReadHeaders(full)
	require.NoError(t, err)

	p, err := d.NextPacket(full[d.Consumed():])
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, uint64(2), p.TrackNumber)

	p, err = d.NextPacket(full[d.Consumed():])
	require.NoError(t, err)
	assert.Nil(t, p)
}
