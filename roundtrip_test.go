package matroska

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMuxDemuxRoundTrip drives a Muxer end to end and feeds its output
// straight into a Demuxer, the way example/remuxer wires the two engines
// together: no intermediate file, no teacher-era whole-file parsing.
func TestMuxDemuxRoundTrip(t *testing.T) {
	mux := NewMuxer(MuxerParams{MuxingApp: "goebml", WritingApp: "goebml"})
	streams := []Stream{
		{ID: 1, Index: 1, Timebase: 1.0 / 1_000_000, RawCodecID: "V_VP9", Kind: StreamVideo},
		{ID: 2, Index: 2, Timebase: 1.0 / 1_000_000, RawCodecID: "A_OPUS", Kind: StreamAudio},
	}
	require.NoError(t, mux.SetGlobalInfo(0, false, streams))

	var out []byte
	header, err := mux.WriteHeader()
	require.NoError(t, err)
	out = append(out, header...)

	packets := []Packet{
		{TrackNumber: 1, Timestamp: 0, Keyframe: true, Data: []byte("video-key-0")},
		{TrackNumber: 2, Timestamp: 5, Data: []byte("audio-0")},
		{TrackNumber: 1, Timestamp: 33, Data: []byte("video-delta-33")},
		{TrackNumber: 2, Timestamp: 38, Data: []byte("audio-1")},
		{TrackNumber: 1, Timestamp: 66, Keyframe: true, Data: []byte("video-key-66")},
		{TrackNumber: 2, Timestamp: 71, Data: []byte("audio-2")},
	}
	for _, p := range packets {
		flushed, err := mux.WritePacket(p)
		require.NoError(t, err)
		out = append(out, flushed...)
	}
	trailer, err := mux.WriteTrailer()
	require.NoError(t, err)
	out = append(out, trailer...)

	demux := NewDemuxer(DemuxerParams{})
	global, err := demux.ReadHeaders(out)
	require.NoError(t, err)
	assert.Equal(t, "goebml", global.Info.MuxingApp)
	require.Len(t, global.Tracks.Entries, 2)
	require.Len(t, global.Streams, 2)
	assert.Equal(t, StreamVideo, global.Streams[0].Kind)
	assert.Equal(t, StreamAudio, global.Streams[1].Kind)

	var got []Packet
	for {
		p, err := demux.NextPacket(out[demux.Consumed():])
		require.NoError(t, err)
		if p == nil {
			break
		}
		got = append(got, *p)
	}

	require.Len(t, got, len(packets))
	for i, want := range packets {
		assert.Equal(t, want.TrackNumber, got[i].TrackNumber)
		assert.Equal(t, want.Timestamp, got[i].Timestamp)
		assert.Equal(t, want.Data, got[i].Data)
		if want.Keyframe {
			assert.True(t, got[i].Keyframe)
		}
	}
	assert.Equal(t, StateEof, demux.State())
}

// TestMuxDemuxRoundTripForcesNewClusterOnSizeLimit exercises the 5 MiB
// cluster-size flush path end to end, not just at the Muxer's boundary.
func TestMuxDemuxRoundTripForcesNewClusterOnSizeLimit(t *testing.T) {
	mux := NewMuxer(MuxerParams{MuxingApp: "goebml", WritingApp: "goebml"})
	streams := []Stream{
		{ID: 1, Index: 1, Timebase: 1.0 / 1_000_000, RawCodecID: "V_VP9", Kind: StreamVideo},
	}
	require.NoError(t, mux.SetGlobalInfo(0, false, streams))

	var out []byte
	header, err := mux.WriteHeader()
	require.NoError(t, err)
	out = append(out, header...)

	big := make([]byte, clusterSizeLimit-10)
	flushed, err := mux.WritePacket(Packet{TrackNumber: 1, Timestamp: 0, Keyframe: true, Data: big})
	require.NoError(t, err)
	out = append(out, flushed...)

	small := make([]byte, 20)
	flushed, err = mux.WritePacket(Packet{TrackNumber: 1, Timestamp: 1, Data: small})
	require.NoError(t, err)
	require.NotEmpty(t, flushed, "second packet should overflow the 5 MiB cluster and flush the first one immediately")
	out = append(out, flushed...)

	trailer, err := mux.WriteTrailer()
	require.NoError(t, err)
	out = append(out, trailer...)

	demux := NewDemuxer(DemuxerParams{})
	_, err = demux.ReadHeaders(out)
	require.NoError(t, err)

	p1, err := demux.NextPacket(out[demux.Consumed():])
	require.NoError(t, err)
	require.NotNil(t, p1)
	assert.Equal(t, len(big), len(p1.Data))

	p2, err := demux.NextPacket(out[demux.Consumed():])
	require.NoError(t, err)
	require.NotNil(t, p2)
	assert.Equal(t, small, p2.Data)

	p3, err := demux.NextPacket(out[demux.Consumed():])
	require.NoError(t, err)
	assert.Nil(t, p3)
}
