package matroska

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterRoundTrip(t *testing.T) {
	c := &Cluster{
		Timestamp:   1000,
		HasPosition: true,
		Position:    4096,
		SimpleBlocks: []*SimpleBlock{
			{Block: Block{TrackNumber: 1, Timestamp: 0, Keyframe: true, Frames: [][]byte{{1, 2, 3}}}},
		},
		BlockGroups: []*BlockGroup{
			{Block: Block{TrackNumber: 2, Timestamp: 40, Frames: [][]byte{{9, 9}}}, Duration: 20, HasDuration: true},
		},
	}
	encoded := c.Marshal()
	assert.Equal(t, elementSize(IDCluster, c.Capacity()), len(encoded))

	hdr, err := readHeader(encoded)
	require.NoError(t, err)
	got, err := ParseCluster(encoded[hdr.HeaderLen:])
	require.NoError(t, err)
	assert.Equal(t, c.Timestamp, got.Timestamp)
	assert.True(t, got.HasPosition)
	assert.Equal(t, c.Position, got.Position)
	require.Len(t, got.SimpleBlocks, 1)
	assert.Equal(t, uint64(1), got.SimpleBlocks[0].TrackNumber)
	require.Len(t, got.BlockGroups, 1)
	assert.Equal(t, uint64(20), got.BlockGroups[0].Duration)
}

func TestClusterRequiresTimestamp(t *testing.T) {
	_, err := ParseCluster(nil)
	require.Error(t, err)
	assert.True(t, errIsKind(err, KindMissingElement))
}

func TestClusterToleratesNoBlocks(t *testing.T) {
	c := &Cluster{Timestamp: 500}
	encoded := c.Marshal()
	hdr, err := readHeader(encoded)
	require.NoError(t, err)
	got, err := ParseCluster(encoded[hdr.HeaderLen:])
	require.NoError(t, err)
	assert.Equal(t, uint64(500), got.Timestamp)
	assert.Empty(t, got.SimpleBlocks)
	assert.Empty(t, got.BlockGroups)
}
