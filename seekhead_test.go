package matroska

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeekHeadRoundTrip(t *testing.T) {
	sh := &SeekHead{Entries: []Seek{
		{ID: idAs4Bytes(IDSegmentInfo), Position: 48},
		{ID: idAs4Bytes(IDTracks), Position: 200},
	}}
	encoded := sh.Marshal()
	assert.Equal(t, elementSize(IDSeekHead, sh.Capacity()), len(encoded))

	hdr, err := readHeader(encoded)
	require.NoError(t, err)
	payload, err := stripCRC(hdr.ID, encoded[hdr.HeaderLen:])
	require.NoError(t, err)

	got, err := ParseSeekHead(payload)
	require.NoError(t, err)
	assert.Equal(t, sh, got)
}

func TestSeekHeadRequiresAtLeastOneEntry(t *testing.T) {
	_, err := ParseSeekHead(nil)
	require.Error(t, err)
	assert.True(t, errIsKind(err, KindMissingElement))
}
