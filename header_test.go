package matroska

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEBMLHeaderRoundTrip(t *testing.T) {
	h := &EBMLHeader{
		Version:            1,
		ReadVersion:        1,
		MaxIDLength:        4,
		MaxSizeLength:      8,
		DocType:            "matroska",
		DocTypeVersion:     4,
		DocTypeReadVersion: 2,
	}
	encoded := h.Marshal()
	assert.Equal(t, elementSize(IDEBMLHeader, h.Capacity()), len(encoded))

	hdr, err := readHeader(encoded)
	require.NoError(t, err)
	payload, err := stripCRC(hdr.ID, encoded[hdr.HeaderLen:])
	require.NoError(t, err)

	got, err := ParseEBMLHeader(payload)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestEBMLHeaderDefaults(t *testing.T) {
	payload := buildElement(IDEBMLDocType, []byte("webm"))
	h, err := ParseEBMLHeader(payload)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), h.Version)
	assert.Equal(t, uint64(4), h.MaxIDLength)
	assert.Equal(t, uint64(8), h.MaxSizeLength)
	assert.Equal(t, "webm", h.DocType)
}

func TestEBMLHeaderMissingDocType(t *testing.T) {
	_, err := ParseEBMLHeader(nil)
	require.Error(t, err)
	assert.True(t, errIsKind(err, KindMissingElement))
}
