package matroska

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoRoundTrip(t *testing.T) {
	info := &Info{
		TimestampScale: 1_000_000,
		Duration:       12345.5,
		HasDuration:    true,
		DateUTC:        time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC),
		HasDateUTC:     true,
		Title:          "Example",
		MuxingApp:      "goebml",
		WritingApp:     "goebml",
		SegmentUID:     uuid.New(),
		HasSegmentUID:  true,
	}
	encoded := info.Marshal()
	assert.Equal(t, elementSize(IDSegmentInfo, info.Capacity()), len(encoded))

	hdr, err := readHeader(encoded)
	require.NoError(t, err)
	payload, err := stripCRC(hdr.ID, encoded[hdr.HeaderLen:])
	require.NoError(t, err)

	got, err := ParseInfo(payload)
	require.NoError(t, err)
	assert.Equal(t, info.TimestampScale, got.TimestampScale)
	assert.Equal(t, info.Duration, got.Duration)
	assert.True(t, got.HasDuration)
	assert.True(t, info.DateUTC.Equal(got.DateUTC))
	assert.Equal(t, info.Title, got.Title)
	assert.Equal(t, info.SegmentUID, got.SegmentUID)
}

func TestInfoDefaultTimestampScale(t *testing.T) {
	info := &Info{MuxingApp: "a", WritingApp: "b"}
	encoded := info.Marshal()
	hdr, err := readHeader(encoded)
	require.NoError(t, err)
	payload, err := stripCRC(hdr.ID, encoded[hdr.HeaderLen:])
	require.NoError(t, err)

	got, err := ParseInfo(payload)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), got.TimestampScale)
}

func TestInfoRequiresMuxingAndWritingApp(t *testing.T) {
	_, err := ParseInfo(nil)
	require.Error(t, err)
	assert.True(t, errIsKind(err, KindMissingElement))
}
