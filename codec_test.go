package matroska

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodecFromIDKnown(t *testing.T) {
	cases := map[string]Codec{
		"A_OPUS":   CodecOpus,
		"A_VORBIS": CodecVorbis,
		"V_AV1":    CodecAV1,
		"V_VP8":    CodecVP8,
		"V_VP9":    CodecVP9,
	}
	for id, want := range cases {
		assert.Equal(t, want, CodecFromID(id))
		assert.Equal(t, id, want.CodecID())
	}
}

func TestCodecFromIDUnknown(t *testing.T) {
	assert.Equal(t, CodecUnknown, CodecFromID("V_MPEG4/ISO/AVC"))
	assert.Equal(t, "unknown", CodecUnknown.String())
	assert.Equal(t, "", CodecUnknown.CodecID())
}

func TestCodecString(t *testing.T) {
	assert.Equal(t, "opus", CodecOpus.String())
	assert.Equal(t, "vp9", CodecVP9.String())
}
