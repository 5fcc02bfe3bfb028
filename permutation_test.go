package matroska

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildElement(id uint32, payload []byte) []byte {
	return append(writeHeader(id, len(payload)), payload...)
}

func TestPermuteFieldOrderIndependence(t *testing.T) {
	var a, b uint64
	fields := func() []*fieldSpec {
		return []*fieldSpec{
			{id: 0x80, name: "A", required: true, parse: func(d []byte) error {
				v, err := decodeUint(0x80, d)
				a = v
				return err
			}},
			{id: 0x81, name: "B", required: true, parse: func(d []byte) error {
				v, err := decodeUint(0x81, d)
				b = v
				return err
			}},
		}
	}

	forward := append(buildElement(0x80, encodeUint(1)), buildElement(0x81, encodeUint(2))...)
	a, b = 0, 0
	require.NoError(t, permute(forward, fields()))
	assert.Equal(t, uint64(1), a)
	assert.Equal(t, uint64(2), b)

	reversed := append(buildElement(0x81, encodeUint(2)), buildElement(0x80, encodeUint(1))...)
	a, b = 0, 0
	require.NoError(t, permute(reversed, fields()))
	assert.Equal(t, uint64(1), a)
	assert.Equal(t, uint64(2), b)
}

func TestPermuteToleratesInterleavedVoid(t *testing.T) {
	var seen uint64
	fields := []*fieldSpec{
		{id: 0x80, name: "A", required: true, parse: func(d []byte) error {
			v, err := decodeUint(0x80, d)
			seen = v
			return err
		}},
	}
	body := append(buildElement(IDVoid, make([]byte, 3)), buildElement(0x80, encodeUint(7))...)
	body = append(body, buildElement(IDVoid, make([]byte, 2))...)
	require.NoError(t, permute(body, fields))
	assert.Equal(t, uint64(7), seen)
}

func TestPermuteSkipsUnknownElements(t *testing.T) {
	var seen uint64
	fields := []*fieldSpec{
		{id: 0x80, name: "A", required: true, parse: func(d []byte) error {
			v, err := decodeUint(0x80, d)
			seen = v
			return err
		}},
	}
	body := append(buildElement(0x4999, []byte{1, 2, 3}), buildElement(0x80, encodeUint(5))...)
	require.NoError(t, permute(body, fields))
	assert.Equal(t, uint64(5), seen)
}

func TestPermuteMissingRequiredField(t *testing.T) {
	fields := []*fieldSpec{
		{id: 0x80, name: "A", required: true, parse: func(d []byte) error { return nil }},
	}
	err := permute(nil, fields)
	require.Error(t, err)
	assert.True(t, errIsKind(err, KindMissingElement))
}

func TestPermuteMultiFieldRepeats(t *testing.T) {
	var values []uint64
	fields := []*fieldSpec{
		{id: 0x80, name: "A", multi: true, parse: func(d []byte) error {
			v, err := decodeUint(0x80, d)
			values = append(values, v)
			return err
		}},
	}
	body := append(buildElement(0x80, encodeUint(1)), buildElement(0x80, encodeUint(2))...)
	body = append(body, buildElement(0x80, encodeUint(3))...)
	require.NoError(t, permute(body, fields))
	assert.Equal(t, []uint64{1, 2, 3}, values)
}
