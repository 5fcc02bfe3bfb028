package matroska

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVintWidth(t *testing.T) {
	assert.Equal(t, 1, vintWidth(0))
	assert.Equal(t, 1, vintWidth(126))
	assert.Equal(t, 2, vintWidth(127))
	assert.Equal(t, 2, vintWidth((1<<14)-2))
	assert.Equal(t, 3, vintWidth((1<<14)-1))
}

func TestIDWidth(t *testing.T) {
	assert.Equal(t, 1, idWidth(IDVoid))
	assert.Equal(t, 2, idWidth(IDEBMLVersion))
	assert.Equal(t, 4, idWidth(IDSegment))
}

func TestElementSizeMatchesEncodedLength(t *testing.T) {
	capacity := 130
	predicted := elementSize(IDSegmentInfo, capacity)
	encoded := writeHeader(IDSegmentInfo, capacity)
	assert.Equal(t, predicted, len(encoded)+capacity)
}
