package dnswire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeRefusal(t *testing.T) {
	b, err := SynthesizeRefusal(0xBEEF, 5)
	require.NoError(t, err)
	require.Len(t, b, HeaderSize)

	h, err := ParseHeader(b)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), h.ID)
	assert.True(t, h.IsResponse())
	assert.Equal(t, uint16(5), h.RCode())
	assert.Equal(t, uint16(0x8005), h.Flags)
	assert.Equal(t, uint16(0), h.QDCount)
	assert.Equal(t, uint16(0), h.ANCount)
	assert.Equal(t, uint16(0), h.NSCount)
	assert.Equal(t, uint16(0), h.ARCount)
}

func TestSynthesizeRefusalRejectsOutOfRangeCode(t *testing.T) {
	_, err := SynthesizeRefusal(1, 0)
	require.ErrorIs(t, err, ErrMalformed)
}
