package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"ttml", FormatTTML},
		{"XML", FormatTTML},
		{" lrc ", FormatLRC},
		{"text", FormatTXT},
		{"markdown", FormatMARKDOWN},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("srt")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	f, ok := FormatFromPath("dir/song.LRC")
	assert.True(t, ok)
	assert.Equal(t, FormatLRC, f)

	_, ok = FormatFromPath("song")
	assert.False(t, ok)
	_, ok = FormatFromPath("song.srt")
	assert.False(t, ok)

	assert.True(t, FormatMARKDOWN.CanWrite())
	assert.False(t, FormatLRC.CanWrite())
	assert.Equal(t, ".ttml", FormatTTML.Extension())
}
