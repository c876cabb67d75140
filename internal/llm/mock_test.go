package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segcraft/internal/schema"
)

func TestMockFixtureSelection(t *testing.T) {
	tests := []struct {
		formatID     string
		wantFixture  string
		wantFormatID string
	}{
		{FormatYaDirectText, mockFixtureYaDirect, "yadirect_text"},
		{"tg_post", mockFixtureDefault, "tg_post"},
		{"vk_ad", mockFixtureDefault, "tg_post"},
		{"", mockFixtureDefault, "tg_post"},
	}

	for _, tt := range tests {
		t.Run("format_"+tt.formatID, func(t *testing.T) {
			assert.Equal(t, tt.wantFixture, mockFixtureFor(tt.formatID))

			bundle, err := LoadMockBundle("../../samples", tt.formatID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormatID, bundle.InputEcho.FormatID)
		})
	}
}

func TestMockBundlesAreValid(t *testing.T) {
	for _, formatID := range []string{FormatYaDirectText, "tg_post"} {
		bundle, err := LoadMockBundle("../../samples", formatID)
		require.NoError(t, err)
		assert.Empty(t, schema.Validate(bundle), "fixture for %s must be schema-valid", formatID)

		// Char counts are recomputed on load.
		for _, seg := range bundle.Segments {
			for _, c := range seg.Copies {
				assert.Equal(t, len([]rune(c.Headline)), c.CharCount.Headline)
				assert.Equal(t, len([]rune(c.Body)), c.CharCount.Body)
			}
		}
	}
}

func TestLoadMockBundleMissingDir(t *testing.T) {
	_, err := LoadMockBundle("does/not/exist", FormatYaDirectText)
	assert.Error(t, err)
}
