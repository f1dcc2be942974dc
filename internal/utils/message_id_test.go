package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMessageID_Format(t *testing.T) {
	id := GenerateMessageID("example.com", "")

	require.True(t, strings.HasPrefix(id, "<"))
	require.True(t, strings.HasSuffix(id, "@example.com>"))
	assert.NotContains(t, id, " ")
}

func TestGenerateMessageID_MetadataChangesLocalPart(t *testing.T) {
	plain := GenerateMessageID("example.com", "")
	withMetadata := GenerateMessageID("example.com", "thread-42")

	plainDots := strings.Count(plain, ".")
	metadataDots := strings.Count(withMetadata, ".")
	assert.Equal(t, plainDots+1, metadataDots)
}

func TestGenerateMessageID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := GenerateMessageID("example.com", "")
		_, duplicate := seen[id]
		require.False(t, duplicate, "duplicate message id %s", id)
		seen[id] = struct{}{}
	}
}
