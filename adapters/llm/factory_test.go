package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_KnownProviders(t *testing.T) {
	for _, provider := range []string{"openai", "gemini"} {
		t.Run(provider, func(t *testing.T) {
			completer, err := New(provider, "some-model", 0.7)
			require.NoError(t, err)
			assert.NotNil(t, completer)
		})
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New("cohere", "some-model", 0.7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cohere")
}
