package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CompanyScout/internal/source"
)

func TestNewAdapter(t *testing.T) {
	t.Parallel()

	for _, kind := range AdapterKinds() {
		adapter, err := NewAdapter(kind, AdapterConfig{})
		require.NoError(t, err)
		assert.Equal(t, kind, adapter.Name())
	}

	_, err := NewAdapter("altavista", AdapterConfig{})
	assert.ErrorIs(t, err, source.ErrUnknownSource)
}
