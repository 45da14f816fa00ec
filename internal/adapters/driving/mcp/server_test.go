package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil schema service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{}, "1.0.0")
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingSchemaService)
	})

	t.Run("nil ports returns error", func(t *testing.T) {
		_, err := NewServer(nil, "")
		assert.ErrorIs(t, err, ErrMissingSchemaService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Schema: &mockSchemaService{}}, "")
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingSchemaService)
	assert.NoError(t, (&Ports{Schema: &mockSchemaService{}}).Validate())
	assert.NoError(t, (&Ports{Schema: &mockSchemaService{}, Renderer: &mockRenderer{}}).Validate())
}
