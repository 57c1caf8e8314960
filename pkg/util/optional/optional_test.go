package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldUnmarshal(t *testing.T) {
	type payload struct {
		Name  Field[string] `json:"name"`
		Count Field[int]    `json:"count"`
	}

	t.Run("absent key stays absent", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
		assert.False(t, p.Name.Present)
		assert.False(t, p.Count.Present)
	})

	t.Run("explicit null is present and null", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"name":null}`), &p))
		assert.True(t, p.Name.Present)
		assert.True(t, p.Name.Null)
	})

	t.Run("value is present with the value", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"name":"sala 2","count":7}`), &p))
		assert.True(t, p.Name.Present)
		assert.False(t, p.Name.Null)
		assert.Equal(t, "sala 2", p.Name.Value)
		assert.Equal(t, 7, p.Count.Value)
	})
}

func TestFieldApply(t *testing.T) {
	existing := "previous"

	t.Run("absent leaves the target alone", func(t *testing.T) {
		target := &existing
		Field[string]{}.Apply(&target)
		require.NotNil(t, target)
		assert.Equal(t, "previous", *target)
	})

	t.Run("null clears the target", func(t *testing.T) {
		target := &existing
		Null[string]().Apply(&target)
		assert.Nil(t, target)
	})

	t.Run("value replaces the target", func(t *testing.T) {
		var target *string
		Set("next").Apply(&target)
		require.NotNil(t, target)
		assert.Equal(t, "next", *target)
	})
}

func TestFieldPtr(t *testing.T) {
	assert.Nil(t, Field[int]{}.Ptr())
	assert.Nil(t, Null[int]().Ptr())
	ptr := Set(42).Ptr()
	require.NotNil(t, ptr)
	assert.Equal(t, 42, *ptr)
}
