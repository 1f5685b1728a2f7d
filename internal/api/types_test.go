// ABOUTME: Tests for the order-preserving session context type
// ABOUTME: Verifies key order, raw values, null handling and rejection of non-objects

package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionContext_PreservesOrderAndValues(t *testing.T) {
	input := `{"last_intent":"greet","slots":{"b":2,"a":1},"turns":3,"flags":[true,false],"note":null}`

	var sc SessionContext
	require.NoError(t, json.Unmarshal([]byte(input), &sc))

	assert.Equal(t, []string{"last_intent", "slots", "turns", "flags", "note"}, sc.Keys())

	raw, ok := sc.Get("slots")
	require.True(t, ok)
	assert.JSONEq(t, `{"b":2,"a":1}`, string(raw))

	out, err := json.Marshal(sc)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestSessionContext_Null(t *testing.T) {
	var sc SessionContext
	require.NoError(t, sc.UnmarshalJSON([]byte("null")))
	assert.Equal(t, 0, sc.Len())
}

func TestSessionContext_RejectsArray(t *testing.T) {
	var sc SessionContext
	err := sc.UnmarshalJSON([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestSessionContext_NilSafe(t *testing.T) {
	var sc *SessionContext
	assert.Equal(t, 0, sc.Len())
	assert.Nil(t, sc.Keys())
	_, ok := sc.Get("x")
	assert.False(t, ok)
}
