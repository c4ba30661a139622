package recorder

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteJSONMatchesSchema(t *testing.T) {
	r := Result{Sequential: 1234.5, Parallel: []float64{2000, 3900, 7500}}

	var buf bytes.Buffer
	err := r.WriteJSON(&buf, nil)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "sequential")
	assert.Contains(t, decoded, "parallel")
	assert.Equal(t, 1234.5, decoded["sequential"])

	parallel, ok := decoded["parallel"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, parallel, 3)
}

func TestWriteJSONRoundTrips(t *testing.T) {
	want := Result{Sequential: 42, Parallel: []float64{1, 2, 3}}

	var buf bytes.Buffer
	assert.NoError(t, want.WriteJSON(&buf, nil))

	var got Result
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, want, got)
}
