package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldDistinguishesNullFromOmitted(t *testing.T) {
	type payload struct {
		Name Field[string] `json:"name"`
	}

	var omitted payload
	assert.NoError(t, json.Unmarshal([]byte(`{}`), &omitted))
	assert.False(t, omitted.Name.Present())

	var null payload
	assert.NoError(t, json.Unmarshal([]byte(`{"name":null}`), &null))
	assert.True(t, null.Name.Present())
	assert.Nil(t, null.Name.Ptr())

	var set payload
	assert.NoError(t, json.Unmarshal([]byte(`{"name":"Jana"}`), &set))
	assert.True(t, set.Name.Present())
	assert.Equal(t, "Jana", *set.Name.Ptr())
}

func TestFieldRejectsMalformedValue(t *testing.T) {
	type payload struct {
		Count Field[int] `json:"count"`
	}

	var p payload
	assert.Error(t, json.Unmarshal([]byte(`{"count":"three"}`), &p))
}
