package room

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestAdditionalData(t *testing.T) {
	data := AdditionalData{
		"str":  "value",
		"bool": true,
		"num":  float64(5),
	}

	s, ok := data.GetString("str")
	assert.True(t, ok)
	assert.Equal(t, "value", s)

	_, ok = data.GetString("bool")
	assert.False(t, ok)

	_, ok = data.GetString("missing")
	assert.False(t, ok)

	b, ok := data.GetBool("bool")
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = data.GetBool("num")
	assert.False(t, ok)
}

func TestOK(t *testing.T) {
	res := OK()
	assert.Equal(t, "status", res.Key)
	assert.Equal(t, "OK", res.Value)
	assert.Equal(t, "", res.Context)

	res = OK("ctx")
	assert.Equal(t, "ctx", res.Context)
}
