package opt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestZeroTimeoutIsStillDefined(t *testing.T) {
	m := Some(time.Duration(0))
	assert.True(t, m.IsDefined())
	assert.Equal(t, time.Duration(0), m.Value())
	assert.Equal(t, time.Duration(0), m.OrElse(5*time.Second))
	assert.Equal(t, "0s", m.String())
}

func TestEmptyFallsBack(t *testing.T) {
	m := None[time.Duration]()
	assert.False(t, m.IsDefined())
	assert.Equal(t, time.Duration(0), m.Value())
	assert.Equal(t, 5*time.Second, m.OrElse(5*time.Second))
	assert.Equal(t, "unset", m.String())
}

func TestZeroValueIsEmpty(t *testing.T) {
	var m Maybe[string]
	assert.False(t, m.IsDefined())
	assert.Equal(t, "fallback", m.OrElse("fallback"))
}
