package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(Use("en-US"))
	assert.Equal("register 32 invalid", From("register %d invalid", 32))
	assert.Equal("out of bounds", From("out of bounds"))
}

func TestUse_Invalid(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(Use("en-US"))
	assert.Error(Use("not a language tag!"))
	assert.Equal("pc 8", From("pc %d", 8))
}
