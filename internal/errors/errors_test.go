package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = New("sentinel")

type codedError struct{ code string }

func (e *codedError) Error() string { return e.code }

func TestWrapKeepsChain(t *testing.T) {
	err := Wrap(errSentinel, "load user")

	assert.EqualError(t, err, "load user: sentinel")
	assert.True(t, Is(err, errSentinel))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestAsFindsWrappedType(t *testing.T) {
	err := Wrap(&codedError{code: "E1"}, "outer")

	var target *codedError
	assert.True(t, As(err, &target))
	assert.Equal(t, "E1", target.code)
}

func TestWithStackAndErrorf(t *testing.T) {
	assert.Nil(t, WithStack(nil))

	err := WithStack(errSentinel)
	assert.True(t, Is(err, errSentinel))
	assert.Contains(t, fmt.Sprintf("%+v", err), "TestWithStackAndErrorf")

	assert.EqualError(t, Errorf("cost %d out of range", 40), "cost 40 out of range")
}
