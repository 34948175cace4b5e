package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	assert.NoError(t, Combine(nil, nil))

	first := errors.New("first")
	second := errors.New("second")
	err := Combine(first, nil, second)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}

func TestRecover(t *testing.T) {
	var got any
	func() {
		defer func() { got = recover() }()
		func() {
			defer Recover("job")
			panic("boom")
		}()
	}()
	assert.Nil(t, got, "panic should have been swallowed by Recover")
}
