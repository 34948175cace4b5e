package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatching(t *testing.T) {
	driverErr := errors.New("UNIQUE constraint failed: students.email")
	err := fmt.Errorf("add student: %w", ErrDuplicateEmail.wrap(driverErr))

	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.ErrorIs(t, err, driverErr)
	assert.NotErrorIs(t, err, ErrDuplicateIsbn)

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindConstraint, kind)
	assert.Equal(t, "constraint", kind.String())
}

func TestKindOfPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("disk full"))
	assert.False(t, ok)
}

func TestSentinelKinds(t *testing.T) {
	tests := []struct {
		err  *Error
		kind ErrorKind
	}{
		{ErrNotAdmin, KindAuthorization},
		{ErrInvalidCredentials, KindAuthentication},
		{ErrBookNotFound, KindNotFound},
		{ErrStudentNotFound, KindNotFound},
		{ErrNoOpenIssue, KindNotFound},
		{ErrBookUnavailable, KindBusinessRule},
		{ErrDuplicateIsbn, KindConstraint},
	}
	for _, tt := range tests {
		t.Run(tt.err.Msg, func(t *testing.T) {
			kind, _ := KindOf(tt.err)
			assert.Equal(t, tt.kind, kind)
		})
	}
}
