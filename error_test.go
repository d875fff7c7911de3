package rezept_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/rezept"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := rezept.Errorf(rezept.ENOTFOUND, "recipe %q not found", "test")

	assert.Equal(t, rezept.ENOTFOUND, rezept.ErrorCode(err))
	assert.Equal(t, "recipe \"test\" not found", rezept.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, rezept.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, rezept.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("parse: %w", rezept.Errorf(rezept.EFETCH, "fetch error: timeout"))

	assert.Equal(t, rezept.EFETCH, rezept.ErrorCode(err))
	assert.Equal(t, "fetch error: timeout", rezept.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, rezept.EINTERNAL, rezept.ErrorCode(err))
	assert.Equal(t, "Internal error.", rezept.ErrorMessage(err))
}
