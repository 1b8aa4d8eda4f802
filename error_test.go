package findmystore_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/findmystore"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := findmystore.Errorf(findmystore.ENOTFOUND, "store %d not found", 42)

	assert.Equal(t, findmystore.ENOTFOUND, findmystore.ErrorCode(err))
	assert.Equal(t, "store 42 not found", findmystore.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, findmystore.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, findmystore.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("restock: %w", findmystore.Errorf(findmystore.EINVALID, "qty must be positive"))

	assert.Equal(t, findmystore.EINVALID, findmystore.ErrorCode(err))
	assert.Equal(t, "qty must be positive", findmystore.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk on fire")

	assert.Equal(t, findmystore.EINTERNAL, findmystore.ErrorCode(err))
	assert.Equal(t, "Internal error.", findmystore.ErrorMessage(err))
}
