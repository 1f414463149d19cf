package tubechat_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/tubechat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := tubechat.Errorf(tubechat.ENOTFOUND, "video %q not found", "abc")

	assert.Equal(t, tubechat.ENOTFOUND, tubechat.ErrorCode(err))
	assert.Equal(t, "video \"abc\" not found", tubechat.ErrorMessage(err))
}

func TestErrorf_WrapsCause(t *testing.T) {
	t.Parallel()

	cause := &json.SyntaxError{Offset: 3}
	err := tubechat.Errorf(tubechat.EPARSE, "malformed JSON: %w", cause)

	var syntaxErr *json.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, int64(3), syntaxErr.Offset)
	assert.Equal(t, tubechat.EPARSE, tubechat.ErrorCode(err))
}

func TestErrorCode_WrappedApplicationError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("loading history: %w", tubechat.Errorf(tubechat.EINVALID, "bad id"))

	assert.Equal(t, tubechat.EINVALID, tubechat.ErrorCode(err))
	assert.Equal(t, "bad id", tubechat.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, tubechat.EINTERNAL, tubechat.ErrorCode(err))
	assert.Equal(t, "Internal error.", tubechat.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tubechat.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, tubechat.ErrorMessage(nil))
}
