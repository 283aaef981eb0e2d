// Package errors_test covers the AppError type, factory functions, and
// error-chain helpers defined in pkg/errors/errors.go.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/SAScore/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"parse failure", errors.CodeMoleculeParseFailed, "unclosed ring bond 1"},
		{"invalid param", errors.CodeInvalidParam, "smiles must not be empty"},
		{"model missing", errors.CodeModelNotLoaded, "no model"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.NotEmpty(t, ae.Stack)
		})
	}
}

func TestNewf_FormatsMessage(t *testing.T) {
	ae := errors.Newf(errors.CodeMoleculeParseFailed, "unexpected %q at %d", ")", 4)
	assert.Equal(t, `unexpected ")" at 4`, ae.Message)
}

func TestError_Format(t *testing.T) {
	ae := errors.New(errors.CodeModelNotFound, "model missing")
	assert.Equal(t, "[SA_004] model missing", ae.Error())

	withDetail := ae.WithDetail("name=default")
	assert.Equal(t, "[SA_004] model missing: name=default", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")
}

func TestWithDetail_NilReceiver(t *testing.T) {
	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
}

func TestWrap_ChainIsTraversable(t *testing.T) {
	root := stderrors.New("connection refused")
	wrapped := errors.Wrap(root, errors.CodeCacheError, "redis get")

	assert.True(t, stderrors.Is(wrapped, root))
	assert.Equal(t, root, wrapped.Unwrap())

	outer := fmt.Errorf("score: %w", wrapped)
	assert.True(t, errors.IsCode(outer, errors.CodeCacheError))
	assert.Equal(t, errors.CodeCacheError, errors.GetCode(outer))
}

func TestWrap_UnknownPreservesOriginalCode(t *testing.T) {
	inner := errors.New(errors.CodeModelCorrupt, "bad magic")
	outer := errors.Wrap(inner, errors.CodeUnknown, "load model")
	assert.Equal(t, errors.CodeModelCorrupt, outer.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(errors.NotFound("x")))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(errors.NotFound("x")))
	assert.True(t, errors.IsNotFound(errors.New(errors.CodeModelNotFound, "x")))
	assert.False(t, errors.IsNotFound(errors.Internal("x")))
	assert.False(t, errors.IsNotFound(nil))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, errors.IsValidation(errors.InvalidParam("x")))
	assert.True(t, errors.IsValidation(errors.New(errors.CodeMoleculeParseFailed, "x")))
	assert.False(t, errors.IsValidation(errors.Unavailable("x")))
}

//Personal.AI order the ending
