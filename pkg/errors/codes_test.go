package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeHTTPStatus_AllDomainCodesMapped(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeMoleculeParseFailed,
		ErrCodeFingerprintFailed,
		ErrCodeModelNotLoaded,
		ErrCodeModelNotFound,
		ErrCodeModelCorrupt,
		ErrCodeModelDegenerate,
		ErrCodeEmptyCorpus,
	}
	for _, c := range codes {
		_, ok := ErrorCodeHTTPStatus[c]
		assert.True(t, ok, "missing HTTP status for %s", c)
		_, ok = ErrorCodeMessage[c]
		assert.True(t, ok, "missing message for %s", c)
	}
}

func TestErrorCode_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, CodeMoleculeParseFailed.HTTPStatus())
	assert.Equal(t, http.StatusServiceUnavailable, CodeModelNotLoaded.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, ErrorCode("NOPE").HTTPStatus())
}

func TestErrorCode_DefaultMessage(t *testing.T) {
	assert.Equal(t, "contribution model not found", CodeModelNotFound.DefaultMessage())
	assert.Equal(t, "unknown error", ErrorCode("NOPE").DefaultMessage())
}

func TestAppError_HTTPStatus(t *testing.T) {
	ae := New(CodeEmptyCorpus, "no molecules")
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus())
}

//Personal.AI order the ending
