package cerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeLayout(t *testing.T) {
	tests := []struct {
		name   string
		code   Code
		source Source
		value  uint32
	}{
		{"ok", Ok, SourceNone, 0},
		{"lib bad params", ErrLibBadParams, SourceLib, 0x01000001},
		{"lib internal", ErrLibInternalError, SourceLib, 0x0100001C},
		{"server syntax", ErrServerSyntaxError, SourceServer, 0x02002000},
		{"ssl invalid cert", ErrSSLInvalidCert, SourceSSL, 0x03000001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.source, tt.code.Source())
			assert.Equal(t, tt.value, uint32(tt.code))
		})
	}
}

func TestDesc(t *testing.T) {
	assert.Equal(t, "Bad parameters", ErrLibBadParams.Desc())
	assert.Equal(t, "Syntax error", ErrServerSyntaxError.Desc())
	assert.Equal(t, "Unknown error code", Code(0x7F000001).Desc())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Ok, CodeOf(nil))

	err := New(ErrLibNullValue, "column is null")
	assert.Equal(t, ErrLibNullValue, CodeOf(err))

	// Code survives wrapping with fmt.Errorf.
	wrapped := fmt.Errorf("reading column: %w", err)
	assert.Equal(t, ErrLibNullValue, CodeOf(wrapped))

	// A plain error with no *Error in the chain is an internal fault.
	assert.Equal(t, ErrLibInternalError, CodeOf(errors.New("boom")))
}

func TestFlatten(t *testing.T) {
	code, msg := Flatten(nil)
	assert.Equal(t, Ok, code)
	assert.Empty(t, msg)

	code, msg = Flatten(Wrap(ErrServerReadTimeout, "replica did not respond", errors.New("gocql: timeout")))
	assert.Equal(t, ErrServerReadTimeout, code)
	assert.Equal(t, "replica did not respond", msg)

	// Empty message falls back to the fixed description.
	code, msg = Flatten(New(ErrLibNoHostsAvailable, ""))
	assert.Equal(t, ErrLibNoHostsAvailable, code)
	assert.Equal(t, "No hosts available", msg)

	code, msg = Flatten(errors.New("boom"))
	assert.Equal(t, ErrLibInternalError, code)
	assert.Equal(t, "boom", msg)
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrLibUnableToConnect, "contact point unreachable", cause)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), "[lib]")
}

func TestFromPanic(t *testing.T) {
	e := FromPanic("index out of range")
	assert.Equal(t, ErrLibInternalError, e.Code)
	assert.Contains(t, e.Message, "index out of range")

	cause := errors.New("nil map write")
	e = FromPanic(cause)
	assert.Equal(t, ErrLibInternalError, e.Code)
	require.ErrorIs(t, e, cause)
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsTimeout(New(ErrLibRequestTimedOut, "")))
	assert.True(t, IsTimeout(New(ErrServerReadTimeout, "")))
	assert.False(t, IsTimeout(New(ErrLibBadParams, "")))

	assert.True(t, IsServerError(New(ErrServerUnavailable, "")))
	assert.False(t, IsServerError(New(ErrLibBadParams, "")))

	assert.True(t, IsBadParams(New(ErrLibBadParams, "")))
}
