package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidState, "team Alpha is already on another mission")
	assert.Equal(t, CodeInvalidState, Code(err))
	assert.Equal(t, "team Alpha is already on another mission", err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(CodeStore, cause, "storage failure")
	require.NotNil(t, err)

	assert.Equal(t, CodeStore, Code(err))
	assert.Equal(t, "storage failure", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(CodeStore, nil, "ignored"))
}

func TestCodeThroughWrapping(t *testing.T) {
	inner := WithCode(CodeNotFound, "rescue request not found")
	outer := fmt.Errorf("assign: %w", inner)

	assert.Equal(t, CodeNotFound, Code(outer))
	assert.True(t, IsCode(outer, CodeNotFound))
	assert.False(t, IsCode(outer, CodeInvalidState))
}

func TestCodeUncoded(t *testing.T) {
	assert.Equal(t, 0, Code(stderrors.New("plain")))
	assert.Equal(t, "plain", Message(stderrors.New("plain")))
}
