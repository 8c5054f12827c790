package xerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "size %d", 50))

	wrapped := Wrapf(ErrUnknownContainer, "parse %q", "eigen")
	require.Error(t, wrapped)
	assert.Equal(t, `parse "eigen": unknown container`, wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrUnknownContainer)
	assert.NotErrorIs(t, wrapped, ErrUnknownFormula)
}

func TestWithCode(t *testing.T) {
	assert.NoError(t, WithCode(nil, CodeBenchFailed))

	coded := WithCode(ErrSizeMismatch, CodeBenchFailed)
	assert.Equal(t, "[BENCH_FAILED] vector size mismatch", coded.Error())
	assert.Equal(t, CodeBenchFailed, GetCode(coded))

	// 外层包装后依然可以取到错误码，且保留哨兵
	wrapped := Wrap(coded, "abxpy")
	assert.Equal(t, CodeBenchFailed, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, ErrSizeMismatch)

	assert.Empty(t, GetCode(errors.New("plain")))
	assert.Equal(t, "[X]", (&CodedError{Code: "X"}).Error())
}

func TestMust(t *testing.T) {
	assert.Equal(t, 42, Must(42, nil))
	assert.Panics(t, func() { Must(0, errors.New("error")) })
}

func TestCombine(t *testing.T) {
	assert.NoError(t, Combine())
	assert.NoError(t, Combine(nil, nil))

	err1 := errors.New("error 1")
	assert.Same(t, err1, Combine(nil, err1, nil))

	err2 := errors.New("error 2")
	combined := Combine(err1, err2)
	var multi *MultiError
	require.ErrorAs(t, combined, &multi)
	assert.Len(t, multi.Errors, 2)
	assert.ErrorIs(t, combined, err1)
	assert.ErrorIs(t, combined, err2)
	assert.Equal(t, "error 1 (and 1 more errors)", combined.Error())
	assert.Equal(t, "no errors", (&MultiError{}).Error())
}

func TestReExports(t *testing.T) {
	err := New("test error")
	assert.True(t, Is(Wrap(err, "ctx"), err))

	joined := Join(ErrInvalidConfig, ErrNotFound)
	assert.True(t, Is(joined, ErrInvalidConfig))
	assert.True(t, Is(joined, ErrNotFound))

	var coded *CodedError
	assert.True(t, As(WithCode(err, "C"), &coded))
}
