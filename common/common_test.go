package common

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
	assert.Equal(t, 3, Coalesce(3))
}

func TestStructToBytes(t *testing.T) {
	v := [2]float32{1, 2}
	b := StructToBytes(&v)
	assert.Len(t, b, 8)

	v[0] = 0
	assert.Equal(t, []byte{0, 0, 0, 0}, b[:4], "the slice aliases the value")
}

func TestSetLoggerNilRestoresSilentDefault(t *testing.T) {
	SetLogger(slog.Default())
	assert.Same(t, slog.Default(), Logger())

	SetLogger(nil)
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}
