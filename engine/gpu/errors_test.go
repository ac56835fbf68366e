package gpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySurfaceError(t *testing.T) {
	tests := []struct {
		msg  string
		want SurfaceErrorKind
	}{
		{"Surface texture is Outdated", SurfaceErrorOutdated},
		{"surface lost", SurfaceErrorLost},
		{"Timeout while acquiring texture", SurfaceErrorTimeout},
		{"Out of memory", SurfaceErrorOutOfMemory},
		{"something unexpected", SurfaceErrorOther},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, classifySurfaceError(errors.New(tt.msg)))
		})
	}
}

func TestSurfaceErrorAs(t *testing.T) {
	cause := errors.New("lost")
	err := fmt.Errorf("draw: %w", &SurfaceError{Kind: SurfaceErrorLost, Err: cause})

	var se *SurfaceError
	if assert.True(t, errors.As(err, &se)) {
		assert.Equal(t, SurfaceErrorLost, se.Kind)
		assert.True(t, se.Reconfigurable())
	}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "lost")
}

func TestSurfaceErrorReconfigurable(t *testing.T) {
	assert.True(t, (&SurfaceError{Kind: SurfaceErrorOutdated}).Reconfigurable())
	assert.False(t, (&SurfaceError{Kind: SurfaceErrorTimeout}).Reconfigurable())
	assert.False(t, (&SurfaceError{Kind: SurfaceErrorOutOfMemory}).Reconfigurable())
	assert.False(t, (&SurfaceError{Kind: SurfaceErrorOther}).Reconfigurable())
	assert.Equal(t, "surface texture acquisition failed: timeout", (&SurfaceError{Kind: SurfaceErrorTimeout}).Error())
}
