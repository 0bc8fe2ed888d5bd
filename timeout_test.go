package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeoutEncoding(t *testing.T) {
	assert.Equal(t, int32(-1), TimeoutDefault.Milliseconds())
	assert.Equal(t, int32(0), TimeoutNever.Milliseconds())
	assert.Equal(t, int32(5000), TimeoutMilliseconds(5000).Milliseconds())
}

func TestTimeoutDecoding(t *testing.T) {
	assert.Equal(t, TimeoutDefault, DecodeTimeout(-1))
	assert.Equal(t, TimeoutNever, DecodeTimeout(0))
	assert.Equal(t, TimeoutMilliseconds(5000), DecodeTimeout(5000))
}

func TestTimeoutClamping(t *testing.T) {
	// negative durations are not representable, clamp to never-expire
	assert.Equal(t, TimeoutNever, TimeoutMilliseconds(-200))
	// wire values below -1 clamp to the server default
	assert.Equal(t, TimeoutDefault, DecodeTimeout(-2))
}

func TestTimeoutString(t *testing.T) {
	assert.Equal(t, "default", TimeoutDefault.String())
	assert.Equal(t, "never", TimeoutNever.String())
	assert.Equal(t, "1500ms", TimeoutMilliseconds(1500).String())
}
