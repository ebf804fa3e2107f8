package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoProcessorIdentityIsNoOp(t *testing.T) {
	vp := NewVideoProcessor(1.0, 1.0, 1.0)
	frame := []uint8{10, 20, 30, 255, 200, 150, 100, 0}
	want := make([]uint8, len(frame))
	copy(want, frame)

	vp.ProcessFrame(frame)

	assert.Equal(t, want, frame, "identity brightness/contrast/saturation must leave the buffer untouched")
}

func TestVideoProcessorPreservesAlpha(t *testing.T) {
	vp := NewVideoProcessor(1.5, 1.0, 1.0)
	frame := []uint8{10, 20, 30, 123}

	vp.ProcessFrame(frame)

	assert.Equal(t, uint8(123), frame[3], "alpha channel must never be modified")
}

func TestVideoProcessorBrightnessScalesUp(t *testing.T) {
	vp := NewVideoProcessor(2.0, 1.0, 1.0)
	frame := []uint8{50, 50, 50, 255}

	vp.ProcessFrame(frame)

	for i := 0; i < 3; i++ {
		require.Greater(t, int(frame[i]), 50, "brightness > 1 must raise channel values")
	}
}

func TestVideoProcessorClampsToByteRange(t *testing.T) {
	vp := NewVideoProcessor(4.0, 1.0, 1.0)
	frame := []uint8{200, 200, 200, 255}

	vp.ProcessFrame(frame)

	for i := 0; i < 3; i++ {
		assert.LessOrEqual(t, frame[i], uint8(255))
	}
}

func TestVideoProcessorDesaturateGreyscalesChannelsEvenly(t *testing.T) {
	vp := NewVideoProcessor(1.0, 1.0, 0.0)
	frame := []uint8{255, 0, 0, 255}

	vp.ProcessFrame(frame)

	assert.InDelta(t, int(frame[0]), int(frame[1]), 2, "zero saturation should equalize channels")
	assert.InDelta(t, int(frame[1]), int(frame[2]), 2, "zero saturation should equalize channels")
}

func TestVideoProcessorSetters(t *testing.T) {
	vp := NewVideoProcessor(1.0, 1.0, 1.0)
	vp.SetBrightness(0.5)
	vp.SetContrast(0.5)
	vp.SetSaturation(0.5)

	assert.Equal(t, float32(0.5), vp.brightness)
	assert.Equal(t, float32(0.5), vp.contrast)
	assert.Equal(t, float32(0.5), vp.saturation)
}

func TestClampHelper(t *testing.T) {
	assert.Equal(t, float32(0), clamp(-10, 0, 255))
	assert.Equal(t, float32(255), clamp(300, 0, 255))
	assert.Equal(t, float32(128), clamp(128, 0, 255))
}
