package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gosnes/internal/graphics"
	"gosnes/internal/input"
)

func TestMapGraphicsButtonPort1(t *testing.T) {
	cases := []struct {
		in  graphics.Button
		btn input.Button
	}{
		{graphics.ButtonA, input.A},
		{graphics.ButtonB, input.B},
		{graphics.ButtonX, input.X},
		{graphics.ButtonY, input.Y},
		{graphics.ButtonL, input.L},
		{graphics.ButtonR, input.R},
		{graphics.ButtonSelect, input.Select},
		{graphics.ButtonStart, input.Start},
		{graphics.ButtonUp, input.Up},
		{graphics.ButtonDown, input.Down},
		{graphics.ButtonLeft, input.Left},
		{graphics.ButtonRight, input.Right},
	}
	for _, c := range cases {
		port, btn, ok := mapGraphicsButton(c.in)
		assert.True(t, ok)
		assert.Equal(t, 1, port)
		assert.Equal(t, c.btn, btn)
	}
}

func TestMapGraphicsButtonPort2(t *testing.T) {
	port, btn, ok := mapGraphicsButton(graphics.Button2Start)
	assert.True(t, ok)
	assert.Equal(t, 2, port)
	assert.Equal(t, input.Start, btn)
}

func TestMapGraphicsButtonUnknownFails(t *testing.T) {
	_, _, ok := mapGraphicsButton(graphics.ButtonUnknown)
	assert.False(t, ok)
}

func TestFrameDurationByRegion(t *testing.T) {
	assert.Equal(t, ntscFrame, frameDuration("NTSC"))
	assert.Equal(t, palFrame, frameDuration("PAL"))
	assert.Equal(t, ntscFrame, frameDuration(""))
}
