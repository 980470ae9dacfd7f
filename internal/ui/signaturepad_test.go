package ui

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"StudioIntake/internal/signature"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignaturePadStroke(t *testing.T) {
	pad := newTestPad(t)
	w, h, _ := pad.Pad().Size()
	require.Equal(t, 320.0, w)
	require.Equal(t, 200.0, h)

	var got []*signature.Artifact
	pad.OnChange = func(a *signature.Artifact) { got = append(got, a) }

	scribble(pad, 20, 40)
	assert.Equal(t, 1, pad.Pad().Len())
	assert.False(t, pad.Pad().Drawing())

	a := pad.Artifact()
	require.NotNil(t, a)
	img, err := png.Decode(bytes.NewReader(a.PNG))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	require.Eventually(t, func() bool { return len(got) > 0 }, time.Second, 10*time.Millisecond)
}

func TestSignaturePadUndoAndClear(t *testing.T) {
	pad := newTestPad(t)

	scribble(pad, 20, 40)
	scribble(pad, 20, 120)
	require.Equal(t, 2, pad.Pad().Len())

	pad.Undo()
	assert.Equal(t, 1, pad.Pad().Len())
	assert.NotNil(t, pad.Artifact())

	pad.Undo()
	assert.Equal(t, 0, pad.Pad().Len())
	assert.Nil(t, pad.Artifact())

	scribble(pad, 20, 40)
	require.NotNil(t, pad.Artifact())
	pad.Clear()
	assert.Equal(t, signature.StateEmpty, pad.Pad().State())
	assert.Nil(t, pad.Artifact())
}

func TestSignaturePadTouchDrag(t *testing.T) {
	pad := newTestPad(t)

	// No mouse press: the first drag starts the stroke.
	pad.Dragged(drag(50, 50, 5, 5))
	pad.Dragged(drag(80, 60, 30, 10))
	assert.True(t, pad.Pad().Drawing())
	pad.DragEnd()

	assert.False(t, pad.Pad().Drawing())
	assert.Equal(t, 1, pad.Pad().Len())
	assert.Len(t, pad.Pad().Strokes()[0], 3)
}

func TestSignaturePadLeaveEndsStroke(t *testing.T) {
	pad := newTestPad(t)

	pad.MouseDown(press(30, 30))
	pad.MouseMoved(press(60, 40))
	pad.MouseOut()
	assert.False(t, pad.Pad().Drawing())
	assert.Equal(t, 1, pad.Pad().Len())

	// A move after leaving is not recorded.
	pad.MouseMoved(press(90, 50))
	assert.Equal(t, 1, pad.Pad().Len())
	assert.Len(t, pad.Pad().Strokes()[0], 2)
}

func TestSignaturePadDragAfterLeaveIsIgnored(t *testing.T) {
	pad := newTestPad(t)

	pad.MouseDown(press(30, 30))
	pad.Dragged(drag(60, 40, 30, 10))
	pad.MouseOut()
	require.Equal(t, 1, pad.Pad().Len())

	// The drag keeps going outside the pad.
	pad.Dragged(drag(400, 50, 340, 10))
	pad.Dragged(drag(450, 60, 50, 10))
	assert.False(t, pad.Pad().Drawing())
	pad.DragEnd()
	assert.Equal(t, 1, pad.Pad().Len())
	assert.Len(t, pad.Pad().Strokes()[0], 2)

	// A new press draws again.
	scribble(pad, 20, 120)
	assert.Equal(t, 2, pad.Pad().Len())
}

func TestSignaturePadTouchOutsideIsIgnored(t *testing.T) {
	pad := newTestPad(t)

	pad.Dragged(drag(400, 50, 5, 5))
	pad.Dragged(drag(420, 60, 20, 10))
	pad.DragEnd()
	assert.Zero(t, pad.Pad().Len())
}

func TestSignaturePadRenders(t *testing.T) {
	test.NewTempApp(t)
	pad := NewSignaturePad(testConfig())
	w := test.NewWindow(pad)
	defer w.Close()
	w.SetPadded(false)
	w.Resize(fyne.NewSize(320, 200))
	pad.Resize(fyne.NewSize(320, 200))
	scribble(pad, 20, 40)

	c := w.Canvas()
	img := c.Capture()
	require.NotNil(t, img)

	_, _, ratio := pad.Pad().Size()
	assert.InDelta(t, c.Scale(), ratio, 0.05)
	assert.NotNil(t, pad.Pad().Snapshot())
}

func TestSignatureToolbarState(t *testing.T) {
	pad := newTestPad(t)
	tb := NewSignatureToolbar(pad)
	assert.Equal(t, "Assine no quadro abaixo", tb.Status())

	tb.SetState(signature.StateHasInk)
	assert.Equal(t, "Assinatura capturada", tb.Status())
}
