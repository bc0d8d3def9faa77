package avatar

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGravatarURL(t *testing.T) {
	// md5("user@example.com") is fixed; casing and whitespace must not change it.
	want := "https://www.gravatar.com/avatar/b58996c504c5638798eb6b511e6f49af?s=250&d=identicon&r=pg"
	require.Equal(t, want, GravatarURL("user@example.com"))
	require.Equal(t, want, GravatarURL("  User@Example.COM "))
}

func TestProcessResizes(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for x := 0; x < 640; x++ {
		for y := 0; y < 480; y++ {
			src.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := Process(buf.Bytes())
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	require.Equal(t, Side, img.Bounds().Dx())
	require.Equal(t, Side, img.Bounds().Dy())
}

func TestProcessRejectsNonImage(t *testing.T) {
	_, err := Process([]byte("definitely not an image"))
	require.ErrorIs(t, err, ErrNotAnImage)
}
