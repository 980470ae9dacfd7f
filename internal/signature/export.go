package signature

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// DataURLPrefix prefixes the base64 token handed to forms.
const DataURLPrefix = "data:image/png;base64,"

// Artifact is the exported signature image.
type Artifact struct {
	PNG    []byte
	Width  int
	Height int
}

// DataURL returns the artifact as an inline image token.
func (a *Artifact) DataURL() string {
	return DataURLPrefix + base64.StdEncoding.EncodeToString(a.PNG)
}

// DecodeDataURL parses a token produced by DataURL.
func DecodeDataURL(s string) (*Artifact, error) {
	if len(s) < len(DataURLPrefix) || s[:len(DataURLPrefix)] != DataURLPrefix {
		return nil, fmt.Errorf("signature: not a PNG data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(s[len(DataURLPrefix):])
	if err != nil {
		return nil, fmt.Errorf("signature: decode data URL: %w", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("signature: decode PNG header: %w", err)
	}
	return &Artifact{PNG: raw, Width: cfg.Width, Height: cfg.Height}, nil
}

// Recolor returns a copy of src in which every pixel carrying ink takes c's
// color while keeping its own alpha. Transparent pixels stay transparent.
// The second result reports whether any ink was found.
func Recolor(src *image.RGBA, c color.Color) (*image.NRGBA, bool) {
	if src == nil {
		return nil, false
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	inked := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			a := src.Pix[si+3]
			if a != 0 {
				inked = true
				dst.Pix[di+0] = nc.R
				dst.Pix[di+1] = nc.G
				dst.Pix[di+2] = nc.B
				dst.Pix[di+3] = uint8(uint16(a) * uint16(nc.A) / 0xff)
			}
			si += 4
			di += 4
		}
	}
	return dst, inked
}

// Export recolors src and encodes it as PNG. A surface without ink yields
// a nil artifact and no error.
func Export(src *image.RGBA, c color.Color) (*Artifact, error) {
	img, inked := Recolor(src, c)
	if !inked {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("signature: encode PNG: %w", err)
	}
	b := img.Bounds()
	return &Artifact{PNG: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}
