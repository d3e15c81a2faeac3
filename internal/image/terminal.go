// Package image displays local image files inline in terminals that speak
// an image protocol (Kitty, iTerm2, Sixel).
package image

import (
	"bytes"
	"fmt"
	goimage "image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BourgeoisBear/rasterm"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Capability represents the terminal's image rendering capability
type Capability int

const (
	CapNone  Capability = iota // No image support
	CapKitty                   // Kitty graphics protocol
	CapITerm                   // iTerm2 inline images
	CapSixel                   // Sixel graphics
)

// String returns the capability name
func (c Capability) String() string {
	switch c {
	case CapKitty:
		return "kitty"
	case CapITerm:
		return "iterm"
	case CapSixel:
		return "sixel"
	default:
		return "none"
	}
}

// DetectCapability detects the terminal's image rendering capability from
// environment variables. Detection order: Kitty -> iTerm -> Sixel -> None
func DetectCapability(getenv func(string) string) Capability {
	if getenv == nil {
		getenv = os.Getenv
	}

	if getenv("KITTY_WINDOW_ID") != "" || strings.Contains(getenv("TERM"), "kitty") {
		return CapKitty
	}

	termProgram := getenv("TERM_PROGRAM")
	switch {
	case termProgram == "iTerm.app", getenv("LC_TERMINAL") == "iTerm2":
		return CapITerm
	case termProgram == "WezTerm": // speaks the iTerm protocol
		return CapITerm
	case termProgram == "ghostty":
		return CapKitty
	}

	term := getenv("TERM")
	if strings.Contains(term, "sixel") || strings.Contains(term, "mlterm") {
		return CapSixel
	}

	return CapNone
}

// LocalPath resolves an image reference URL to a local file path. Remote
// URLs are never fetched and return false.
func LocalPath(ref, baseDir string) (string, bool) {
	if ref == "" {
		return "", false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		if u.Scheme != "file" {
			return "", false
		}
		ref = u.Path
	}
	if !filepath.IsAbs(ref) {
		ref = filepath.Join(baseDir, ref)
	}
	info, err := os.Stat(ref)
	if err != nil || info.IsDir() {
		return "", false
	}
	return ref, true
}

// Render loads the image at path and encodes it for the given capability.
// Images wider than maxWidth pixels are scaled down first.
func Render(path string, c Capability, maxWidth int) (string, error) {
	if c == CapNone {
		return "", nil
	}

	img, err := loadImage(path)
	if err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}
	if maxWidth > 0 {
		img = scaleImageIfNeeded(img, maxWidth)
	}

	var buf bytes.Buffer
	switch c {
	case CapKitty:
		err = rasterm.KittyWriteImage(&buf, img, rasterm.KittyImgOpts{})
	case CapITerm:
		err = rasterm.ItermWriteImage(&buf, img)
	case CapSixel:
		err = rasterm.SixelWriteImage(&buf, convertToPaletted(img))
	}
	if err != nil {
		return "", fmt.Errorf("encode %s image: %w", c, err)
	}
	return buf.String(), nil
}

func loadImage(path string) (goimage.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := goimage.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// scaleImageIfNeeded scales the image if it exceeds maxWidth
func scaleImageIfNeeded(img goimage.Image, maxWidth int) goimage.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxWidth {
		return img
	}

	newWidth := maxWidth
	newHeight := max((height*maxWidth)/width, 1)

	dst := goimage.NewRGBA(goimage.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// convertToPaletted maps an image onto a 6x6x6 color cube plus grays for
// Sixel output.
func convertToPaletted(img goimage.Image) *goimage.Paletted {
	palette := make(color.Palette, 0, 256)
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				palette = append(palette, color.RGBA{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51), A: 255})
			}
		}
	}
	for i := 0; len(palette) < 256; i++ {
		v := uint8(8 + i*6)
		palette = append(palette, color.RGBA{R: v, G: v, B: v, A: 255})
	}

	bounds := img.Bounds()
	dst := goimage.NewPaletted(bounds, palette)
	draw.FloydSteinberg.Draw(dst, bounds, img, bounds.Min)
	return dst
}
