package guitex

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"golang.org/x/image/bmp"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

const (
	icoTypeIcon   = 1
	icoTypeCursor = 2

	icoHeaderLen = 6
	icoEntryLen  = 16
	dibHeaderLen = 40
)

// DecodeCursor decodes a Windows cursor (.cur), icon (.ico), animated
// cursor (.ani, first frame only), PNG or BMP file. Windows cursors carry
// a hotspot; for the other formats it is the top-left corner.
func DecodeCursor(data []byte) (*image.NRGBA, image.Point, error) {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, image.Point{}, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
		}
		return toNRGBA(img), image.Point{}, nil

	case bytes.HasPrefix(data, []byte("BM")):
		img, err := bmp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, image.Point{}, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
		}
		return toNRGBA(img), image.Point{}, nil

	case bytes.HasPrefix(data, []byte("RIFF")):
		frame, err := firstANIFrame(data)
		if err != nil {
			return nil, image.Point{}, err
		}
		return decodeICO(frame)
	}
	return decodeICO(data)
}

type icoEntry struct {
	width, height int
	hotspot       image.Point
	size, offset  uint32
}

func decodeICO(data []byte) (*image.NRGBA, image.Point, error) {
	if len(data) < icoHeaderLen {
		return nil, image.Point{}, fmt.Errorf("%w: short header", ErrInvalidCursor)
	}
	le := binary.LittleEndian
	reserved, typ, count := le.Uint16(data[0:]), le.Uint16(data[2:]), int(le.Uint16(data[4:]))
	if reserved != 0 || (typ != icoTypeIcon && typ != icoTypeCursor) || count == 0 {
		return nil, image.Point{}, fmt.Errorf("%w: not an icon or cursor file", ErrInvalidCursor)
	}
	if len(data) < icoHeaderLen+count*icoEntryLen {
		return nil, image.Point{}, fmt.Errorf("%w: truncated directory", ErrInvalidCursor)
	}

	// Pick the largest image in the directory.
	var best icoEntry
	for i := 0; i < count; i++ {
		e := data[icoHeaderLen+i*icoEntryLen:]
		entry := icoEntry{
			width:  dimension(e[0]),
			height: dimension(e[1]),
			size:   le.Uint32(e[8:]),
			offset: le.Uint32(e[12:]),
		}
		if typ == icoTypeCursor {
			entry.hotspot = image.Pt(int(le.Uint16(e[4:])), int(le.Uint16(e[6:])))
		}
		if entry.width*entry.height > best.width*best.height {
			best = entry
		}
	}

	end := uint64(best.offset) + uint64(best.size)
	if best.size == 0 || end > uint64(len(data)) {
		return nil, image.Point{}, fmt.Errorf("%w: image data out of range", ErrInvalidCursor)
	}
	payload := data[best.offset:end]

	if bytes.HasPrefix(payload, pngSignature) {
		img, err := png.Decode(bytes.NewReader(payload))
		if err != nil {
			return nil, image.Point{}, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
		}
		return toNRGBA(img), best.hotspot, nil
	}
	img, err := decodeDIB(payload)
	if err != nil {
		return nil, image.Point{}, err
	}
	return img, best.hotspot, nil
}

// dimension decodes a directory width or height, where 0 means 256.
func dimension(b byte) int {
	if b == 0 {
		return 256
	}
	return int(b)
}

// decodeDIB decodes a BITMAPINFOHEADER image whose height covers both the
// color data and the 1-bit AND mask that follows it.
func decodeDIB(dib []byte) (*image.NRGBA, error) {
	if len(dib) < dibHeaderLen {
		return nil, fmt.Errorf("%w: short bitmap header", ErrInvalidCursor)
	}
	le := binary.LittleEndian
	hdrLen := int(le.Uint32(dib[0:]))
	w := int(int32(le.Uint32(dib[4:])))
	h := int(int32(le.Uint32(dib[8:]))) / 2
	bpp := int(le.Uint16(dib[14:]))
	compression := le.Uint32(dib[16:])
	colorsUsed := int(le.Uint32(dib[32:]))
	if hdrLen < dibHeaderLen || w <= 0 || h <= 0 || compression != 0 {
		return nil, fmt.Errorf("%w: unsupported bitmap header", ErrInvalidCursor)
	}

	paletteLen := 0
	if bpp <= 8 {
		if colorsUsed == 0 {
			colorsUsed = 1 << bpp
		}
		paletteLen = colorsUsed * 4
	}
	colorStride := (w*bpp + 31) / 32 * 4
	maskStride := (w + 31) / 32 * 4
	colorStart := hdrLen + paletteLen
	maskStart := colorStart + colorStride*h
	if len(dib) < maskStart {
		return nil, fmt.Errorf("%w: truncated bitmap", ErrInvalidCursor)
	}

	var img *image.NRGBA
	switch bpp {
	case 32:
		img = decodeDIB32(dib[colorStart:], w, h, colorStride)
	case 8, 24:
		var err error
		if img, err = decodeDIBWithBMP(dib, hdrLen, paletteLen, h); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrInvalidCursor, bpp)
	}

	// Images with an alpha channel ignore the mask unless every pixel is
	// transparent.
	if bpp == 32 && hasAlpha(img) {
		return img, nil
	}
	if len(dib) >= maskStart+maskStride*h {
		applyANDMask(img, dib[maskStart:], w, h, maskStride)
	}
	return img, nil
}

func decodeDIB32(rows []byte, w, h, stride int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := rows[(h-1-y)*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			b, g, r, a := src[4*x], src[4*x+1], src[4*x+2], src[4*x+3]
			dst[4*x], dst[4*x+1], dst[4*x+2], dst[4*x+3] = r, g, b, a
		}
	}
	return img
}

// decodeDIBWithBMP wraps the color part of dib in a BMP file header with
// the mask removed from the height and decodes it with x/image/bmp.
func decodeDIBWithBMP(dib []byte, hdrLen, paletteLen, h int) (*image.NRGBA, error) {
	le := binary.LittleEndian
	file := make([]byte, 14+len(dib))
	copy(file, "BM")
	le.PutUint32(file[2:], uint32(len(file)))
	le.PutUint32(file[10:], uint32(14+hdrLen+paletteLen))
	copy(file[14:], dib)
	le.PutUint32(file[14+8:], uint32(int32(h)))

	img, err := bmp.Decode(bytes.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}
	return toNRGBA(img), nil
}

func hasAlpha(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return true
		}
	}
	return false
}

// applyANDMask makes pixels with a set mask bit transparent and all others
// opaque. Mask rows are stored bottom-up.
func applyANDMask(img *image.NRGBA, mask []byte, w, h, stride int) {
	for y := 0; y < h; y++ {
		row := mask[(h-1-y)*stride:]
		for x := 0; x < w; x++ {
			i := y*img.Stride + 4*x + 3
			if row[x/8]&(0x80>>(x%8)) != 0 {
				img.Pix[i] = 0
			} else {
				img.Pix[i] = 0xFF
			}
		}
	}
}

// firstANIFrame returns the first icon chunk of a RIFF ACON file.
func firstANIFrame(data []byte) ([]byte, error) {
	if len(data) < 12 || string(data[8:12]) != "ACON" {
		return nil, fmt.Errorf("%w: not an animated cursor", ErrInvalidCursor)
	}
	le := binary.LittleEndian
	chunks := data[12:]
	for len(chunks) >= 8 {
		id, n := string(chunks[0:4]), int(le.Uint32(chunks[4:]))
		body := chunks[8:]
		if n > len(body) {
			break
		}
		if id == "LIST" && n >= 4 && string(body[0:4]) == "fram" {
			frames := body[4:n]
			for len(frames) >= 8 {
				fid, fn := string(frames[0:4]), int(le.Uint32(frames[4:]))
				if fn > len(frames)-8 {
					break
				}
				if fid == "icon" {
					return frames[8 : 8+fn], nil
				}
				step := 8 + fn + fn%2
				if step > len(frames) {
					break
				}
				frames = frames[step:]
			}
		}
		next := n + n%2
		if next > len(body) {
			break
		}
		chunks = body[next:]
	}
	return nil, fmt.Errorf("%w: animated cursor has no frames", ErrInvalidCursor)
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
