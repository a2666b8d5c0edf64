package software

import (
	"encoding/binary"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

// texture keeps its pixels as RGBA8 whatever the upload format was.
type texture struct {
	width  int32
	height int32
	format metadata.PixelFormat
	pix    []uint8
}

func newTexture(width, height int32) *texture {
	return &texture{
		width:  width,
		height: height,
		format: metadata.PIXELFORMAT_UNCOMPRESSED_R8G8B8A8,
		pix:    make([]uint8, width*height*4),
	}
}

// TextureLoad decodes data into an RGBA texture. A nil data allocates a
// blank texture, as used for framebuffer attachments. Only the base level
// is kept, mipmaps are ignored.
func (sr *SoftwareRenderer) TextureLoad(data []byte, width, height int32, format metadata.PixelFormat, mipmaps int32) uint32 {
	if width <= 0 || height <= 0 {
		core.LogWarn("SOFTWARE: Invalid texture size %dx%d", width, height)
		return 0
	}

	tex := newTexture(width, height)
	tex.format = format
	if data != nil {
		if err := decodePixels(tex.pix, data, int(width*height), format); err != nil {
			core.LogWarn("SOFTWARE: %s", err)
			return 0
		}
	}

	id := sr.ids.AquireNewID(tex)
	sr.textures[id] = tex
	return id
}

func (sr *SoftwareRenderer) TextureUnload(id uint32) {
	if _, ok := sr.textures[id]; !ok {
		return
	}
	delete(sr.textures, id)
	if err := sr.ids.ReleaseID(id); err != nil {
		core.LogError("SOFTWARE: %s", err)
	}
}

// TexturePixels returns the RGBA8 pixels of a texture, nil if id is unknown.
func (sr *SoftwareRenderer) TexturePixels(id uint32) []uint8 {
	if tex, ok := sr.textures[id]; ok {
		return tex.pix
	}
	return nil
}

func (sr *SoftwareRenderer) ActiveTextureSlot(slot int32) {
	if slot < 0 || int(slot) >= MAX_TEXTURE_SLOTS {
		core.LogError("SOFTWARE: Texture slot %d out of range", slot)
		return
	}
	sr.activeSlot = slot
}

func (sr *SoftwareRenderer) BindTexture(id uint32) {
	sr.slots[sr.activeSlot] = id
}

// decodePixels expands count pixels of src in the given format into dst as RGBA8.
func decodePixels(dst, src []byte, count int, format metadata.PixelFormat) error {
	if format.IsCompressed() {
		return fmt.Errorf("%w: compressed format %d", core.ErrUnsupportedFormat, format)
	}
	bpp := format.BitsPerPixel()
	if bpp == 0 || format == metadata.PIXELFORMAT_UNCOMPRESSED_R9G9B9E5 {
		return fmt.Errorf("%w: format %d", core.ErrUnsupportedFormat, format)
	}
	if len(src) < count*bpp/8 {
		return fmt.Errorf("texture format %d: %d bytes of pixel data, %d needed", format, len(src), count*bpp/8)
	}

	for i := 0; i < count; i++ {
		o := dst[4*i : 4*i+4]
		switch format {
		case metadata.PIXELFORMAT_UNCOMPRESSED_GRAYSCALE:
			o[0], o[1], o[2], o[3] = src[i], src[i], src[i], 255
		case metadata.PIXELFORMAT_UNCOMPRESSED_GRAY_ALPHA:
			o[0], o[1], o[2], o[3] = src[2*i], src[2*i], src[2*i], src[2*i+1]
		case metadata.PIXELFORMAT_UNCOMPRESSED_R5G6B5:
			p := binary.LittleEndian.Uint16(src[2*i:])
			o[0] = expand(uint8(p>>11)&0x1f, 5)
			o[1] = expand(uint8(p>>5)&0x3f, 6)
			o[2] = expand(uint8(p)&0x1f, 5)
			o[3] = 255
		case metadata.PIXELFORMAT_UNCOMPRESSED_R5G5B5A1:
			p := binary.LittleEndian.Uint16(src[2*i:])
			o[0] = expand(uint8(p>>11)&0x1f, 5)
			o[1] = expand(uint8(p>>6)&0x1f, 5)
			o[2] = expand(uint8(p>>1)&0x1f, 5)
			o[3] = uint8(p&1) * 255
		case metadata.PIXELFORMAT_UNCOMPRESSED_R4G4B4A4:
			p := binary.LittleEndian.Uint16(src[2*i:])
			o[0] = expand(uint8(p>>12)&0xf, 4)
			o[1] = expand(uint8(p>>8)&0xf, 4)
			o[2] = expand(uint8(p>>4)&0xf, 4)
			o[3] = expand(uint8(p)&0xf, 4)
		case metadata.PIXELFORMAT_UNCOMPRESSED_R8G8B8:
			o[0], o[1], o[2], o[3] = src[3*i], src[3*i+1], src[3*i+2], 255
		case metadata.PIXELFORMAT_UNCOMPRESSED_R8G8B8A8:
			copy(o, src[4*i:4*i+4])
		case metadata.PIXELFORMAT_UNCOMPRESSED_R32:
			v := floatToByte(src[4*i:])
			o[0], o[1], o[2], o[3] = v, v, v, 255
		case metadata.PIXELFORMAT_UNCOMPRESSED_R32G32B32:
			o[0] = floatToByte(src[12*i:])
			o[1] = floatToByte(src[12*i+4:])
			o[2] = floatToByte(src[12*i+8:])
			o[3] = 255
		case metadata.PIXELFORMAT_UNCOMPRESSED_R32G32B32A32:
			for c := 0; c < 4; c++ {
				o[c] = floatToByte(src[16*i+4*c:])
			}
		}
	}
	return nil
}

// expand scales a bits wide channel to 8 bits.
func expand(v uint8, bits uint) uint8 {
	max := uint16(1)<<bits - 1
	return uint8(uint16(v) * 255 / max)
}

func floatToByte(b []byte) uint8 {
	f := math32.Float32frombits(binary.LittleEndian.Uint32(b))
	return math.UnitToByte(f)
}

// sample returns the texel nearest to (u, v) with repeat wrapping, normalized.
// v = 0 is the first row of the uploaded data.
func (t *texture) sample(u, v float32) math.Vec4 {
	u -= math32.Floor(u)
	v -= math32.Floor(v)
	x := int32(u * float32(t.width))
	y := int32(v * float32(t.height))
	x = math.Clamp(x, 0, t.width-1)
	y = math.Clamp(y, 0, t.height-1)

	i := 4 * (y*t.width + x)
	return math.Color{R: t.pix[i], G: t.pix[i+1], B: t.pix[i+2], A: t.pix[i+3]}.Normalized()
}
