package renderer

import (
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

// LoadTexture uploads pixel data and returns the texture handle, 0 when the
// backend cannot sample the format or the upload failed.
func (rc *RenderContext) LoadTexture(data []byte, width, height int32, format metadata.PixelFormat, mipmaps int32) uint32 {
	if !rc.extensions.SupportsFormat(format) {
		core.LogWarn("TEXTURE: %s (format %d)", core.ErrUnsupportedFormat, format)
		return 0
	}
	if mipmaps < 1 {
		mipmaps = 1
	}

	id := rc.backend.TextureLoad(data, width, height, format, mipmaps)
	if id == 0 {
		core.LogWarn("TEXTURE: Failed to load texture")
		return 0
	}
	core.LogInfo("TEXTURE: [ID %d] Texture loaded successfully (%dx%d | %d mipmaps)", id, width, height, mipmaps)
	return id
}

// LoadTextureImage uploads an RGBA image with one mipmap level.
func (rc *RenderContext) LoadTextureImage(pixels []byte, width, height int32) metadata.Texture {
	tex := metadata.Texture{
		Width:   width,
		Height:  height,
		Mipmaps: 1,
		Format:  metadata.PIXELFORMAT_UNCOMPRESSED_R8G8B8A8,
	}
	tex.ID = rc.LoadTexture(pixels, width, height, tex.Format, tex.Mipmaps)
	return tex
}

func (rc *RenderContext) UnloadTexture(id uint32) {
	if id == 0 || id == rc.defaultTextureID {
		return
	}
	rc.backend.TextureUnload(id)
}

// TextureIDDefault returns the 1x1 white texture.
func (rc *RenderContext) TextureIDDefault() uint32 {
	return rc.defaultTextureID
}
