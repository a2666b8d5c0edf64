package metadata

/** @brief Texture pixel formats. Compressed formats follow the uncompressed ones. */
type PixelFormat int32

const (
	/** @brief 8 bit per pixel (no alpha) */
	PIXELFORMAT_UNCOMPRESSED_GRAYSCALE PixelFormat = iota + 1
	/** @brief 8*2 bpp (2 channels) */
	PIXELFORMAT_UNCOMPRESSED_GRAY_ALPHA
	/** @brief 16 bpp */
	PIXELFORMAT_UNCOMPRESSED_R5G6B5
	/** @brief 24 bpp */
	PIXELFORMAT_UNCOMPRESSED_R8G8B8
	/** @brief 16 bpp (1 bit alpha) */
	PIXELFORMAT_UNCOMPRESSED_R5G5B5A1
	/** @brief 16 bpp (4 bit alpha) */
	PIXELFORMAT_UNCOMPRESSED_R4G4B4A4
	/** @brief 32 bpp */
	PIXELFORMAT_UNCOMPRESSED_R8G8B8A8
	/** @brief 32 bpp */
	PIXELFORMAT_UNCOMPRESSED_R9G9B9E5
	/** @brief 32 bpp (1 channel - float) */
	PIXELFORMAT_UNCOMPRESSED_R32
	/** @brief 32*3 bpp (3 channels - float) */
	PIXELFORMAT_UNCOMPRESSED_R32G32B32
	/** @brief 32*4 bpp (4 channels - float) */
	PIXELFORMAT_UNCOMPRESSED_R32G32B32A32
	/** @brief 4 bpp (no alpha) */
	PIXELFORMAT_COMPRESSED_DXT1_RGB
	/** @brief 4 bpp (1 bit alpha) */
	PIXELFORMAT_COMPRESSED_DXT1_RGBA
	/** @brief 8 bpp */
	PIXELFORMAT_COMPRESSED_DXT3_RGBA
	/** @brief 8 bpp */
	PIXELFORMAT_COMPRESSED_DXT5_RGBA
	/** @brief 4 bpp */
	PIXELFORMAT_COMPRESSED_ETC1_RGB
	/** @brief 4 bpp */
	PIXELFORMAT_COMPRESSED_ETC2_RGB
	/** @brief 8 bpp */
	PIXELFORMAT_COMPRESSED_ETC2_EAC_RGBA
	/** @brief 4 bpp */
	PIXELFORMAT_COMPRESSED_PVRT_RGB
	/** @brief 4 bpp */
	PIXELFORMAT_COMPRESSED_PVRT_RGBA
	/** @brief 8 bpp */
	PIXELFORMAT_COMPRESSED_ASTC_4x4_RGBA
	/** @brief 2 bpp */
	PIXELFORMAT_COMPRESSED_ASTC_8x8_RGBA
)

/** @brief Returns true for block compressed formats. */
func (f PixelFormat) IsCompressed() bool {
	return f >= PIXELFORMAT_COMPRESSED_DXT1_RGB
}

/** @brief Returns the bits per pixel of the format, 0 if unknown. */
func (f PixelFormat) BitsPerPixel() int {
	switch f {
	case PIXELFORMAT_UNCOMPRESSED_GRAYSCALE:
		return 8
	case PIXELFORMAT_UNCOMPRESSED_GRAY_ALPHA,
		PIXELFORMAT_UNCOMPRESSED_R5G6B5,
		PIXELFORMAT_UNCOMPRESSED_R5G5B5A1,
		PIXELFORMAT_UNCOMPRESSED_R4G4B4A4:
		return 16
	case PIXELFORMAT_UNCOMPRESSED_R8G8B8A8,
		PIXELFORMAT_UNCOMPRESSED_R9G9B9E5,
		PIXELFORMAT_UNCOMPRESSED_R32:
		return 32
	case PIXELFORMAT_UNCOMPRESSED_R8G8B8:
		return 24
	case PIXELFORMAT_UNCOMPRESSED_R32G32B32:
		return 32 * 3
	case PIXELFORMAT_UNCOMPRESSED_R32G32B32A32:
		return 32 * 4
	case PIXELFORMAT_COMPRESSED_DXT1_RGB,
		PIXELFORMAT_COMPRESSED_DXT1_RGBA,
		PIXELFORMAT_COMPRESSED_ETC1_RGB,
		PIXELFORMAT_COMPRESSED_ETC2_RGB,
		PIXELFORMAT_COMPRESSED_PVRT_RGB,
		PIXELFORMAT_COMPRESSED_PVRT_RGBA:
		return 4
	case PIXELFORMAT_COMPRESSED_DXT3_RGBA,
		PIXELFORMAT_COMPRESSED_DXT5_RGBA,
		PIXELFORMAT_COMPRESSED_ETC2_EAC_RGBA,
		PIXELFORMAT_COMPRESSED_ASTC_4x4_RGBA:
		return 8
	case PIXELFORMAT_COMPRESSED_ASTC_8x8_RGBA:
		return 2
	}
	return 0
}

/**
 * @brief Returns the size in bytes of an image of the given dimensions and format.
 * Compressed formats work on 4x4 blocks, so tiny images still take one block.
 */
func PixelDataSize(width, height int, format PixelFormat) int {
	dataSize := width * height * format.BitsPerPixel() / 8

	if width < 4 && height < 4 {
		if format >= PIXELFORMAT_COMPRESSED_DXT1_RGB && format < PIXELFORMAT_COMPRESSED_DXT3_RGBA {
			dataSize = 8
		} else if format >= PIXELFORMAT_COMPRESSED_DXT3_RGBA && format < PIXELFORMAT_COMPRESSED_ASTC_8x8_RGBA {
			dataSize = 16
		}
	}
	return dataSize
}

/**
 * @brief Reports whether the device can sample textures of the given format.
 */
func (e ExtensionSupport) SupportsFormat(format PixelFormat) bool {
	switch format {
	case PIXELFORMAT_COMPRESSED_DXT1_RGB, PIXELFORMAT_COMPRESSED_DXT1_RGBA,
		PIXELFORMAT_COMPRESSED_DXT3_RGBA, PIXELFORMAT_COMPRESSED_DXT5_RGBA:
		return e.TexCompDXT
	case PIXELFORMAT_COMPRESSED_ETC1_RGB:
		return e.TexCompETC1
	case PIXELFORMAT_COMPRESSED_ETC2_RGB, PIXELFORMAT_COMPRESSED_ETC2_EAC_RGBA:
		return e.TexCompETC2
	case PIXELFORMAT_COMPRESSED_PVRT_RGB, PIXELFORMAT_COMPRESSED_PVRT_RGBA:
		return e.TexCompPVRT
	case PIXELFORMAT_COMPRESSED_ASTC_4x4_RGBA, PIXELFORMAT_COMPRESSED_ASTC_8x8_RGBA:
		return e.TexCompASTC
	}
	return true
}

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = 0x0
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear TextureFilter = 0x1
)

/**
 * @brief A texture living on the backend.
 */
type Texture struct {
	/** @brief The backend texture handle, 0 when loading failed. */
	ID uint32
	/** @brief The texture Width. */
	Width int32
	/** @brief The texture Height. */
	Height int32
	/** @brief Number of mipmap levels. */
	Mipmaps int32
	/** @brief The pixel format. */
	Format PixelFormat
}
