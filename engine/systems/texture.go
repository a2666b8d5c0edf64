package systems

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"io"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spaghettifunk/rlgo/engine/assets"
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/math"
	"github.com/spaghettifunk/rlgo/engine/renderer"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
	_ "golang.org/x/image/bmp"
)

/** @brief The maximum number of textures that can be loaded at once by default. */
const DEFAULT_MAX_TEXTURE_COUNT int = 64

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount int
}

type textureReference struct {
	texture        metadata.Texture
	referenceCount int
	autoRelease    bool
}

// TextureSystem keeps one backend texture per image asset, shared through
// reference counting. Images are decoded on the job system, the upload
// always happens on the calling goroutine.
type TextureSystem struct {
	Config *TextureSystemConfig
	// Hashtable for texture lookups, keyed by absolute path.
	registeredTextures map[string]*textureReference
	// sub systems
	jobSystem    *JobSystem
	assetManager *assets.AssetManager
	rc           *renderer.RenderContext
}

func NewTextureSystem(config *TextureSystemConfig, js *JobSystem, am *assets.AssetManager, rc *renderer.RenderContext) (*TextureSystem, error) {
	if config.MaxTextureCount <= 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &TextureSystem{
		Config:             config,
		registeredTextures: make(map[string]*textureReference, config.MaxTextureCount),
		jobSystem:          js,
		assetManager:       am,
		rc:                 rc,
	}, nil
}

// Shutdown unloads every texture regardless of its reference count.
func (ts *TextureSystem) Shutdown() error {
	for name, ref := range ts.registeredTextures {
		ts.rc.UnloadTexture(ref.texture.ID)
		delete(ts.registeredTextures, name)
	}
	return nil
}

/**
 * @brief Acquires the texture of an indexed image asset, loading it on first use.
 * @param path The path of the image asset.
 * @param autoRelease Unload the texture once its last reference is released.
 * Only honored by the call that loads the texture.
 */
func (ts *TextureSystem) Acquire(path string, autoRelease bool) (metadata.Texture, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return metadata.Texture{}, err
	}
	if ref, ok := ts.registeredTextures[key]; ok {
		ref.referenceCount++
		return ref.texture, nil
	}
	if len(ts.registeredTextures) >= ts.Config.MaxTextureCount {
		err := fmt.Errorf("texture system cannot hold anymore textures, adjust MaxTextureCount to load '%s'", path)
		core.LogError(err.Error())
		return metadata.Texture{}, err
	}

	rgba, err := ts.decode(key)
	if err != nil {
		return metadata.Texture{}, err
	}
	return ts.register(key, rgba, autoRelease)
}

/**
 * @brief Decodes the given image assets concurrently on the job system and
 * acquires one reference to each of them.
 * @return The joined errors of the images that failed to load.
 */
func (ts *TextureSystem) Preload(paths []string, autoRelease bool) error {
	type decoded struct {
		key  string
		rgba *image.RGBA
		err  error
	}
	results := make([]decoded, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		key, err := filepath.Abs(path)
		if err != nil {
			results[i].err = err
			continue
		}
		results[i].key = key
		if _, ok := ts.registeredTextures[key]; ok {
			continue
		}
		wg.Add(1)
		ts.jobSystem.Submit(JobTask{
			Name: "texture load " + path,
			Run: func() error {
				rgba, err := ts.decode(key)
				results[i].rgba = rgba
				return err
			},
			OnComplete: wg.Done,
			OnFailure: func(err error) {
				results[i].err = err
				wg.Done()
			},
		})
	}
	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		if ref, ok := ts.registeredTextures[r.key]; ok {
			ref.referenceCount++
			continue
		}
		if len(ts.registeredTextures) >= ts.Config.MaxTextureCount {
			errs = append(errs, fmt.Errorf("texture system cannot hold anymore textures, adjust MaxTextureCount to load '%s'", r.key))
			continue
		}
		if _, err := ts.register(r.key, r.rgba, autoRelease); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (ts *TextureSystem) decode(key string) (*image.RGBA, error) {
	data, err := ts.assetManager.LoadAsset(key)
	if err != nil {
		return nil, err
	}
	return decodeRGBA(bytes.NewReader(data))
}

func (ts *TextureSystem) register(key string, rgba *image.RGBA, autoRelease bool) (metadata.Texture, error) {
	b := rgba.Bounds()
	tex := ts.rc.LoadTextureImage(rgba.Pix, int32(b.Dx()), int32(b.Dy()))
	if tex.ID == 0 {
		return tex, fmt.Errorf("texture upload of %s failed", key)
	}
	ts.registeredTextures[key] = &textureReference{
		texture:        tex,
		referenceCount: 1,
		autoRelease:    autoRelease,
	}
	core.LogDebug("Successfully loaded texture '%s'.", key)
	return tex, nil
}

/**
 * @brief Releases one reference. The texture is unloaded when the count
 * reaches zero and it was acquired with autoRelease.
 */
func (ts *TextureSystem) Release(path string) {
	key, err := filepath.Abs(path)
	if err != nil {
		core.LogError(err.Error())
		return
	}
	ref, ok := ts.registeredTextures[key]
	if !ok {
		core.LogWarn("Tried to release non-existent texture: '%s'", path)
		return
	}
	if ref.referenceCount == 0 {
		core.LogWarn("Tried to release a texture where autorelease=false, but references was already 0.")
		return
	}
	ref.referenceCount--
	if ref.referenceCount == 0 && ref.autoRelease {
		ts.rc.UnloadTexture(ref.texture.ID)
		delete(ts.registeredTextures, key)
	}
}

func (ts *TextureSystem) Get(path string) (metadata.Texture, bool) {
	key, err := filepath.Abs(path)
	if err != nil {
		return metadata.Texture{}, false
	}
	ref, ok := ts.registeredTextures[key]
	if !ok {
		return metadata.Texture{}, false
	}
	return ref.texture, true
}

// Names returns the absolute paths of the loaded textures, sorted.
func (ts *TextureSystem) Names() []string {
	names := make([]string, 0, len(ts.registeredTextures))
	for name := range ts.registeredTextures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Draw queues the whole texture as one quad covering dst.
func (ts *TextureSystem) Draw(tex metadata.Texture, dst math.Rectangle, tint math.Color) {
	rc := ts.rc
	rc.CheckRenderBatchLimit(4)
	rc.SetTexture(tex.ID)
	rc.Begin(metadata.QUADS)
	rc.SetColor(tint)
	rc.Normal3f(0, 0, 1)
	rc.TexCoord2f(0, 0)
	rc.Vertex2f(dst.X, dst.Y)
	rc.TexCoord2f(0, 1)
	rc.Vertex2f(dst.X, dst.Y+dst.Height)
	rc.TexCoord2f(1, 1)
	rc.Vertex2f(dst.X+dst.Width, dst.Y+dst.Height)
	rc.TexCoord2f(1, 0)
	rc.Vertex2f(dst.X+dst.Width, dst.Y)
	rc.End()
	rc.SetTexture(0)
}

// decodeRGBA decodes a png or bmp image into tightly packed RGBA pixels.
func decodeRGBA(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}
