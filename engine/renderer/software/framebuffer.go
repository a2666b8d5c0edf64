package software

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
	"golang.org/x/image/bmp"
)

type framebuffer struct {
	name    uuid.UUID
	width   int32
	height  int32
	colorID uint32
	color   *texture
	depth   []float32
}

func newFramebuffer(width, height int32) *framebuffer {
	return &framebuffer{
		name:   uuid.New(),
		width:  width,
		height: height,
	}
}

func newDepthBuffer(width, height int32) []float32 {
	depth := make([]float32, width*height)
	for i := range depth {
		depth[i] = 1
	}
	return depth
}

// FramebufferLoad creates a framebuffer without attachments.
func (sr *SoftwareRenderer) FramebufferLoad(width, height int32) uint32 {
	if width <= 0 || height <= 0 {
		return 0
	}
	fb := newFramebuffer(width, height)
	id := sr.ids.AquireNewID(fb)
	sr.framebuffers[id] = fb
	core.LogDebug("SOFTWARE: [FBO ID %d] Framebuffer %s created (%dx%d)", id, fb.name, width, height)
	return id
}

// FramebufferAttach renders colour into texture texID, which must match the
// framebuffer size. Depth and stencil attachments get a private depth buffer.
func (sr *SoftwareRenderer) FramebufferAttach(fboID, texID uint32, attachType metadata.FramebufferAttachType) bool {
	fb, ok := sr.framebuffers[fboID]
	if !ok {
		return false
	}

	switch attachType {
	case metadata.ATTACHMENT_DEPTH, metadata.ATTACHMENT_STENCIL:
		fb.depth = newDepthBuffer(fb.width, fb.height)
		return true
	case metadata.ATTACHMENT_COLOR_CHANNEL0:
		tex, ok := sr.textures[texID]
		if !ok || tex.width != fb.width || tex.height != fb.height {
			core.LogWarn("SOFTWARE: [FBO ID %d] Cannot attach texture [ID %d]", fboID, texID)
			return false
		}
		fb.colorID = texID
		fb.color = tex
		return true
	}
	core.LogWarn("SOFTWARE: [FBO ID %d] Attachment type %d not supported", fboID, attachType)
	return false
}

// FramebufferEnable redirects rendering to framebuffer id, 0 is the screen.
func (sr *SoftwareRenderer) FramebufferEnable(id uint32) {
	if id == 0 {
		sr.target, sr.targetID = sr.screen, 0
		return
	}
	fb, ok := sr.framebuffers[id]
	if !ok {
		core.LogError("SOFTWARE: [FBO ID %d] Unknown framebuffer", id)
		return
	}
	sr.target, sr.targetID = fb, id
}

func (sr *SoftwareRenderer) FramebufferUnload(id uint32) {
	fb, ok := sr.framebuffers[id]
	if !ok {
		return
	}
	if sr.target == fb {
		sr.target, sr.targetID = sr.screen, 0
	}
	delete(sr.framebuffers, id)
	if err := sr.ids.ReleaseID(id); err != nil {
		core.LogError("SOFTWARE: %s", err)
	}
}

// Image returns a copy of the screen.
func (sr *SoftwareRenderer) Image() *image.RGBA {
	return sr.screen.image()
}

func (fb *framebuffer) image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(fb.width), int(fb.height)))
	if fb.color != nil {
		copy(img.Pix, fb.color.pix)
	}
	return img
}

// WriteBMP encodes the screen as a BMP image.
func (sr *SoftwareRenderer) WriteBMP(w io.Writer) error {
	return bmp.Encode(w, sr.Image())
}

// SaveBMP writes the screen to a BMP file at path.
func (sr *SoftwareRenderer) SaveBMP(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save screen %s: %w", sr.screen.name, err)
	}
	if err := sr.WriteBMP(f); err != nil {
		f.Close()
		return fmt.Errorf("save screen %s: %w", sr.screen.name, err)
	}
	return f.Close()
}
