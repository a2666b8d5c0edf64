package renderer

import "github.com/spaghettifunk/rlgo/engine/renderer/metadata"

// blendStateFor returns the factors and equations implementing mode.
func (rc *RenderContext) blendStateFor(mode metadata.BlendMode) metadata.BlendState {
	same := func(src, dst, eq int32) metadata.BlendState {
		return metadata.BlendState{SrcRGB: src, DstRGB: dst, SrcAlpha: src, DstAlpha: dst, EqRGB: eq, EqAlpha: eq}
	}

	switch mode {
	case metadata.BLEND_ADDITIVE:
		return same(metadata.GL_SRC_ALPHA, metadata.GL_ONE, metadata.GL_FUNC_ADD)
	case metadata.BLEND_MULTIPLIED:
		return same(metadata.GL_DST_COLOR, metadata.GL_ONE_MINUS_SRC_ALPHA, metadata.GL_FUNC_ADD)
	case metadata.BLEND_ADD_COLORS:
		return same(metadata.GL_ONE, metadata.GL_ONE, metadata.GL_FUNC_ADD)
	case metadata.BLEND_SUBTRACT_COLORS:
		return same(metadata.GL_ONE, metadata.GL_ONE, metadata.GL_FUNC_SUBTRACT)
	case metadata.BLEND_ALPHA_PREMULTIPLY:
		return same(metadata.GL_ONE, metadata.GL_ONE_MINUS_SRC_ALPHA, metadata.GL_FUNC_ADD)
	case metadata.BLEND_CUSTOM:
		f := rc.blendFactors
		return same(f.SrcRGB, f.DstRGB, f.EqRGB)
	case metadata.BLEND_CUSTOM_SEPARATE:
		return rc.blendFactorsSep
	default:
		return same(metadata.GL_SRC_ALPHA, metadata.GL_ONE_MINUS_SRC_ALPHA, metadata.GL_FUNC_ADD)
	}
}

// SetBlendMode draws the pending vertices with the previous mode before
// switching. Custom modes are re-applied when their factors changed.
func (rc *RenderContext) SetBlendMode(mode metadata.BlendMode) {
	custom := mode == metadata.BLEND_CUSTOM || mode == metadata.BLEND_CUSTOM_SEPARATE
	if rc.currentBlendMode == mode && !(custom && rc.customBlendModified) {
		return
	}

	rc.DrawRenderBatch(rc.currentBatch)
	rc.backend.SetBlendState(rc.blendStateFor(mode))

	rc.currentBlendMode = mode
	rc.customBlendModified = false
}

func (rc *RenderContext) BlendMode() metadata.BlendMode {
	return rc.currentBlendMode
}

// SetBlendFactors configures BLEND_CUSTOM.
func (rc *RenderContext) SetBlendFactors(srcFactor, dstFactor, equation int32) {
	f := &rc.blendFactors
	if f.SrcRGB == srcFactor && f.DstRGB == dstFactor && f.EqRGB == equation {
		return
	}
	*f = metadata.BlendState{
		SrcRGB: srcFactor, DstRGB: dstFactor,
		SrcAlpha: srcFactor, DstAlpha: dstFactor,
		EqRGB: equation, EqAlpha: equation,
	}
	rc.customBlendModified = true
}

// SetBlendFactorsSeparate configures BLEND_CUSTOM_SEPARATE.
func (rc *RenderContext) SetBlendFactorsSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha, eqRGB, eqAlpha int32) {
	state := metadata.BlendState{
		SrcRGB: srcRGB, DstRGB: dstRGB,
		SrcAlpha: srcAlpha, DstAlpha: dstAlpha,
		EqRGB: eqRGB, EqAlpha: eqAlpha,
	}
	if rc.blendFactorsSep == state {
		return
	}
	rc.blendFactorsSep = state
	rc.customBlendModified = true
}
