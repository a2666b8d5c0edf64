package renderer

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/rlgo/engine/core"
	"github.com/spaghettifunk/rlgo/engine/renderer/metadata"
)

// Config sizes the render batches and the matrix stack. It is read from the
// [renderer] table of the application configuration.
type Config struct {
	// Quads per vertex buffer.
	BatchBufferElements int `toml:"batch_buffer_elements"`
	// Vertex buffers rotated by the default batch.
	BatchBuffers int `toml:"batch_buffers"`
	// Draw calls a batch can hold before it is flushed.
	BatchDrawCalls int `toml:"batch_draw_calls"`
	// Auxiliary texture units available to SetUniformSampler.
	BatchMaxTextureUnits int     `toml:"batch_max_texture_units"`
	MatrixStackSize      int     `toml:"matrix_stack_size"`
	CullDistanceNear     float64 `toml:"cull_distance_near"`
	CullDistanceFar      float64 `toml:"cull_distance_far"`
}

func DefaultConfig() Config {
	return Config{
		BatchBufferElements:  metadata.DEFAULT_BATCH_BUFFER_ELEMENTS,
		BatchBuffers:         metadata.DEFAULT_BATCH_BUFFERS,
		BatchDrawCalls:       metadata.DEFAULT_BATCH_DRAWCALLS,
		BatchMaxTextureUnits: metadata.DEFAULT_BATCH_MAX_TEXTURE_UNITS,
		MatrixStackSize:      metadata.MAX_MATRIX_STACK_SIZE,
		CullDistanceNear:     metadata.CULL_DISTANCE_NEAR,
		CullDistanceFar:      metadata.CULL_DISTANCE_FAR,
	}
}

// ParseConfig decodes a TOML document on top of the default values.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("renderer config: %w", err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.BatchBufferElements <= 0:
		return fmt.Errorf("%w: batch_buffer_elements must be positive, got %d", core.ErrInvalidBatchConfig, c.BatchBufferElements)
	case c.BatchBuffers <= 0:
		return fmt.Errorf("%w: batch_buffers must be positive, got %d", core.ErrInvalidBatchConfig, c.BatchBuffers)
	case c.BatchDrawCalls <= 0:
		return fmt.Errorf("%w: batch_draw_calls must be positive, got %d", core.ErrInvalidBatchConfig, c.BatchDrawCalls)
	case c.BatchMaxTextureUnits < 0:
		return fmt.Errorf("%w: batch_max_texture_units must not be negative, got %d", core.ErrInvalidBatchConfig, c.BatchMaxTextureUnits)
	case c.MatrixStackSize <= 0:
		return fmt.Errorf("%w: matrix_stack_size must be positive, got %d", core.ErrInvalidBatchConfig, c.MatrixStackSize)
	case c.CullDistanceNear <= 0 || c.CullDistanceFar <= c.CullDistanceNear:
		return fmt.Errorf("%w: cull distances must satisfy 0 < near < far, got %g/%g", core.ErrInvalidBatchConfig, c.CullDistanceNear, c.CullDistanceFar)
	}
	return nil
}
