package ltmsg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
vector:
  range: 512
  bits: 12
yaw_bits: 10
`))
	require.NoError(t, err)
	assert.Equal(t, Profile{Range: 512, Bits: 12}, cfg.Vector)
	assert.EqualValues(t, 10, cfg.YawBits)

	// Omitted keys keep their default.
	def := DefaultConfig()
	assert.Equal(t, def.Position, cfg.Position)
	assert.Equal(t, def.RotationBits, cfg.RotationBits)
	assert.Equal(t, def.Radius, cfg.Radius)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"Malformed", "vector: [1, 2"},
		{"ZeroBits", "vector: {range: 10, bits: 0}"},
		{"TooManyBits", "rotation_bits: 40"},
		{"NegativeRange", "radius: {range: -1, bits: 8}"},
		{"ZeroYaw", "yaw_bits: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quantize.yaml")
	require.NoError(t, os.WriteFile(path, []byte("position: {range: 8192, bits: 18}\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Profile{Range: 8192, Bits: 18}, cfg.Position)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProfileStep(t *testing.T) {
	p := Profile{Range: 1, Bits: 1}
	assert.InDelta(t, 2.0, p.Step(), 1e-12)
	assert.InDelta(t, 2048.0/65535, DefaultConfig().Vector.Step(), 1e-12)
}
