package ltmsg

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile describes the fixed-point quantization of one scalar: values are
// clamped to Range and packed into Bits bits.
type Profile struct {
	Range float32 `yaml:"range"`
	Bits  uint    `yaml:"bits"`
}

// Step returns the distance between two neighbouring grid points of a
// signed profile over [-Range, Range].
func (p Profile) Step() float64 {
	return 2 * float64(p.Range) / float64(mask(p.Bits))
}

func (p Profile) validate(name string) error {
	if p.Bits == 0 || p.Bits > 32 {
		return fmt.Errorf("%w: %s bits %d outside 1..32", ErrInvalidConfig, name, p.Bits)
	}
	if !(p.Range > 0) || math.IsInf(float64(p.Range), 0) {
		return fmt.Errorf("%w: %s range %v must be positive and finite", ErrInvalidConfig, name, p.Range)
	}
	return nil
}

// Config holds the quantization profiles used by the compressed writers and
// readers. Both ends of a connection must use the same Config.
type Config struct {
	// Vector applies to WriteCompVector: arbitrary directions and velocities.
	Vector Profile `yaml:"vector"`
	// Position applies to WriteCompPos: world-space positions.
	Position Profile `yaml:"position"`
	// RotationBits is the width of each of the three transmitted quaternion components.
	RotationBits uint `yaml:"rotation_bits"`
	// YawBits is the width of an angle over [0, 2π). 9 bits is about 0.7°.
	YawBits uint `yaml:"yaw_bits"`
	// Radius applies to the radius of WriteCompPolar, over [0, Range].
	Radius Profile `yaml:"radius"`
}

// DefaultConfig returns the default quantization scheme.
func DefaultConfig() *Config {
	return &Config{
		Vector:       Profile{Range: 1024, Bits: 16},
		Position:     Profile{Range: 16384, Bits: 20},
		RotationBits: 16,
		YawBits:      9,
		Radius:       Profile{Range: 1024, Bits: 16},
	}
}

var defaultConfig = DefaultConfig()

// Validate reports whether every profile is usable.
func (c *Config) Validate() error {
	if err := c.Vector.validate("vector"); err != nil {
		return err
	}
	if err := c.Position.validate("position"); err != nil {
		return err
	}
	if err := c.Radius.validate("radius"); err != nil {
		return err
	}
	if c.RotationBits == 0 || c.RotationBits > 32 {
		return fmt.Errorf("%w: rotation bits %d outside 1..32", ErrInvalidConfig, c.RotationBits)
	}
	if c.YawBits == 0 || c.YawBits > 32 {
		return fmt.Errorf("%w: yaw bits %d outside 1..32", ErrInvalidConfig, c.YawBits)
	}
	return nil
}

// ParseConfig decodes a YAML document on top of DefaultConfig, so omitted
// keys keep their default value.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}
