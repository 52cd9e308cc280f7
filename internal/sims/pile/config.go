package pile

import "strconv"

// Config controls the viewport and the seeding of the registered piles.
type Config struct {
	Width  int
	Height int

	// Grains is the size of the single pile dropped at the origin.
	Grains uint64

	// Drops, Radius and MaxGrains shape the random seeding.
	Drops     int
	Radius    int
	MaxGrains uint64

	Workers int
	Seed    int64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:     160,
		Height:    120,
		Grains:    1 << 14,
		Drops:     4000,
		Radius:    30,
		MaxGrains: 8,
		Workers:   1,
		Seed:      1337,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["grains"]; ok {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Grains = parsed
		}
	}
	if v, ok := cfg["drops"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Drops = parsed
		}
	}
	if v, ok := cfg["radius"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Radius = parsed
		}
	}
	if v, ok := cfg["max_grains"]; ok {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil && parsed > 0 {
			c.MaxGrains = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	return c
}
