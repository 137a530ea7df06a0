package heap

import (
	"fmt"
	"os"
	"unsafe"

	"gopkg.in/yaml.v3"
)

// minBlockSize is the smallest configurable block size: the free-list link
// occupies the first machine word of every freed block.
const minBlockSize = int(unsafe.Sizeof(uintptr(0)))

// DefaultConfig is a general-purpose layout: power-of-two size classes
// from one word to 4KB, denser at the small end where most requests land.
var DefaultConfig = Config{Pools: []PoolConfig{
	{BlockSize: 8, Capacity: 512},
	{BlockSize: 16, Capacity: 512},
	{BlockSize: 32, Capacity: 256},
	{BlockSize: 64, Capacity: 256},
	{BlockSize: 128, Capacity: 128},
	{BlockSize: 256, Capacity: 64},
	{BlockSize: 512, Capacity: 32},
	{BlockSize: 1024, Capacity: 16},
	{BlockSize: 2048, Capacity: 8},
	{BlockSize: 4096, Capacity: 4},
}}

// PoolConfig describes one size-class pool.
type PoolConfig struct {
	BlockSize int `yaml:"block_size"`
	Capacity  int `yaml:"capacity"`
}

// Config is the static pool layout consumed by New. Pools must be listed
// ascending by block size; New lays their address ranges out contiguously
// in the same order, which establishes the dual ordering the dispatcher's
// binary searches rely on.
type Config struct {
	Pools []PoolConfig `yaml:"pools"`
}

// LoadConfig reads a YAML pool configuration from path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML pool configuration.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	return cfg, nil
}

// Validate checks what the dispatcher itself, by contract, never does:
// at least one pool, strictly ascending block sizes, positive capacities,
// and block sizes of at least one machine word.
func (c Config) Validate() error {
	if len(c.Pools) == 0 {
		return fmt.Errorf("%w: no pools", ErrBadConfig)
	}
	prev := 0
	for i, p := range c.Pools {
		if p.BlockSize < minBlockSize {
			return fmt.Errorf("%w: pool %d: block size %d is below the %d-byte minimum",
				ErrBadConfig, i, p.BlockSize, minBlockSize)
		}
		if p.BlockSize <= prev {
			return fmt.Errorf("%w: pool %d: block size %d not strictly ascending",
				ErrBadConfig, i, p.BlockSize)
		}
		if p.Capacity <= 0 {
			return fmt.Errorf("%w: pool %d: capacity %d must be positive",
				ErrBadConfig, i, p.Capacity)
		}
		prev = p.BlockSize
	}
	return nil
}

// TotalSize returns the arena size the configuration needs.
func (c Config) TotalSize() int {
	total := 0
	for _, p := range c.Pools {
		total += p.BlockSize * p.Capacity
	}
	return total
}
