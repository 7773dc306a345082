package council

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds each council member's call.
	DefaultTimeout = 120 * time.Second
	// DefaultChairmanTimeout bounds the chairman's synthesis call.
	DefaultChairmanTimeout = 180 * time.Second
)

// ErrInvalidConfig is returned by New for an unusable Config.
var ErrInvalidConfig = errors.New("invalid council config")

// Config is the immutable setup of one council.
type Config struct {
	// Models is the council. Order only affects label assignment input,
	// never result order.
	Models []string
	// Chairman synthesizes the final answer. It need not be a council member.
	Chairman string
	// Timeout bounds each Stage 1 and Stage 2 call.
	Timeout time.Duration
	// ChairmanTimeout bounds the Stage 3 call.
	ChairmanTimeout time.Duration
}

// normalize trims identifiers, drops duplicates and fills default timeouts.
func (c Config) normalize() (Config, error) {
	seen := make(map[string]bool, len(c.Models))
	models := make([]string, 0, len(c.Models))
	for _, m := range c.Models {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		models = append(models, m)
	}
	if len(models) == 0 {
		return Config{}, fmt.Errorf("%w: at least one council model is required", ErrInvalidConfig)
	}

	out := Config{
		Models:          models,
		Chairman:        strings.TrimSpace(c.Chairman),
		Timeout:         c.Timeout,
		ChairmanTimeout: c.ChairmanTimeout,
	}
	if out.Chairman == "" {
		return Config{}, fmt.Errorf("%w: chairman model is required", ErrInvalidConfig)
	}
	if out.Timeout < 0 || out.ChairmanTimeout < 0 {
		return Config{}, fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}
	if out.Timeout == 0 {
		out.Timeout = DefaultTimeout
	}
	if out.ChairmanTimeout == 0 {
		out.ChairmanTimeout = DefaultChairmanTimeout
	}
	return out, nil
}
