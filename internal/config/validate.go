package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Window and fusion parameters
// are rejected here, before any processing starts.
func (c *Config) Validate() error {
	if err := c.validateWindowing(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateMuting(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWindowing() error {
	if c.Windowing.WindowSeconds <= 0 {
		return errors.New("windowing.window_seconds must be greater than 0")
	}
	if c.Windowing.OverlapSeconds < 0 {
		return errors.New("windowing.overlap_seconds must not be negative")
	}
	if c.Windowing.Overlap && c.Windowing.OverlapSeconds >= c.Windowing.WindowSeconds {
		return fmt.Errorf("windowing.overlap_seconds (%v) must be less than windowing.window_seconds (%v)",
			c.Windowing.OverlapSeconds, c.Windowing.WindowSeconds)
	}
	return nil
}

func (c *Config) validateDetection() error {
	if c.Detection.AdaptiveWeight <= 0 || c.Detection.AdaptiveWeight >= 1 {
		return errors.New("detection.adaptive_weight must be strictly between 0 and 1")
	}
	if c.Detection.Workers < 1 {
		return errors.New("detection.workers must be at least 1")
	}
	return nil
}

func (c *Config) validateMuting() error {
	if c.Muting.PaddingSeconds < 0 {
		return errors.New("muting.padding_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
