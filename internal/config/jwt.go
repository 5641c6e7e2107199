// Package config provides JWT configuration functionality.
package config

import (
	"fmt"
	"os"
)

// JWTConfig holds configuration for JWT token validation.
type JWTConfig struct {
	Secret string
}

// LoadJWTConfig reads JWT_SECRET from the environment.
// It returns nil when the variable is unset or empty, which leaves authentication off.
func LoadJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, nil
	}

	config := &JWTConfig{Secret: secret}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters, got: %d", len(c.Secret))
	}
	return nil
}
