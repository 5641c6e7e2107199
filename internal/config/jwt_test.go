package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJWTConfig_Unset(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadJWTConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadJWTConfig(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"valid secret", "0123456789abcdef-secret", false},
		{"too short", "short", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)

			cfg, err := LoadJWTConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			assert.Equal(t, tt.secret, cfg.Secret)
		})
	}
}
