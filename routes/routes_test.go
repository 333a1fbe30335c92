package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorsConfig(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		allowAll    bool
		credentials bool
	}{
		{"listed origins", []string{"http://localhost:5173", "https://shop.example"}, false, true},
		{"wildcard", []string{"http://localhost:5173", "*"}, true, false},
		{"empty", nil, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := corsConfig(tt.origins)
			assert.Equal(t, tt.allowAll, cfg.AllowAllOrigins)
			assert.Equal(t, tt.credentials, cfg.AllowCredentials)
			if !tt.allowAll {
				assert.Equal(t, tt.origins, cfg.AllowOrigins)
			}
			assert.NoError(t, cfg.Validate())
		})
	}
}
