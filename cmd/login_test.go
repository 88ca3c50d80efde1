package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     bool
	}{
		{"both present", "user@example.com", "secret", true},
		{"missing email", "", "secret", false},
		{"missing password", "user@example.com", "", false},
		{"both missing", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validateCredentials(tt.email, tt.password))
		})
	}
}
