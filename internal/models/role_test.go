package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("user")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)

	role, err = ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseRole("superuser")
	assert.Error(t, err)

	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRole_Meets(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		required Role
		want     bool
	}{
		{"user meets user", RoleUser, RoleUser, true},
		{"admin meets user", RoleAdmin, RoleUser, true},
		{"user does not meet admin", RoleUser, RoleAdmin, false},
		{"admin meets admin", RoleAdmin, RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Meets(tt.required))
		})
	}
}
