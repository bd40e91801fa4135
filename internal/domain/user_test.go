package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanEditPlans(t *testing.T) {
	cases := []struct {
		role    Role
		canEdit bool
	}{
		{RoleAdmin, true},
		{RoleHeadNurse, true},
		{RoleViewer, false},
		{Role("未知角色"), false},
	}

	for _, tc := range cases {
		user := &User{Role: tc.role}
		assert.Equal(t, tc.canEdit, user.CanEditPlans(), "role=%s", tc.role)
	}
}
