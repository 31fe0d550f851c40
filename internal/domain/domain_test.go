package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGasType(t *testing.T) {
	cases := map[string]struct {
		want GasType
		ok   bool
	}{
		"3kg":         {Gas3kg, true},
		"5kg":         {Gas5kg, true},
		"12kg":        {Gas12kg, true},
		"elpiji_3kg":  {Gas3kg, true},
		"bluegas_5kg": {Gas5kg, true},
		"elpiji_12kg": {Gas12kg, true},
		"50kg":        {"", false},
		"":            {"", false},
	}
	for in, tc := range cases {
		got, ok := ParseGasType(in)
		require.Equal(t, tc.ok, ok, in)
		require.Equal(t, tc.want, got, in)
	}
}

func TestCanActOnBranch(t *testing.T) {
	branch := "b-1"
	other := "b-2"

	super := Principal{UserID: "u1", Role: RoleSuperAdmin}
	require.True(t, super.CanActOnBranch(branch))
	require.True(t, super.CanActOnBranch(other))

	admin := Principal{UserID: "u2", Role: RoleBranchAdmin, BranchID: &branch}
	require.True(t, admin.CanActOnBranch(branch))
	require.False(t, admin.CanActOnBranch(other))

	orphan := Principal{UserID: "u3", Role: RoleBranchAdmin}
	require.False(t, orphan.CanActOnBranch(branch))

	customer := Principal{UserID: "u4", Role: RoleUser, BranchID: &branch}
	require.False(t, customer.CanActOnBranch(branch))
}
