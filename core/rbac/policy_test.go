package rbac

import "testing"

func TestDefaultRolePermissions(t *testing.T) {
	policy, err := NewPolicy(DefaultRoles())
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	cases := []struct {
		roles []string
		perm  string
		want  bool
	}{
		{[]string{"admin"}, "template.manage", true},
		{[]string{"admin"}, "retention.manage", true},
		{[]string{"member"}, "analyses.read", true},
		{[]string{"member"}, "template.manage", false},
		{[]string{"member", "admin"}, "template.manage", true},
		{[]string{}, "analyses.read", false},
		{[]string{"ghost"}, "analyses.read", false},
	}
	for _, tc := range cases {
		if got := policy.Allowed(tc.roles, tc.perm); got != tc.want {
			t.Fatalf("Allowed(%v, %q) = %v, want %v", tc.roles, tc.perm, got, tc.want)
		}
	}
}

func TestNilPolicyDeniesEverything(t *testing.T) {
	var p *Policy
	if p.Allowed([]string{"admin"}, "template.manage") {
		t.Fatalf("nil policy must deny")
	}
}
