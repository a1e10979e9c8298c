package rbac

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const policyModel = `
[request_definition]
r = sub, perm

[policy_definition]
p = sub, perm

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.perm == p.perm
`

type Role struct {
	Name        string
	Permissions []string
}

// DefaultRoles covers the two principals this service knows about.
func DefaultRoles() []Role {
	return []Role{
		{Name: "admin", Permissions: []string{
			"template.manage",
			"retention.manage",
			"analyses.read",
		}},
		{Name: "member", Permissions: []string{
			"analyses.read",
		}},
	}
}

type Policy struct {
	enforcer *casbin.Enforcer
}

func NewPolicy(roles []Role) (*Policy, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac enforcer: %w", err)
	}
	for _, role := range roles {
		for _, perm := range role.Permissions {
			if _, err := e.AddPolicy(role.Name, perm); err != nil {
				return nil, fmt.Errorf("rbac policy %s/%s: %w", role.Name, perm, err)
			}
		}
	}
	return &Policy{enforcer: e}, nil
}

// Allowed reports whether any of the given roles grants the permission.
func (p *Policy) Allowed(roles []string, perm string) bool {
	if p == nil {
		return false
	}
	for _, role := range roles {
		ok, err := p.enforcer.Enforce(role, perm)
		if err == nil && ok {
			return true
		}
	}
	return false
}
