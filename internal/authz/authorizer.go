// Package authz decides whether an authenticated caller role may perform an
// action on a resource. Policies are evaluated with Casbin from an in-memory
// model; the identity layer that assigns roles is an external collaborator.
package authz

import (
	"context"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// DefaultPolicies grants the admin role the order back-office operations.
var DefaultPolicies = [][]string{
	{"admin", "/orders", "list"},
}

// Authorizer evaluates access requests for a subject, resource, and action.
type Authorizer interface {
	Authorize(ctx context.Context, subject, resource, action string) (bool, error)
}

type casbinAuthorizer struct {
	enforcer casbin.IEnforcer
}

// Authorize evaluates the request against the loaded policies. Returns the
// enforcement result and an error if evaluation fails.
func (a *casbinAuthorizer) Authorize(_ context.Context, subject, resource, action string) (bool, error) {
	return a.enforcer.Enforce(subject, resource, action)
}

// NewAuthorizer creates an Authorizer backed by Casbin with the given
// policies loaded into an in-memory enforcer. Nil policies fall back to
// DefaultPolicies.
func NewAuthorizer(policies [][]string) (Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if policies == nil {
		policies = DefaultPolicies
	}
	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return &casbinAuthorizer{enforcer: enforcer}, nil
}
