package service

import (
	"strings"

	"github.com/identity-service/backend/internal/apperr"
	"github.com/identity-service/backend/internal/model"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	// authorityPrefix is applied when deriving authorities from the token's
	// scope claim. Issuance writes bare role names into scope; enforcement
	// prefixes them here. The prefix must stay consistent with the role
	// arguments passed to the guards or every check fails closed.
	authorityPrefix = "ROLE_"
)

// AuthoritiesFromScope derives the caller's authorities from a space-joined
// scope claim.
func AuthoritiesFromScope(scope string) []string {
	var authorities []string
	for _, role := range strings.Fields(scope) {
		authorities = append(authorities, authorityPrefix+role)
	}
	return authorities
}

// requireRole is the pre-check guard: it runs before the operation and denies
// callers lacking the role-derived authority.
func requireRole(principal *model.Principal, role string) error {
	if principal == nil || !principal.HasAuthority(authorityPrefix+role) {
		return apperr.New(apperr.AccessDenied)
	}
	return nil
}

// requireOwnerOrAdmin is the post-check guard: the operation has already
// produced a result owned by owner, and the result is discarded unless the
// caller is the owner or holds the admin role.
func requireOwnerOrAdmin(principal *model.Principal, owner string) error {
	if principal != nil && principal.Username == owner {
		return nil
	}
	return requireRole(principal, RoleAdmin)
}
