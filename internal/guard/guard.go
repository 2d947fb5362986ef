// Package guard holds the authorization rules for board actions. The checks
// are pure: they look only at the principal.
package guard

import (
	"github.com/ayush/clubhouse/backend/internal/apperror"
	"github.com/ayush/clubhouse/backend/internal/models"
)

const (
	ReasonLogIn   = "must log in"
	ReasonMembers = "members only"
	ReasonAdmins  = "admins only"
)

func RequireAuthenticated(p models.Principal) error {
	if !p.Authenticated() {
		return apperror.NewUnauthorizedError(ReasonLogIn, nil)
	}
	return nil
}

// RequireMember allows members and admins.
func RequireMember(p models.Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.MembershipStatus != models.Member && !p.IsAdmin {
		return apperror.NewUnauthorizedError(ReasonMembers, nil)
	}
	return nil
}

func RequireAdmin(p models.Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.IsAdmin {
		return apperror.NewUnauthorizedError(ReasonAdmins, nil)
	}
	return nil
}
