package usecase

import (
	"strings"

	"catalog-review/pkg/utils"

	"github.com/google/uuid"
)

// ItemPolicy decides who may update and delete catalog items.
type ItemPolicy interface {
	CanManageItems(identity utils.Identity) bool
}

// AnyIdentityPolicy lets every authenticated caller manage items.
type AnyIdentityPolicy struct{}

func (AnyIdentityPolicy) CanManageItems(utils.Identity) bool { return true }

// EmailAllowListPolicy admits callers whose token email is on the list (case-insensitive).
type EmailAllowListPolicy struct {
	emails map[string]struct{}
}

func NewEmailAllowListPolicy(emails []string) *EmailAllowListPolicy {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			set[email] = struct{}{}
		}
	}
	return &EmailAllowListPolicy{emails: set}
}

func (p *EmailAllowListPolicy) CanManageItems(identity utils.Identity) bool {
	_, ok := p.emails[strings.ToLower(identity.Email)]
	return ok
}

// NewItemPolicy picks the allow list when emails are configured.
func NewItemPolicy(managerEmails []string) ItemPolicy {
	if len(managerEmails) == 0 {
		return AnyIdentityPolicy{}
	}
	return NewEmailAllowListPolicy(managerEmails)
}

// RequireOwner fails with ErrForbidden unless identity acts on its own account.
func RequireOwner(identity utils.Identity, ownerID uuid.UUID) error {
	if identity.UserID == uuid.Nil || identity.UserID != ownerID {
		return forbidden("You can only modify your own account")
	}
	return nil
}
