package invitation

import (
	"strings"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/pkg/validator"
)

type CreateInviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (r *CreateInviteRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Role == "" {
		r.Role = string(RolePersonal)
	}

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email is invalid")
	}
	if !Role(r.Role).Valid() {
		errs.Add("role", "role must be admin or personal")
	}
	return errs.OrNil()
}

// SendInviteRequest is the input of the invite email action. Missing fields
// are reported by the action itself, not by Validate.
type SendInviteRequest struct {
	To   string `json:"to"`
	Link string `json:"link"`
}

// InviteLookupResponse backs the registration deep link screen.
type InviteLookupResponse struct {
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Status Status `json:"status"`
	Valid  bool   `json:"valid"`
}
