package models

import "time"

type InvitationState string

const (
	InvitationActive  InvitationState = "active"
	InvitationUsed    InvitationState = "used"
	InvitationExpired InvitationState = "expired"
)

type Invitation struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	TeamID    string    `json:"teamId"`
	CreatedBy string    `json:"-"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	Used      bool      `json:"isUsed"`
	UsedBy    string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`

	Creator  *UserSummary `json:"createdBy,omitempty"`
	Consumer *UserSummary `json:"usedBy,omitempty"`
}

// State derives the lifecycle state from the used flag and the clock.
func (i *Invitation) State(now time.Time) InvitationState {
	switch {
	case i.Used:
		return InvitationUsed
	case !now.Before(i.ExpiresAt):
		return InvitationExpired
	default:
		return InvitationActive
	}
}
