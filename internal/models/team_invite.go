package models

import "time"

// InviteStatus is the lifecycle state of a TeamInvite. Only pending is
// non-terminal.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusExpired  InviteStatus = "expired"
	InviteStatusRejected InviteStatus = "rejected"
)

// Terminal reports whether the status can no longer change.
func (s InviteStatus) Terminal() bool {
	return s != InviteStatusPending
}

// TeamInvite is a single-use, time-boxed code granting membership of a project.
type TeamInvite struct {
	BaseModel `bson:",inline"`

	Email       string       `gorm:"size:320;index;not null" json:"email" bson:"email"`
	Role        UserRole     `gorm:"size:16;not null;default:member" json:"role" bson:"role"`
	ProjectID   string       `gorm:"size:36;index;not null" json:"projectId" bson:"projectId"`
	InvitedByID string       `gorm:"size:36" json:"invitedById,omitempty" bson:"invitedBy,omitempty"`
	InviteCode  string       `gorm:"uniqueIndex;size:64;not null" json:"inviteCode" bson:"inviteCode"`
	ExpiresAt   time.Time    `gorm:"index" json:"expiresAt" bson:"expiresAt"`
	Status      InviteStatus `gorm:"size:16;index;not null;default:pending" json:"status" bson:"status"`
	AcceptedAt  *time.Time   `json:"acceptedAt,omitempty" bson:"acceptedAt,omitempty"`

	InvitedBy *UserSummary `gorm:"-" json:"invitedBy,omitempty" bson:"-"`
}

// Expired reports whether the invite is past its expiry at now.
func (i *TeamInvite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
