package models

import "time"

// UserRole enumerates the roles a project member can hold.
type UserRole string

const (
	RoleOwner  UserRole = "owner"
	RoleMember UserRole = "member"
	RoleQA     UserRole = "qa"
)

// UserStatus tracks where a user is in the onboarding flow.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInvited  UserStatus = "invited"
	UserStatusInactive UserStatus = "inactive"
)

// Avatars assigned on account creation.
const (
	AvatarOwner     = "👩‍💼"
	AvatarQA        = "👩‍🎨"
	AvatarDeveloper = "👨‍💻"
)

// User is a person known to the system. Users are never hard-deleted.
type User struct {
	BaseModel `bson:",inline"`

	Name   string     `gorm:"not null" json:"name" bson:"name"`
	Email  string     `gorm:"uniqueIndex;size:320;not null" json:"email" bson:"email"`
	Role   UserRole   `gorm:"size:16;not null;default:member" json:"role" bson:"role"`
	Status UserStatus `gorm:"size:16;not null;default:active" json:"status" bson:"status"`
	Avatar string     `json:"avatar" bson:"avatar"`

	InvitedByID *string    `gorm:"size:36" json:"invitedById,omitempty" bson:"invitedBy,omitempty"`
	InvitedAt   *time.Time `json:"invitedAt,omitempty" bson:"invitedAt,omitempty"`
	AcceptedAt  *time.Time `json:"acceptedAt,omitempty" bson:"acceptedAt,omitempty"`
}

// Roles lists every valid role value.
func Roles() []UserRole {
	return []UserRole{RoleOwner, RoleMember, RoleQA}
}

// AvatarForRole returns the default avatar for a newly created member.
func AvatarForRole(role UserRole) string {
	if role == RoleQA {
		return AvatarQA
	}
	return AvatarDeveloper
}

// UserSummary is the embedded projection of a referenced user.
type UserSummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Avatar string   `json:"avatar,omitempty"`
	Role   UserRole `json:"role,omitempty"`
}

// SummaryOf projects a user to {id,name,email,avatar,role}.
func SummaryOf(u *User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar, Role: u.Role}
}

// RefOf projects a user to {id,name,email}.
func RefOf(u *User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
