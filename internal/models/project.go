package models

import "time"

// Project groups tasks, invites and settings under one owner. TeamIDs has set
// semantics: a user id appears at most once.
type Project struct {
	BaseModel `bson:",inline"`

	Name        string   `gorm:"not null" json:"name" bson:"name"`
	Description string   `json:"description" bson:"description"`
	OwnerID     string   `gorm:"size:36;index;not null" json:"ownerId" bson:"ownerId"`
	TeamIDs     []string `gorm:"-" json:"teamIds" bson:"team"`

	Owner *UserSummary `gorm:"-" json:"owner,omitempty" bson:"-"`
	Team  []User       `gorm:"-" json:"team,omitempty" bson:"-"`
}

// ProjectMember is the join row backing Project.TeamIDs in the relational store.
type ProjectMember struct {
	ProjectID string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time `gorm:"index"`
}

// HasMember reports whether userID is part of the team.
func (p *Project) HasMember(userID string) bool {
	for _, id := range p.TeamIDs {
		if id == userID {
			return true
		}
	}
	return false
}
