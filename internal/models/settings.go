package models

import "gorm.io/datatypes"

// Settings is the per-project configuration document. Each section is
// replaced wholesale on update.
type Settings struct {
	BaseModel `bson:",inline"`

	ProjectID     string            `gorm:"uniqueIndex;size:36;not null" json:"projectId" bson:"projectId"`
	Notifications datatypes.JSONMap `json:"notifications" bson:"notifications"`
	Integrations  datatypes.JSONMap `json:"integrations" bson:"integrations"`
	AISettings    datatypes.JSONMap `gorm:"column:ai_settings" json:"aiSettings" bson:"aiSettings"`
	General       datatypes.JSONMap `json:"general" bson:"general"`
}

// Settings section names as they appear on the wire.
const (
	SectionNotifications = "notifications"
	SectionIntegrations  = "integrations"
	SectionAISettings    = "aiSettings"
	SectionGeneral       = "general"
)

// SettingsSections lists every section in a stable order.
func SettingsSections() []string {
	return []string{SectionNotifications, SectionIntegrations, SectionAISettings, SectionGeneral}
}

// DefaultSettingsSection returns a fresh copy of the default value for section.
func DefaultSettingsSection(section string) datatypes.JSONMap {
	switch section {
	case SectionNotifications:
		return datatypes.JSONMap{"email": true, "push": true, "taskUpdates": true, "mentions": true}
	case SectionAISettings:
		return datatypes.JSONMap{"enabled": true, "autoAssign": false, "riskDetection": true}
	default:
		return datatypes.JSONMap{}
	}
}

// Section returns the named section.
func (s *Settings) Section(name string) datatypes.JSONMap {
	switch name {
	case SectionNotifications:
		return s.Notifications
	case SectionIntegrations:
		return s.Integrations
	case SectionAISettings:
		return s.AISettings
	case SectionGeneral:
		return s.General
	}
	return nil
}

// SetSection replaces the named section. Unknown names are ignored.
func (s *Settings) SetSection(name string, value datatypes.JSONMap) {
	switch name {
	case SectionNotifications:
		s.Notifications = value
	case SectionIntegrations:
		s.Integrations = value
	case SectionAISettings:
		s.AISettings = value
	case SectionGeneral:
		s.General = value
	}
}

// ApplyDefaults fills every nil section with its default.
func (s *Settings) ApplyDefaults() {
	for _, name := range SettingsSections() {
		if s.Section(name) == nil {
			s.SetSection(name, DefaultSettingsSection(name))
		}
	}
}

// TableName pins the table name for the relational store.
func (Settings) TableName() string {
	return "project_settings"
}
