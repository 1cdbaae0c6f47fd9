package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBaseModelBeforeCreateGeneratesID(t *testing.T) {
	var base BaseModel
	require.NoError(t, base.BeforeCreate(nil))
	require.NotEmpty(t, base.ID)
}

func TestBaseModelBeforeCreateKeepsExistingID(t *testing.T) {
	base := BaseModel{ID: "65f1c0ffee0000000000beef"}
	require.NoError(t, base.BeforeCreate(nil))
	require.Equal(t, "65f1c0ffee0000000000beef", base.ID)
}

func TestEmbeddedModelsUseBaseBeforeCreate(t *testing.T) {
	cases := []struct {
		name  string
		model func() *BaseModel
	}{
		{"user", func() *BaseModel { m := &User{}; return &m.BaseModel }},
		{"project", func() *BaseModel { m := &Project{}; return &m.BaseModel }},
		{"team_invite", func() *BaseModel { m := &TeamInvite{}; return &m.BaseModel }},
		{"task", func() *BaseModel { m := &Task{}; return &m.BaseModel }},
		{"settings", func() *BaseModel { m := &Settings{}; return &m.BaseModel }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := tc.model()
			require.NoError(t, base.BeforeCreate(nil))
			require.NotEmpty(t, base.ID)
		})
	}
}

func TestTouch(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	var base BaseModel
	base.Touch(created)
	base.Touch(later)

	require.Equal(t, created, base.CreatedAt)
	require.Equal(t, later, base.UpdatedAt)
}

func TestAvatarForRole(t *testing.T) {
	require.Equal(t, AvatarQA, AvatarForRole(RoleQA))
	require.Equal(t, AvatarDeveloper, AvatarForRole(RoleMember))
	require.Equal(t, AvatarDeveloper, AvatarForRole(RoleOwner))
}

func TestUserProjections(t *testing.T) {
	u := &User{Name: "Ada", Email: "ada@example.com", Avatar: AvatarQA, Role: RoleQA}
	u.ID = "u1"

	require.Equal(t, &UserSummary{ID: "u1", Name: "Ada", Email: "ada@example.com", Avatar: AvatarQA, Role: RoleQA}, SummaryOf(u))
	require.Equal(t, &UserSummary{ID: "u1", Name: "Ada", Email: "ada@example.com"}, RefOf(u))
	require.Nil(t, SummaryOf(nil))
}

func TestInviteStatusTerminal(t *testing.T) {
	require.False(t, InviteStatusPending.Terminal())
	require.True(t, InviteStatusAccepted.Terminal())
	require.True(t, InviteStatusExpired.Terminal())
	require.True(t, InviteStatusRejected.Terminal())
}

func TestInviteExpired(t *testing.T) {
	now := time.Now()
	invite := TeamInvite{ExpiresAt: now.Add(-time.Second)}
	require.True(t, invite.Expired(now))

	invite.ExpiresAt = now.Add(time.Minute)
	require.False(t, invite.Expired(now))
}

func TestProjectHasMember(t *testing.T) {
	p := Project{TeamIDs: []string{"a", "b"}}
	require.True(t, p.HasMember("b"))
	require.False(t, p.HasMember("c"))
}

func TestSettingsApplyDefaultsKeepsProvidedSections(t *testing.T) {
	s := Settings{Integrations: map[string]interface{}{"slack": true}}
	s.ApplyDefaults()

	require.Equal(t, true, s.Integrations["slack"])
	require.Equal(t, true, s.Notifications["mentions"])
	require.Equal(t, false, s.AISettings["autoAssign"])
	require.NotNil(t, s.General)
	require.Empty(t, s.General)
}

func TestDefaultSettingsSectionReturnsCopies(t *testing.T) {
	first := DefaultSettingsSection(SectionNotifications)
	first["email"] = false

	require.Equal(t, true, DefaultSettingsSection(SectionNotifications)["email"])
}
