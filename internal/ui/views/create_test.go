package views

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loopstate/loopstate/internal/models"
)

type fakeIdentity struct {
	user *models.User
}

func (f fakeIdentity) IsLoggedIn() bool          { return f.user != nil }
func (f fakeIdentity) CurrentUser() *models.User { return f.user }
func (f fakeIdentity) Login() error              { return nil }
func (f fakeIdentity) Logout() error             { return nil }

func TestCreateFirstStepGating(t *testing.T) {
	v := NewCreateView(nil, fakeIdentity{})

	require.False(t, v.canAdvance())

	v.title.SetValue("Midnight Loop")
	require.False(t, v.canAdvance())

	v.description.SetValue("Four bars of synthwave looking for vocals")
	require.False(t, v.canAdvance())

	v.genreIdx = 1
	require.True(t, v.canAdvance())

	// Whitespace-only values do not count.
	v.title.SetValue("   ")
	require.False(t, v.canAdvance())
}

func TestCreateLaterStepsAlwaysAdvance(t *testing.T) {
	v := NewCreateView(nil, fakeIdentity{})
	for _, step := range []int{stepCollaboration, stepMonetization, stepFiles} {
		v.step = step
		require.True(t, v.canAdvance())
	}
}

func TestCreateBuildRequestEmptyOptionals(t *testing.T) {
	v := NewCreateView(nil, fakeIdentity{})
	v.title.SetValue("  Midnight Loop  ")
	v.description.SetValue("wip")
	v.genreIdx = 1

	req := v.buildRequest(42)

	require.Equal(t, "Midnight Loop", req.Title)
	require.Equal(t, models.Genres[0], req.Genre)
	require.Equal(t, int64(42), req.CreatorID)
	require.Nil(t, req.BPM)
	require.Nil(t, req.BountyAmount)
	require.Nil(t, req.UnlockPrice)
	require.Empty(t, req.Key)
	require.Equal(t, models.MonetizationFree, req.MonetizationType)
	require.False(t, req.IsUnlockable)
}

func TestCreateBuildRequestBounty(t *testing.T) {
	v := NewCreateView(nil, fakeIdentity{})
	v.title.SetValue("Drill beat")
	v.description.SetValue("needs a rapper")
	v.genreIdx = 1
	v.bpm.SetValue("140")
	v.monetization = models.MonetizationBounty
	v.bountyAmount.SetValue("250.50")
	v.bountyDeadline.SetValue("2026-10-01")
	v.roles = []string{"Rapper", "Mix Engineer"}

	req := v.buildRequest(7)

	require.NotNil(t, req.BPM)
	require.Equal(t, 140, *req.BPM)
	require.NotNil(t, req.BountyAmount)
	require.Equal(t, 250.50, *req.BountyAmount)
	require.Equal(t, "2026-10-01", req.BountyDeadline)
	require.Equal(t, models.RoleList{"Rapper", "Mix Engineer"}, req.CollaborationNeed)
	require.False(t, req.IsUnlockable)
}

func TestCreateBuildRequestUnlockable(t *testing.T) {
	v := NewCreateView(nil, fakeIdentity{})
	v.title.SetValue("Stems pack")
	v.description.SetValue("full session available")
	v.genreIdx = 2
	v.monetization = models.MonetizationUnlockable
	v.unlockPrice.SetValue("4.99")

	req := v.buildRequest(7)

	require.True(t, req.IsUnlockable)
	require.NotNil(t, req.UnlockPrice)
	require.Equal(t, 4.99, *req.UnlockPrice)
	require.Nil(t, req.BountyAmount)
}

func TestCreateFailureKeepsDraft(t *testing.T) {
	v := NewCreateView(nil, fakeIdentity{})
	v.title.SetValue("Midnight Loop")
	v.description.SetValue("wip")
	v.genreIdx = 1
	v.step = stepFiles
	v.submitting = true

	v.Update(projectCreateErrMsg{err: errors.New("server unreachable")})

	require.False(t, v.submitting)
	require.Equal(t, "server unreachable", v.submitErr)
	require.Equal(t, stepFiles, v.step)
	require.Equal(t, "Midnight Loop", v.title.Value())
	require.Equal(t, 1, v.genreIdx)
}

func TestCreateSuccessResetsAndAnnounces(t *testing.T) {
	v := NewCreateView(nil, fakeIdentity{})
	v.title.SetValue("Midnight Loop")
	v.description.SetValue("wip")
	v.genreIdx = 1
	v.step = stepFiles
	v.roles = []string{"Vocalist"}
	v.submitting = true

	created := &models.Project{ID: 31, Title: "Midnight Loop"}
	_, cmd := v.Update(projectCreatedMsg{project: created})

	require.Equal(t, stepBasic, v.step)
	require.Empty(t, v.title.Value())
	require.Empty(t, v.roles)
	require.False(t, v.submitting)

	require.NotNil(t, cmd)
	msg := cmd()
	announced, ok := msg.(ProjectCreated)
	require.True(t, ok)
	require.Equal(t, int64(31), announced.Project.ID)
}

func TestCreateAdvanceBlockedShowsError(t *testing.T) {
	v := NewCreateView(nil, fakeIdentity{})

	_, cmd := v.advance()
	require.Nil(t, cmd)
	require.Equal(t, stepBasic, v.step)
	require.NotEmpty(t, v.submitErr)
}
