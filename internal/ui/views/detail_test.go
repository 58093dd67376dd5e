package views

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loopstate/loopstate/internal/models"
)

func newTestDetailView() *DetailView {
	user := &models.User{ID: 5, Username: "ada"}
	v := NewDetailView(nil, fakeIdentity{user: user}, 7)
	v.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return v
}

func TestCommentOptimisticPrepend(t *testing.T) {
	v := newTestDetailView()
	v.comments = []models.Comment{{ID: 1, Content: "existing"}}

	v.comment.SetValue("love this groove")
	cmd := v.submitComment()
	require.NotNil(t, cmd)

	require.Len(t, v.comments, 2)
	pending := v.comments[0]
	require.Equal(t, "love this groove", pending.Content)
	require.NotEmpty(t, pending.LocalTag)
	require.Equal(t, int64(5), pending.UserID)
	require.Equal(t, "ada", pending.User.Username)
	require.Empty(t, v.comment.Value())
}

func TestCommentAckSwapsInServerCopy(t *testing.T) {
	v := newTestDetailView()
	v.comment.SetValue("love this groove")
	v.submitComment()
	tag := v.comments[0].LocalTag

	v.Update(commentAckMsg{tag: tag, comment: &models.Comment{
		ID:      99,
		Content: "love this groove",
	}})

	require.Len(t, v.comments, 1)
	require.Equal(t, int64(99), v.comments[0].ID)
	require.Empty(t, v.comments[0].LocalTag)
}

func TestCommentNackRollsBackAndRestoresText(t *testing.T) {
	v := newTestDetailView()
	v.comments = []models.Comment{{ID: 1, Content: "existing"}}
	v.comment.SetValue("love this groove")
	v.submitComment()
	tag := v.comments[0].LocalTag

	v.Update(commentNackMsg{tag: tag, content: "love this groove", err: errors.New("backend down")})

	require.Len(t, v.comments, 1)
	require.Equal(t, "existing", v.comments[0].Content)
	require.Equal(t, "love this groove", v.comment.Value())
	require.Contains(t, v.actionErr, "backend down")
}

func TestCommentRequiresContentAndIdentity(t *testing.T) {
	v := newTestDetailView()
	v.comment.SetValue("   ")
	require.Nil(t, v.submitComment())
	require.Empty(t, v.comments)

	anon := NewDetailView(nil, fakeIdentity{}, 7)
	anon.comment.SetValue("hello")
	require.Nil(t, anon.submitComment())
	require.Empty(t, anon.comments)
	require.NotEmpty(t, anon.actionErr)
}

func TestFileUploadPrepends(t *testing.T) {
	v := newTestDetailView()
	v.files = []models.ProjectFile{{ID: 1, Filename: "old.wav"}}

	v.Update(fileUploadedMsg{file: &models.ProjectFile{ID: 2, Filename: "new.wav"}})

	require.Len(t, v.files, 2)
	require.Equal(t, "new.wav", v.files[0].Filename)
	require.Contains(t, v.notice, "new.wav")
}

func TestRequestableRolesPreferProjectNeeds(t *testing.T) {
	v := newTestDetailView()
	v.project = &models.Project{CollaborationNeed: models.RoleList{"Vocalist", "DJ"}}
	require.Equal(t, []string{"Vocalist", "DJ"}, v.requestableRoles())

	v.project.CollaborationNeed = nil
	require.Equal(t, models.CollaborationRoles, v.requestableRoles())
}

func TestCanSelectWinner(t *testing.T) {
	v := newTestDetailView()
	require.False(t, v.canSelectWinner())

	v.project = &models.Project{
		MonetizationType: models.MonetizationBounty,
		Creator:          &models.User{ID: 5},
		Collaborators:    []models.Collaborator{{ID: 1, UserID: 9, Role: "Producer"}},
	}
	require.True(t, v.canSelectWinner())

	// Not the owner
	v.project.Creator = &models.User{ID: 6}
	require.False(t, v.canSelectWinner())

	// Not a bounty project
	v.project.Creator = &models.User{ID: 5}
	v.project.MonetizationType = models.MonetizationFree
	require.False(t, v.canSelectWinner())

	// No collaborators yet
	v.project.MonetizationType = models.MonetizationBounty
	v.project.Collaborators = nil
	require.False(t, v.canSelectWinner())
}

func TestProjectLoadPopulatesNested(t *testing.T) {
	v := newTestDetailView()
	v.loading = true

	v.Update(projectLoadedMsg{project: &models.Project{
		ID:       7,
		Title:    "Midnight Loop",
		Comments: []models.Comment{{ID: 1}},
		Files:    []models.ProjectFile{{ID: 2}},
	}})

	require.False(t, v.loading)
	require.Equal(t, "Midnight Loop", v.project.Title)
	require.Len(t, v.comments, 1)
	require.Len(t, v.files, 1)
}
