package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/loopstate/loopstate/internal/api"
	"github.com/loopstate/loopstate/internal/auth"
	"github.com/loopstate/loopstate/internal/models"
	"github.com/loopstate/loopstate/internal/timeago"
	"github.com/loopstate/loopstate/internal/ui/keys"
	"github.com/loopstate/loopstate/internal/ui/styles"
)

// BackToExplore returns the app to the explore view
type BackToExplore struct{}

type projectLoadedMsg struct {
	project *models.Project
}

type projectLoadErrMsg struct {
	err error
}

type commentAckMsg struct {
	tag     string
	comment *models.Comment
}

type commentNackMsg struct {
	tag     string
	content string
	err     error
}

type fileUploadedMsg struct {
	file *models.ProjectFile
}

type fileUploadErrMsg struct {
	err error
}

type collabSentMsg struct {
	collaborator *models.Collaborator
}

type collabErrMsg struct {
	err error
}

type winnerSelectedMsg struct {
	project *models.Project
}

type winnerErrMsg struct {
	err error
}

// DetailView shows one project with its comments, files and collaborators.
// Comment submission is optimistic: the entry appears immediately with a
// local tag, then is swapped for the server copy on success or rolled back
// on failure with the text restored for retry.
type DetailView struct {
	client   *api.Client
	identity auth.Identity
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int

	projectID int64
	project   *models.Project
	comments  []models.Comment
	files     []models.ProjectFile

	loading bool
	loadErr string

	comment    textarea.Model
	uploadPath textinput.Model
	spin       spinner.Model

	focusIdx int // 0=comment, 1=upload, 2=body

	collaborating bool
	roleIdx       int

	selectingWinner bool
	winnerIdx       int

	actionErr string
	notice    string

	now func() time.Time
}

func NewDetailView(client *api.Client, identity auth.Identity, projectID int64) *DetailView {
	s := styles.NewStyles()

	comment := textarea.New()
	comment.Placeholder = "Leave a comment..."
	comment.SetWidth(60)
	comment.SetHeight(2)
	comment.ShowLineNumbers = false

	uploadPath := textinput.New()
	uploadPath.Placeholder = "path to file to upload"
	uploadPath.CharLimit = 255

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = s.Title

	return &DetailView{
		client:     client,
		identity:   identity,
		styles:     s,
		keys:       keys.DefaultKeyMap(),
		projectID:  projectID,
		comment:    comment,
		uploadPath: uploadPath,
		spin:       spin,
		focusIdx:   2,
		now:        time.Now,
	}
}

func (v *DetailView) Init() tea.Cmd {
	return v.load()
}

func (v *DetailView) load() tea.Cmd {
	client := v.client
	id := v.projectID
	v.loading = true
	v.loadErr = ""
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		project, err := client.GetProject(id)
		if err != nil {
			return projectLoadErrMsg{err: err}
		}
		return projectLoadedMsg{project: project}
	})
}

func (v *DetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case projectLoadedMsg:
		v.loading = false
		v.project = msg.project
		v.comments = msg.project.Comments
		v.files = msg.project.Files
		return v, nil

	case projectLoadErrMsg:
		v.loading = false
		v.loadErr = msg.err.Error()
		return v, nil

	case commentAckMsg:
		for i := range v.comments {
			if v.comments[i].LocalTag == msg.tag {
				v.comments[i] = *msg.comment
				break
			}
		}
		return v, nil

	case commentNackMsg:
		// Roll the optimistic entry back and restore the text for retry.
		for i := range v.comments {
			if v.comments[i].LocalTag == msg.tag {
				v.comments = append(v.comments[:i], v.comments[i+1:]...)
				break
			}
		}
		v.comment.SetValue(msg.content)
		v.actionErr = "comment failed: " + msg.err.Error()
		return v, nil

	case fileUploadedMsg:
		v.files = append([]models.ProjectFile{*msg.file}, v.files...)
		v.uploadPath.Reset()
		v.notice = "uploaded " + msg.file.Filename
		return v, nil

	case fileUploadErrMsg:
		v.actionErr = "upload failed: " + msg.err.Error()
		return v, nil

	case collabSentMsg:
		v.collaborating = false
		v.notice = "collaboration request sent as " + msg.collaborator.Role
		return v, nil

	case collabErrMsg:
		v.collaborating = false
		v.actionErr = "request failed: " + msg.err.Error()
		return v, nil

	case winnerSelectedMsg:
		v.selectingWinner = false
		v.project = msg.project
		v.notice = "bounty winner selected"
		return v, nil

	case winnerErrMsg:
		v.selectingWinner = false
		v.actionErr = "winner selection failed: " + msg.err.Error()
		return v, nil

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}

	return v, nil
}

func (v *DetailView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return v, tea.Quit
	}

	if v.collaborating {
		return v.updateCollaborating(msg)
	}
	if v.selectingWinner {
		return v.updateSelectingWinner(msg)
	}

	switch {
	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateFocus()
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Back):
		if v.focusIdx != 2 {
			v.focusIdx = 2
			v.updateFocus()
			return v, nil
		}
		return v, func() tea.Msg { return BackToExplore{} }
	}

	switch v.focusIdx {
	case 0:
		return v.updateComment(msg)
	case 1:
		return v.updateUpload(msg)
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Retry):
		if v.loadErr != "" {
			return v, v.load()
		}
	case msg.String() == "c":
		if v.identity.IsLoggedIn() {
			v.collaborating = true
			v.roleIdx = 0
			return v, nil
		}
		v.actionErr = "sign in to request collaboration"
	case msg.String() == "w":
		if v.canSelectWinner() {
			v.selectingWinner = true
			v.winnerIdx = 0
			return v, nil
		}
	}
	return v, nil
}

func (v *DetailView) updateComment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		return v, v.submitComment()
	}
	var cmd tea.Cmd
	v.comment, cmd = v.comment.Update(msg)
	return v, cmd
}

// submitComment prepends an optimistic entry tagged with a local id, then
// posts it. The tag links the eventual ack or nack back to the entry.
func (v *DetailView) submitComment() tea.Cmd {
	content := strings.TrimSpace(v.comment.Value())
	if content == "" {
		return nil
	}
	user := v.identity.CurrentUser()
	if user == nil {
		v.actionErr = "sign in to comment"
		return nil
	}

	tag := uuid.NewString()
	now := models.Timestamp{Time: v.now()}
	v.comments = append([]models.Comment{{
		ProjectID: v.projectID,
		UserID:    user.ID,
		Content:   content,
		User:      user,
		CreatedAt: &now,
		LocalTag:  tag,
	}}, v.comments...)
	v.comment.Reset()
	v.actionErr = ""

	client := v.client
	projectID := v.projectID
	userID := user.ID
	return func() tea.Msg {
		comment, err := client.AddComment(projectID, api.CommentRequest{
			Content: content,
			UserID:  userID,
		})
		if err != nil {
			return commentNackMsg{tag: tag, content: content, err: err}
		}
		return commentAckMsg{tag: tag, comment: comment}
	}
}

func (v *DetailView) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, v.keys.Enter) {
		return v, v.uploadFile()
	}
	var cmd tea.Cmd
	v.uploadPath, cmd = v.uploadPath.Update(msg)
	return v, cmd
}

func (v *DetailView) uploadFile() tea.Cmd {
	path := strings.TrimSpace(v.uploadPath.Value())
	if path == "" {
		return nil
	}
	user := v.identity.CurrentUser()
	if user == nil {
		v.actionErr = "sign in to upload files"
		return nil
	}

	client := v.client
	projectID := v.projectID
	userID := user.ID
	v.actionErr = ""
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return fileUploadErrMsg{err: err}
		}
		defer f.Close()
		uploaded, err := client.UploadFile(projectID, userID, filepath.Base(path), f)
		if err != nil {
			return fileUploadErrMsg{err: err}
		}
		return fileUploadedMsg{file: uploaded}
	}
}

func (v *DetailView) updateCollaborating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	roles := v.requestableRoles()
	n := len(roles)
	switch {
	case key.Matches(msg, v.keys.Back):
		v.collaborating = false
		return v, nil
	case key.Matches(msg, v.keys.Down), key.Matches(msg, v.keys.Right):
		v.roleIdx = (v.roleIdx + 1) % n
		return v, nil
	case key.Matches(msg, v.keys.Up), key.Matches(msg, v.keys.Left):
		v.roleIdx = (v.roleIdx + n - 1) % n
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		role := roles[v.roleIdx]
		user := v.identity.CurrentUser()
		client := v.client
		projectID := v.projectID
		return v, func() tea.Msg {
			collaborator, err := client.RequestCollaboration(projectID, api.CollaborationRequest{
				UserID: user.ID,
				Role:   role,
			})
			if err != nil {
				return collabErrMsg{err: err}
			}
			return collabSentMsg{collaborator: collaborator}
		}
	}
	return v, nil
}

// requestableRoles prefers the roles the project asked for, falling back
// to the full catalog when it asked for none.
func (v *DetailView) requestableRoles() []string {
	if v.project != nil && len(v.project.CollaborationNeed) > 0 {
		return v.project.CollaborationNeed
	}
	return models.CollaborationRoles
}

// canSelectWinner reports whether the winner picker applies: a bounty
// project owned by the signed-in user with at least one collaborator.
func (v *DetailView) canSelectWinner() bool {
	if v.project == nil || v.project.MonetizationType != models.MonetizationBounty {
		return false
	}
	if len(v.project.Collaborators) == 0 {
		return false
	}
	user := v.identity.CurrentUser()
	return user != nil && v.project.Creator != nil && v.project.Creator.ID == user.ID
}

func (v *DetailView) updateSelectingWinner(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	collaborators := v.project.Collaborators
	n := len(collaborators)
	switch {
	case key.Matches(msg, v.keys.Back):
		v.selectingWinner = false
		return v, nil
	case key.Matches(msg, v.keys.Down):
		v.winnerIdx = (v.winnerIdx + 1) % n
		return v, nil
	case key.Matches(msg, v.keys.Up):
		v.winnerIdx = (v.winnerIdx + n - 1) % n
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		winnerID := collaborators[v.winnerIdx].UserID
		client := v.client
		projectID := v.projectID
		return v, func() tea.Msg {
			project, err := client.SelectBountyWinner(projectID, api.BountyWinnerRequest{WinnerID: winnerID})
			if err != nil {
				return winnerErrMsg{err: err}
			}
			return winnerSelectedMsg{project: project}
		}
	}
	return v, nil
}

func (v *DetailView) updateFocus() {
	v.comment.Blur()
	v.uploadPath.Blur()
	switch v.focusIdx {
	case 0:
		v.comment.Focus()
	case 1:
		v.uploadPath.Focus()
	}
}

// View renders the view
func (v *DetailView) View() string {
	s := v.styles

	if v.loadErr != "" {
		content := s.ErrorText.Render("Could not load project: "+v.loadErr) + "\n" +
			s.TitleMuted.Render("press r to retry, esc to go back")
		return styles.CenterView(content, v.width, v.height)
	}
	if v.loading || v.project == nil {
		return styles.CenterView(v.spin.View()+" Loading project...", v.width, v.height)
	}

	if v.collaborating {
		return styles.CenterView(v.renderRolePicker(), v.width, v.height)
	}
	if v.selectingWinner {
		return styles.CenterView(v.renderWinnerPicker(), v.width, v.height)
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderFiles())
	b.WriteString("\n")
	b.WriteString(v.renderComments())
	b.WriteString("\n")

	if v.notice != "" {
		b.WriteString(s.StatusBar.Render(v.notice))
		b.WriteString("\n")
	}
	if v.actionErr != "" {
		b.WriteString(s.ErrorText.Render(v.actionErr))
		b.WriteString("\n")
	}
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *DetailView) renderHeader() string {
	s := v.styles
	p := v.project

	var b strings.Builder
	b.WriteString(s.Title.Render(p.Title))
	b.WriteString("\n")

	var meta []string
	meta = append(meta, s.BadgeGenre.Render(p.Genre))
	if p.BPM != nil {
		meta = append(meta, s.CardMeta.Render(fmt.Sprintf("%d BPM", *p.BPM)))
	}
	if p.Key != "" {
		meta = append(meta, s.CardMeta.Render("key "+p.Key))
	}
	if p.Status != "" {
		meta = append(meta, s.CardMeta.Render(p.Status))
	}
	b.WriteString(strings.Join(meta, " "))
	b.WriteString("\n")

	switch p.MonetizationType {
	case models.MonetizationBounty:
		banner := "BOUNTY"
		if p.BountyAmount != nil {
			banner += fmt.Sprintf(" $%.2f", *p.BountyAmount)
		}
		if p.BountyDeadline != nil && !p.BountyDeadline.IsZero() {
			banner += " until " + p.BountyDeadline.Format("2006-01-02")
		}
		b.WriteString(s.BannerBounty.Render(banner))
		b.WriteString("\n")
	case models.MonetizationUnlockable:
		banner := "UNLOCKABLE"
		if p.UnlockPrice != nil {
			banner += fmt.Sprintf(" $%.2f", *p.UnlockPrice)
		}
		b.WriteString(s.BannerUnlock.Render(banner))
		b.WriteString("\n")
	}

	creator := "unknown"
	if p.Creator != nil {
		creator = "@" + p.Creator.Username
	}
	when := ""
	if p.CreatedAt != nil {
		when = " · " + timeago.Format(p.CreatedAt.Time, v.now())
	}
	b.WriteString(s.CardMeta.Render("by " + creator + when))
	b.WriteString("\n\n")
	b.WriteString(p.Description)
	b.WriteString("\n")

	if len(p.CollaborationNeed) > 0 {
		b.WriteString("\n")
		b.WriteString(s.TitleMuted.Render("looking for: "))
		for _, role := range p.CollaborationNeed {
			b.WriteString(s.BadgeRole.Render(role))
		}
	}
	if len(p.Collaborators) > 0 {
		b.WriteString("\n")
		b.WriteString(s.TitleMuted.Render("collaborators: "))
		for _, c := range p.Collaborators {
			name := c.Role
			if c.User != nil {
				name = "@" + c.User.Username + " (" + c.Role + ")"
			}
			b.WriteString(s.Badge.Render(name + " " + c.Status))
		}
	}
	return b.String()
}

func (v *DetailView) renderFiles() string {
	s := v.styles
	var b strings.Builder
	b.WriteString(s.CardTitle.Render(fmt.Sprintf("Files (%d)", len(v.files))))
	b.WriteString("\n")
	for _, f := range v.files {
		name := f.OriginalFilename
		if name == "" {
			name = f.Filename
		}
		line := "♪ " + name
		if f.IsStem {
			line += " [stem]"
		}
		if f.User != nil {
			line += " · @" + f.User.Username
		}
		b.WriteString(s.ListItem.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(v.renderField("upload", v.uploadPath.View(), 1))
	b.WriteString("\n")
	return b.String()
}

func (v *DetailView) renderComments() string {
	s := v.styles
	var b strings.Builder
	b.WriteString(s.CardTitle.Render(fmt.Sprintf("Comments (%d)", len(v.comments))))
	b.WriteString("\n")
	b.WriteString(v.renderField("comment", v.comment.View(), 0))
	b.WriteString("\n")
	for _, c := range v.comments {
		author := "anonymous"
		if c.User != nil {
			author = "@" + c.User.Username
		}
		when := ""
		if c.CreatedAt != nil {
			when = " · " + timeago.Format(c.CreatedAt.Time, v.now())
		}
		pending := ""
		if c.LocalTag != "" {
			pending = s.TitleMuted.Render(" (sending...)")
		}
		b.WriteString(s.HelpKey.Render(author) + s.CardMeta.Render(when) + pending)
		b.WriteString("\n")
		b.WriteString(s.ListItem.Render(c.Content))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *DetailView) renderField(label, value string, focus int) string {
	s := v.styles
	if v.focusIdx == focus {
		return s.HelpKey.Render(label+": ") + value
	}
	return s.TitleMuted.Render(label+": ") + value
}

func (v *DetailView) renderRolePicker() string {
	s := v.styles
	var b strings.Builder
	b.WriteString(s.Title.Render("Request to collaborate"))
	b.WriteString("\n\n")
	for i, role := range v.requestableRoles() {
		if i == v.roleIdx {
			b.WriteString(s.ListSelected.Render(role))
		} else {
			b.WriteString(s.ListItem.Render(role))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.TitleMuted.Render("enter sends the request, esc cancels"))
	return b.String()
}

func (v *DetailView) renderWinnerPicker() string {
	s := v.styles
	var b strings.Builder
	b.WriteString(s.Title.Render("Select bounty winner"))
	b.WriteString("\n\n")
	for i, c := range v.project.Collaborators {
		name := c.Role
		if c.User != nil {
			name = "@" + c.User.Username + " (" + c.Role + ")"
		}
		if i == v.winnerIdx {
			b.WriteString(s.ListSelected.Render(name))
		} else {
			b.WriteString(s.ListItem.Render(name))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.TitleMuted.Render("enter confirms, esc cancels"))
	return b.String()
}

func (v *DetailView) renderHelp() string {
	s := v.styles
	parts := []string{
		s.HelpKey.Render("tab") + s.HelpDesc.Render(" comment/upload"),
		s.HelpKey.Render("ctrl+s") + s.HelpDesc.Render(" post comment"),
		s.HelpKey.Render("c") + s.HelpDesc.Render(" collaborate"),
	}
	if v.canSelectWinner() {
		parts = append(parts, s.HelpKey.Render("w")+s.HelpDesc.Render(" pick winner"))
	}
	parts = append(parts,
		s.HelpKey.Render("esc")+s.HelpDesc.Render(" back"),
		s.HelpKey.Render("q")+s.HelpDesc.Render(" quit"),
	)
	return s.Help.Render(strings.Join(parts, "  "))
}
