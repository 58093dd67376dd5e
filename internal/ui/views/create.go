package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/loopstate/loopstate/internal/api"
	"github.com/loopstate/loopstate/internal/auth"
	"github.com/loopstate/loopstate/internal/models"
	"github.com/loopstate/loopstate/internal/ui/keys"
	"github.com/loopstate/loopstate/internal/ui/styles"
)

// Wizard steps, in order
const (
	stepBasic = iota
	stepCollaboration
	stepMonetization
	stepFiles
	stepCount
)

var stepTitles = [stepCount]string{
	"Basic Info",
	"Collaboration",
	"Monetization",
	"Files",
}

// ProjectCreated tells the app a project was created so it can refresh
// the explore list and jump to the new project.
type ProjectCreated struct {
	Project models.Project
}

// CloseCreate dismisses the wizard without creating anything
type CloseCreate struct{}

type projectCreatedMsg struct {
	project *models.Project
}

type projectCreateErrMsg struct {
	err error
}

// CreateView is the four-step project creation wizard. Moving past the
// first step requires title, description and genre; everything later is
// optional. A failed submit keeps the draft and the step so nothing typed
// is lost.
type CreateView struct {
	client   *api.Client
	identity auth.Identity
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int

	step     int
	focusIdx int

	title          textinput.Model
	description    textarea.Model
	bpm            textinput.Model
	bountyAmount   textinput.Model
	bountyDeadline textinput.Model
	unlockPrice    textinput.Model
	filePath       textinput.Model

	genreIdx     int // 0 = none chosen
	keyIdx       int // 0 = none chosen
	roleIdx      int
	roles        []string
	monetization string
	filePaths    []string

	submitting bool
	submitErr  string
}

func NewCreateView(client *api.Client, identity auth.Identity) *CreateView {
	s := styles.NewStyles()

	title := textinput.New()
	title.Placeholder = "Project title"
	title.CharLimit = 120

	description := textarea.New()
	description.Placeholder = "What are you working on?"
	description.SetWidth(60)
	description.SetHeight(4)
	description.ShowLineNumbers = false

	bpm := textinput.New()
	bpm.Placeholder = "e.g. 120"
	bpm.CharLimit = 3

	bountyAmount := textinput.New()
	bountyAmount.Placeholder = "amount in USD"
	bountyAmount.CharLimit = 10

	bountyDeadline := textinput.New()
	bountyDeadline.Placeholder = "YYYY-MM-DD (optional)"
	bountyDeadline.CharLimit = 10

	unlockPrice := textinput.New()
	unlockPrice.Placeholder = "price in USD"
	unlockPrice.CharLimit = 10

	filePath := textinput.New()
	filePath.Placeholder = "path to a demo or stem (optional)"
	filePath.CharLimit = 255

	v := &CreateView{
		client:         client,
		identity:       identity,
		styles:         s,
		keys:           keys.DefaultKeyMap(),
		title:          title,
		description:    description,
		bpm:            bpm,
		bountyAmount:   bountyAmount,
		bountyDeadline: bountyDeadline,
		unlockPrice:    unlockPrice,
		filePath:       filePath,
		monetization:   models.MonetizationFree,
	}
	v.title.Focus()
	return v
}

func (v *CreateView) Init() tea.Cmd {
	return textinput.Blink
}

// canAdvance gates the Next action. Only the first step has required
// fields; the rest always pass.
func (v *CreateView) canAdvance() bool {
	if v.step != stepBasic {
		return true
	}
	return strings.TrimSpace(v.title.Value()) != "" &&
		strings.TrimSpace(v.description.Value()) != "" &&
		v.genreIdx > 0
}

// buildRequest assembles the creation payload from the draft. Empty
// numeric fields become nil so they serialize as explicit nulls, and
// is_unlockable is derived from the monetization mode rather than asked.
func (v *CreateView) buildRequest(creatorID int64) api.CreateProjectRequest {
	req := api.CreateProjectRequest{
		Title:             strings.TrimSpace(v.title.Value()),
		Description:       strings.TrimSpace(v.description.Value()),
		CreatorID:         creatorID,
		CollaborationNeed: models.RoleList(v.roles),
		MonetizationType:  v.monetization,
		IsUnlockable:      v.monetization == models.MonetizationUnlockable,
	}
	if v.genreIdx > 0 {
		req.Genre = models.Genres[v.genreIdx-1]
	}
	if v.keyIdx > 0 {
		req.Key = models.MusicalKeys[v.keyIdx-1]
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.bpm.Value())); err == nil {
		req.BPM = &n
	}
	if v.monetization == models.MonetizationBounty {
		if amount, err := strconv.ParseFloat(strings.TrimSpace(v.bountyAmount.Value()), 64); err == nil {
			req.BountyAmount = &amount
		}
		req.BountyDeadline = strings.TrimSpace(v.bountyDeadline.Value())
	}
	if v.monetization == models.MonetizationUnlockable {
		if price, err := strconv.ParseFloat(strings.TrimSpace(v.unlockPrice.Value()), 64); err == nil {
			req.UnlockPrice = &price
		}
	}
	return req
}

func (v *CreateView) submit() tea.Cmd {
	user := v.identity.CurrentUser()
	if user == nil {
		v.submitErr = "sign in before creating a project"
		return nil
	}
	req := v.buildRequest(user.ID)
	client := v.client
	v.submitting = true
	v.submitErr = ""
	return func() tea.Msg {
		project, err := client.CreateProject(req)
		if err != nil {
			return projectCreateErrMsg{err: err}
		}
		return projectCreatedMsg{project: project}
	}
}

// reset clears the draft back to a blank first step
func (v *CreateView) reset() {
	v.step = stepBasic
	v.focusIdx = 0
	v.title.Reset()
	v.description.Reset()
	v.bpm.Reset()
	v.bountyAmount.Reset()
	v.bountyDeadline.Reset()
	v.unlockPrice.Reset()
	v.filePath.Reset()
	v.genreIdx = 0
	v.keyIdx = 0
	v.roleIdx = 0
	v.roles = nil
	v.monetization = models.MonetizationFree
	v.filePaths = nil
	v.submitting = false
	v.submitErr = ""
	v.updateFocus()
}

func (v *CreateView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case projectCreatedMsg:
		project := *msg.project
		v.reset()
		return v, func() tea.Msg {
			return ProjectCreated{Project: project}
		}

	case projectCreateErrMsg:
		// Keep the draft and the step; only surface the error.
		v.submitting = false
		v.submitErr = msg.err.Error()
		return v, nil

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}

	return v, nil
}

func (v *CreateView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.submitting {
		return v, nil
	}

	switch {
	case msg.String() == "ctrl+c":
		return v, tea.Quit
	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return CloseCreate{} }
	case msg.String() == "ctrl+n":
		return v.advance()
	case msg.String() == "ctrl+p":
		v.retreat()
		return v, nil
	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % v.fieldCount()
		v.updateFocus()
		return v, textinput.Blink
	case msg.String() == "shift+tab":
		n := v.fieldCount()
		v.focusIdx = (v.focusIdx + n - 1) % n
		v.updateFocus()
		return v, textinput.Blink
	}

	switch v.step {
	case stepBasic:
		return v.updateBasic(msg)
	case stepCollaboration:
		return v.updateCollaboration(msg)
	case stepMonetization:
		return v.updateMonetization(msg)
	case stepFiles:
		return v.updateFiles(msg)
	}
	return v, nil
}

// fieldCount is the number of tab stops on the current step
func (v *CreateView) fieldCount() int {
	switch v.step {
	case stepBasic:
		return 5 // title, description, genre, bpm, key
	case stepCollaboration:
		return 1
	case stepMonetization:
		switch v.monetization {
		case models.MonetizationBounty:
			return 3 // mode, amount, deadline
		case models.MonetizationUnlockable:
			return 2 // mode, price
		}
		return 1
	case stepFiles:
		return 1
	}
	return 1
}

func (v *CreateView) advance() (tea.Model, tea.Cmd) {
	if !v.canAdvance() {
		v.submitErr = "title, description and genre are required"
		return v, nil
	}
	v.submitErr = ""
	if v.step == stepFiles {
		return v, v.submit()
	}
	v.step++
	v.focusIdx = 0
	v.updateFocus()
	return v, textinput.Blink
}

func (v *CreateView) retreat() {
	if v.step > stepBasic {
		v.step--
		v.focusIdx = 0
		v.updateFocus()
	}
}

func (v *CreateView) updateBasic(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch v.focusIdx {
	case 2: // genre
		n := len(models.Genres) + 1
		switch {
		case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Down):
			v.genreIdx = (v.genreIdx + 1) % n
			return v, nil
		case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Up):
			v.genreIdx = (v.genreIdx + n - 1) % n
			return v, nil
		}
		return v, nil
	case 4: // key
		n := len(models.MusicalKeys) + 1
		switch {
		case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Down):
			v.keyIdx = (v.keyIdx + 1) % n
			return v, nil
		case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Up):
			v.keyIdx = (v.keyIdx + n - 1) % n
			return v, nil
		}
		return v, nil
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.title, cmd = v.title.Update(msg)
	case 1:
		v.description, cmd = v.description.Update(msg)
	case 3:
		v.bpm, cmd = v.bpm.Update(msg)
	}
	return v, cmd
}

func (v *CreateView) updateCollaboration(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(models.CollaborationRoles)
	switch {
	case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Down):
		v.roleIdx = (v.roleIdx + 1) % n
	case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Up):
		v.roleIdx = (v.roleIdx + n - 1) % n
	case key.Matches(msg, v.keys.Toggle):
		v.toggleRole(models.CollaborationRoles[v.roleIdx])
	}
	return v, nil
}

func (v *CreateView) toggleRole(role string) {
	for i, have := range v.roles {
		if have == role {
			v.roles = append(v.roles[:i], v.roles[i+1:]...)
			return
		}
	}
	v.roles = append(v.roles, role)
}

func (v *CreateView) hasRole(role string) bool {
	for _, have := range v.roles {
		if have == role {
			return true
		}
	}
	return false
}

func (v *CreateView) updateMonetization(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.focusIdx == 0 {
		modes := []string{models.MonetizationFree, models.MonetizationBounty, models.MonetizationUnlockable}
		idx := 0
		for i, m := range modes {
			if m == v.monetization {
				idx = i
			}
		}
		switch {
		case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Down):
			v.monetization = modes[(idx+1)%len(modes)]
		case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Up):
			v.monetization = modes[(idx+len(modes)-1)%len(modes)]
		}
		return v, nil
	}

	var cmd tea.Cmd
	switch v.monetization {
	case models.MonetizationBounty:
		switch v.focusIdx {
		case 1:
			v.bountyAmount, cmd = v.bountyAmount.Update(msg)
		case 2:
			v.bountyDeadline, cmd = v.bountyDeadline.Update(msg)
		}
	case models.MonetizationUnlockable:
		if v.focusIdx == 1 {
			v.unlockPrice, cmd = v.unlockPrice.Update(msg)
		}
	}
	return v, cmd
}

func (v *CreateView) updateFiles(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, v.keys.Enter) {
		path := strings.TrimSpace(v.filePath.Value())
		if path != "" {
			v.filePaths = append(v.filePaths, path)
			v.filePath.Reset()
		}
		return v, nil
	}
	var cmd tea.Cmd
	v.filePath, cmd = v.filePath.Update(msg)
	return v, cmd
}

func (v *CreateView) updateFocus() {
	v.title.Blur()
	v.description.Blur()
	v.bpm.Blur()
	v.bountyAmount.Blur()
	v.bountyDeadline.Blur()
	v.unlockPrice.Blur()
	v.filePath.Blur()

	switch v.step {
	case stepBasic:
		switch v.focusIdx {
		case 0:
			v.title.Focus()
		case 1:
			v.description.Focus()
		case 3:
			v.bpm.Focus()
		}
	case stepMonetization:
		switch v.monetization {
		case models.MonetizationBounty:
			switch v.focusIdx {
			case 1:
				v.bountyAmount.Focus()
			case 2:
				v.bountyDeadline.Focus()
			}
		case models.MonetizationUnlockable:
			if v.focusIdx == 1 {
				v.unlockPrice.Focus()
			}
		}
	case stepFiles:
		v.filePath.Focus()
	}
}

// View renders the view
func (v *CreateView) View() string {
	s := v.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("New Project"))
	b.WriteString("  ")
	b.WriteString(v.renderSteps())
	b.WriteString("\n\n")

	switch v.step {
	case stepBasic:
		b.WriteString(v.renderBasic())
	case stepCollaboration:
		b.WriteString(v.renderCollaboration())
	case stepMonetization:
		b.WriteString(v.renderMonetization())
	case stepFiles:
		b.WriteString(v.renderFiles())
	}

	b.WriteString("\n")
	if v.submitting {
		b.WriteString(s.TitleMuted.Render("Creating project..."))
		b.WriteString("\n")
	}
	if v.submitErr != "" {
		b.WriteString(s.ErrorText.Render(v.submitErr))
		b.WriteString("\n")
	}

	next := "next"
	if v.step == stepFiles {
		next = "create"
	}
	parts := []string{
		s.HelpKey.Render("tab") + s.HelpDesc.Render(" fields"),
		s.HelpKey.Render("ctrl+p") + s.HelpDesc.Render(" back"),
		s.HelpKey.Render("ctrl+n") + s.HelpDesc.Render(" "+next),
		s.HelpKey.Render("esc") + s.HelpDesc.Render(" cancel"),
	}
	b.WriteString(s.Help.Render(strings.Join(parts, "  ")))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *CreateView) renderSteps() string {
	s := v.styles
	var parts []string
	for i, title := range stepTitles {
		label := fmt.Sprintf("%d. %s", i+1, title)
		if i == v.step {
			parts = append(parts, s.HelpKey.Render(label))
		} else {
			parts = append(parts, s.TitleMuted.Render(label))
		}
	}
	return strings.Join(parts, s.TitleMuted.Render(" → "))
}

func (v *CreateView) renderBasic() string {
	genre := "choose a genre"
	if v.genreIdx > 0 {
		genre = models.Genres[v.genreIdx-1]
	}
	musicalKey := "none"
	if v.keyIdx > 0 {
		musicalKey = models.MusicalKeys[v.keyIdx-1]
	}

	lines := []string{
		v.label("Title *", 0) + v.title.View(),
		v.label("Description *", 1) + "\n" + v.description.View(),
		v.label("Genre *", 2) + genre,
		v.label("BPM", 3) + v.bpm.View(),
		v.label("Key", 4) + musicalKey,
	}
	return strings.Join(lines, "\n")
}

func (v *CreateView) renderCollaboration() string {
	s := v.styles
	var b strings.Builder
	b.WriteString(s.TitleMuted.Render("Who are you looking for? (space toggles)"))
	b.WriteString("\n\n")
	for i, role := range models.CollaborationRoles {
		mark := "[ ] "
		if v.hasRole(role) {
			mark = "[x] "
		}
		line := mark + role
		if i == v.roleIdx {
			b.WriteString(s.ListSelected.Render(line))
		} else {
			b.WriteString(s.ListItem.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (v *CreateView) renderMonetization() string {
	s := v.styles
	var b strings.Builder

	labels := map[string]string{
		models.MonetizationFree:       "Free Collaboration",
		models.MonetizationBounty:     "Bounty",
		models.MonetizationUnlockable: "Unlockable Content",
	}
	b.WriteString(v.label("Mode", 0) + labels[v.monetization])
	b.WriteString("\n")

	switch v.monetization {
	case models.MonetizationBounty:
		b.WriteString(v.label("Bounty amount", 1) + v.bountyAmount.View())
		b.WriteString("\n")
		b.WriteString(v.label("Deadline", 2) + v.bountyDeadline.View())
		b.WriteString("\n")
	case models.MonetizationUnlockable:
		b.WriteString(v.label("Unlock price", 1) + v.unlockPrice.View())
		b.WriteString("\n")
	default:
		b.WriteString(s.TitleMuted.Render("Open collaboration, no payment involved."))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *CreateView) renderFiles() string {
	s := v.styles
	var b strings.Builder
	b.WriteString(s.TitleMuted.Render("Attach demos or stems (uploaded after creation)"))
	b.WriteString("\n\n")
	for _, path := range v.filePaths {
		b.WriteString(s.ListItem.Render("• " + path))
		b.WriteString("\n")
	}
	b.WriteString(v.filePath.View())
	b.WriteString("\n")
	return b.String()
}

func (v *CreateView) label(text string, focus int) string {
	s := v.styles
	padded := fmt.Sprintf("%-16s", text)
	if v.focusIdx == focus {
		return s.HelpKey.Render(padded)
	}
	return s.TitleMuted.Render(padded)
}
