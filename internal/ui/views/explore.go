package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/loopstate/loopstate/internal/api"
	"github.com/loopstate/loopstate/internal/auth"
	"github.com/loopstate/loopstate/internal/filter"
	"github.com/loopstate/loopstate/internal/models"
	"github.com/loopstate/loopstate/internal/store"
	"github.com/loopstate/loopstate/internal/timeago"
	"github.com/loopstate/loopstate/internal/ui/keys"
	"github.com/loopstate/loopstate/internal/ui/styles"
)

// Focus zones in the explore view, cycled with tab
const (
	exploreFocusSearch = iota
	exploreFocusGenre
	exploreFocusMonetization
	exploreFocusSort
	exploreFocusMinBPM
	exploreFocusMaxBPM
	exploreFocusRoles
	exploreFocusResults
	exploreFocusCount
)

// OpenProject asks the app to switch to the detail view
type OpenProject struct {
	ID int64
}

// OpenCreate asks the app to open the creation wizard
type OpenCreate struct{}

type exploreResultsMsg struct {
	seq  int
	resp *api.ExploreResponse
}

type exploreErrMsg struct {
	seq int
	err error
}

type recentsLoadedMsg struct {
	recents []store.RecentProject
}

// ExploreView is the browse/filter screen. Every filter change triggers a
// fresh fetch; responses carry the sequence number of the request that
// produced them and anything stale is dropped, so the list always reflects
// the latest filter state no matter the arrival order.
type ExploreView struct {
	client   *api.Client
	identity auth.Identity
	store    *store.Store
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int

	filters filter.State
	search  textinput.Model
	minBPM  textinput.Model
	maxBPM  textinput.Model
	spin    spinner.Model

	focusIdx        int
	genreIdx        int // 0 = any, otherwise index+1 into models.Genres
	monetizationIdx int
	sortIdx         int
	roleIdx         int
	cursor          int

	projects []models.Project
	recents  []store.RecentProject
	total    int
	loading  bool
	loaded   bool
	loadErr  string
	fetchSeq int

	now func() time.Time
}

func NewExploreView(client *api.Client, identity auth.Identity, st *store.Store) *ExploreView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search title or description..."
	search.CharLimit = 100

	minBPM := textinput.New()
	minBPM.Placeholder = "min"
	minBPM.CharLimit = 3
	minBPM.Width = 5

	maxBPM := textinput.New()
	maxBPM.Placeholder = "max"
	maxBPM.CharLimit = 3
	maxBPM.Width = 5

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = s.Title

	return &ExploreView{
		client:   client,
		identity: identity,
		store:    st,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		search:   search,
		minBPM:   minBPM,
		maxBPM:   maxBPM,
		spin:     spin,
		focusIdx: exploreFocusResults,
		now:      time.Now,
	}
}

func (v *ExploreView) Init() tea.Cmd {
	return tea.Batch(v.refetch(), v.loadRecents)
}

// loadRecents pulls the locally remembered project visits; the list is
// cosmetic, so any store trouble just leaves it empty.
func (v *ExploreView) loadRecents() tea.Msg {
	if v.store == nil {
		return recentsLoadedMsg{}
	}
	recents, err := v.store.RecentProjects(5)
	if err != nil {
		return recentsLoadedMsg{}
	}
	return recentsLoadedMsg{recents: recents}
}

// Projects exposes the currently loaded results
func (v *ExploreView) Projects() []models.Project {
	return v.projects
}

// refetch bumps the sequence number and kicks off a fetch for the current
// filter state. The closure captures the sequence so a late response can
// be matched against whatever is current when it lands.
func (v *ExploreView) refetch() tea.Cmd {
	v.fetchSeq++
	seq := v.fetchSeq
	query := v.filters.Query()
	client := v.client
	v.loading = true
	v.loadErr = ""
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		resp, err := client.ExploreProjects(query)
		if err != nil {
			return exploreErrMsg{seq: seq, err: err}
		}
		return exploreResultsMsg{seq: seq, resp: resp}
	})
}

func (v *ExploreView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.search.Width = contentWidth - 20
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case exploreResultsMsg:
		if msg.seq != v.fetchSeq {
			return v, nil
		}
		v.loading = false
		v.loaded = true
		v.projects = msg.resp.Projects
		v.total = msg.resp.Total
		if v.cursor >= len(v.projects) {
			v.cursor = max(len(v.projects)-1, 0)
		}
		return v, nil

	case exploreErrMsg:
		if msg.seq != v.fetchSeq {
			return v, nil
		}
		v.loading = false
		v.loadErr = msg.err.Error()
		return v, nil

	case recentsLoadedMsg:
		v.recents = msg.recents
		return v, nil

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}

	return v, nil
}

func (v *ExploreView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Navigation that works regardless of focus
	switch {
	case msg.String() == "ctrl+c":
		return v, tea.Quit
	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % exploreFocusCount
		v.updateFocus()
		return v, textinput.Blink
	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + exploreFocusCount - 1) % exploreFocusCount
		v.updateFocus()
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Clear):
		v.filters.Reset()
		v.search.Reset()
		v.minBPM.Reset()
		v.maxBPM.Reset()
		v.genreIdx = 0
		v.monetizationIdx = 0
		v.sortIdx = 0
		return v, v.refetch()
	}

	if v.textFocused() {
		return v.updateTextInput(msg)
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.New):
		return v, func() tea.Msg { return OpenCreate{} }
	case key.Matches(msg, v.keys.Search):
		v.focusIdx = exploreFocusSearch
		v.updateFocus()
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Retry):
		if v.loadErr != "" {
			return v, v.refetch()
		}
	}

	switch v.focusIdx {
	case exploreFocusGenre:
		return v.cycleGenre(msg)
	case exploreFocusMonetization:
		return v.cycleMonetization(msg)
	case exploreFocusSort:
		return v.cycleSort(msg)
	case exploreFocusRoles:
		return v.updateRoles(msg)
	case exploreFocusResults:
		return v.updateResults(msg)
	}

	return v, nil
}

// textFocused reports whether a text input currently owns keystrokes
func (v *ExploreView) textFocused() bool {
	return v.focusIdx == exploreFocusSearch ||
		v.focusIdx == exploreFocusMinBPM ||
		v.focusIdx == exploreFocusMaxBPM
}

func (v *ExploreView) updateTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, v.keys.Back) {
		v.focusIdx = exploreFocusResults
		v.updateFocus()
		return v, nil
	}
	if key.Matches(msg, v.keys.Enter) {
		if v.focusIdx == exploreFocusMinBPM || v.focusIdx == exploreFocusMaxBPM {
			v.applyBPM()
			return v, v.refetch()
		}
		v.focusIdx = exploreFocusResults
		v.updateFocus()
		return v, nil
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case exploreFocusSearch:
		before := v.search.Value()
		v.search, cmd = v.search.Update(msg)
		if v.search.Value() != before {
			v.filters.Search = v.search.Value()
			return v, tea.Batch(cmd, v.refetch())
		}
	case exploreFocusMinBPM:
		v.minBPM, cmd = v.minBPM.Update(msg)
	case exploreFocusMaxBPM:
		v.maxBPM, cmd = v.maxBPM.Update(msg)
	}
	return v, cmd
}

// applyBPM parses the BPM inputs into the filter state. Blank means no
// bound; unparseable text is treated as blank.
func (v *ExploreView) applyBPM() {
	v.filters.MinBPM = parseBPM(v.minBPM.Value())
	v.filters.MaxBPM = parseBPM(v.maxBPM.Value())
}

func parseBPM(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func (v *ExploreView) cycleGenre(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(models.Genres) + 1
	switch {
	case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Down):
		v.genreIdx = (v.genreIdx + 1) % n
	case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Up):
		v.genreIdx = (v.genreIdx + n - 1) % n
	default:
		return v, nil
	}
	if v.genreIdx == 0 {
		v.filters.Genre = ""
	} else {
		v.filters.Genre = models.Genres[v.genreIdx-1]
	}
	return v, v.refetch()
}

func (v *ExploreView) cycleMonetization(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(models.MonetizationOptions)
	switch {
	case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Down):
		v.monetizationIdx = (v.monetizationIdx + 1) % n
	case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Up):
		v.monetizationIdx = (v.monetizationIdx + n - 1) % n
	default:
		return v, nil
	}
	v.filters.Monetization = models.MonetizationOptions[v.monetizationIdx].Value
	return v, v.refetch()
}

func (v *ExploreView) cycleSort(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(models.SortOptions)
	switch {
	case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Down):
		v.sortIdx = (v.sortIdx + 1) % n
	case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Up):
		v.sortIdx = (v.sortIdx + n - 1) % n
	default:
		return v, nil
	}
	v.filters.SortBy = models.SortOptions[v.sortIdx].Value
	return v, v.refetch()
}

func (v *ExploreView) updateRoles(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(models.CollaborationRoles)
	switch {
	case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Down):
		v.roleIdx = (v.roleIdx + 1) % n
		return v, nil
	case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Up):
		v.roleIdx = (v.roleIdx + n - 1) % n
		return v, nil
	case key.Matches(msg, v.keys.Toggle):
		v.filters.ToggleRole(models.CollaborationRoles[v.roleIdx])
		return v, v.refetch()
	}
	return v, nil
}

func (v *ExploreView) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.projects)-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Enter):
		if v.cursor < len(v.projects) {
			id := v.projects[v.cursor].ID
			return v, func() tea.Msg {
				return OpenProject{ID: id}
			}
		}
	}
	return v, nil
}

func (v *ExploreView) updateFocus() {
	v.search.Blur()
	v.minBPM.Blur()
	v.maxBPM.Blur()
	switch v.focusIdx {
	case exploreFocusSearch:
		v.search.Focus()
	case exploreFocusMinBPM:
		v.minBPM.Focus()
	case exploreFocusMaxBPM:
		v.maxBPM.Focus()
	}
}

// View renders the view
func (v *ExploreView) View() string {
	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n")
	b.WriteString(v.renderFilterBar())
	b.WriteString("\n")
	if recents := v.renderRecents(); recents != "" {
		b.WriteString(recents)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case v.loadErr != "":
		b.WriteString(v.styles.ErrorText.Render("Could not load projects: " + v.loadErr))
		b.WriteString("\n")
		b.WriteString(v.styles.TitleMuted.Render("press r to retry"))
	case !v.loaded:
		b.WriteString(v.spin.View() + " Loading projects...")
	case len(v.projects) == 0:
		b.WriteString(v.styles.TitleMuted.Render("No projects match the current filters."))
	default:
		for i, p := range v.projects {
			b.WriteString(v.renderCard(p, i == v.cursor && v.focusIdx == exploreFocusResults))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *ExploreView) renderHeader() string {
	title := v.styles.Title.Render("LoopState")
	sub := v.styles.TitleMuted.Render("  find your next collaboration")

	who := "not signed in"
	if v.identity != nil && v.identity.IsLoggedIn() {
		if u := v.identity.CurrentUser(); u != nil {
			who = "@" + u.Username
		}
	}
	line := fmt.Sprintf("%d projects · %s", v.total, who)
	// Refetches keep the stale cards on screen, so the in-flight state has
	// to be visible up here.
	if v.loading {
		line = v.spin.View() + " loading · " + line
	}
	status := v.styles.StatusBar.Render(line)
	return title + sub + "\n" + status
}

func (v *ExploreView) renderFilterBar() string {
	s := v.styles

	genre := "Any Genre"
	if v.genreIdx > 0 {
		genre = models.Genres[v.genreIdx-1]
	}
	monetization := models.MonetizationOptions[v.monetizationIdx].Label
	sort := models.SortOptions[v.sortIdx].Label

	row := []string{
		v.renderField("search", v.search.View(), exploreFocusSearch),
		v.renderField("genre", genre, exploreFocusGenre),
		v.renderField("type", monetization, exploreFocusMonetization),
		v.renderField("sort", sort, exploreFocusSort),
		v.renderField("bpm", v.minBPM.View()+"-"+v.maxBPM.View(), exploreFocusMinBPM),
	}

	var roles strings.Builder
	roles.WriteString(s.TitleMuted.Render("roles: "))
	for i, role := range models.CollaborationRoles {
		label := role
		if v.filters.HasRole(role) {
			label = "[x] " + role
		}
		style := s.Badge
		if v.focusIdx == exploreFocusRoles && i == v.roleIdx {
			style = s.BadgeRole.Bold(true)
		} else if v.filters.HasRole(role) {
			style = s.BadgeRole
		}
		roles.WriteString(style.Render(label))
	}

	active := ""
	if n := v.filters.ActiveCount(); n > 0 {
		active = s.TitleMuted.Render(fmt.Sprintf("  %d filters active (ctrl+x clears)", n))
	}

	return strings.Join(row, "  ") + active + "\n" + roles.String()
}

func (v *ExploreView) renderRecents() string {
	if len(v.recents) == 0 {
		return ""
	}
	titles := make([]string, len(v.recents))
	for i, r := range v.recents {
		titles[i] = r.Title
	}
	return v.styles.TitleMuted.Render("recently viewed: " + strings.Join(titles, " · "))
}

func (v *ExploreView) renderField(label, value string, focus int) string {
	s := v.styles
	focused := v.focusIdx == focus
	if focus == exploreFocusMinBPM {
		focused = v.focusIdx == exploreFocusMinBPM || v.focusIdx == exploreFocusMaxBPM
	}
	if focused {
		return s.HelpKey.Render(label+": ") + value
	}
	return s.TitleMuted.Render(label+": ") + value
}

func (v *ExploreView) renderCard(p models.Project, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 40)

	var meta []string
	meta = append(meta, s.BadgeGenre.Render(p.Genre))
	if p.BPM != nil {
		meta = append(meta, s.CardMeta.Render(fmt.Sprintf("%d BPM", *p.BPM)))
	}
	if p.Key != "" {
		meta = append(meta, s.CardMeta.Render(p.Key))
	}
	switch p.MonetizationType {
	case models.MonetizationBounty:
		amount := ""
		if p.BountyAmount != nil {
			amount = fmt.Sprintf(" $%.2f", *p.BountyAmount)
		}
		meta = append(meta, s.BannerBounty.Render("BOUNTY"+amount))
	case models.MonetizationUnlockable:
		price := ""
		if p.UnlockPrice != nil {
			price = fmt.Sprintf(" $%.2f", *p.UnlockPrice)
		}
		meta = append(meta, s.BannerUnlock.Render("UNLOCK"+price))
	}

	needs := renderNeeds(p.CollaborationNeed)
	var needsLine string
	if needs != "" {
		needsLine = s.TitleMuted.Render("looking for: ") + s.BadgeRole.Render(needs)
	}

	creator := "unknown"
	if p.Creator != nil {
		creator = "@" + p.Creator.Username
	}
	when := ""
	if p.CreatedAt != nil {
		when = " · " + timeago.FormatShort(p.CreatedAt.Time, v.now())
	}
	footer := s.CardMeta.Render(fmt.Sprintf("%s%s · %d collaborators · %d comments",
		creator, when, p.CollaboratorCount, p.CommentCount))

	lines := []string{
		s.CardTitle.Render(p.Title),
		strings.Join(meta, " "),
	}
	if needsLine != "" {
		lines = append(lines, needsLine)
	}
	lines = append(lines, footer)

	card := s.Card
	if selected {
		card = s.CardSelected
	}
	return card.Width(width).Render(strings.Join(lines, "\n"))
}

// renderNeeds shows the first two requested roles and folds the rest
// into a "+N more" suffix.
func renderNeeds(needs models.RoleList) string {
	if len(needs) == 0 {
		return ""
	}
	shown := needs
	if len(shown) > 2 {
		shown = shown[:2]
	}
	out := strings.Join(shown, ", ")
	if extra := len(needs) - len(shown); extra > 0 {
		out += fmt.Sprintf(" +%d more", extra)
	}
	return out
}

func (v *ExploreView) renderHelp() string {
	s := v.styles
	parts := []string{
		s.HelpKey.Render("tab") + s.HelpDesc.Render(" fields"),
		s.HelpKey.Render("↑/↓") + s.HelpDesc.Render(" move"),
		s.HelpKey.Render("enter") + s.HelpDesc.Render(" open"),
		s.HelpKey.Render("n") + s.HelpDesc.Render(" new"),
		s.HelpKey.Render("/") + s.HelpDesc.Render(" search"),
		s.HelpKey.Render("ctrl+x") + s.HelpDesc.Render(" clear"),
		s.HelpKey.Render("q") + s.HelpDesc.Render(" quit"),
	}
	return s.Help.Render(strings.Join(parts, "  "))
}
