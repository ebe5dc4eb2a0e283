package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// typeFilterCycle is the order the type filter steps through; "" is all.
var typeFilterCycle = []domain.EventType{
	"",
	domain.EventDeadline,
	domain.EventMilestone,
	domain.EventMeeting,
	domain.EventTask,
}

type calendarKeyMap struct {
	Next        key.Binding
	Prev        key.Binding
	Today       key.Binding
	Month       key.Binding
	Week        key.Binding
	List        key.Binding
	Filter      key.Binding
	ClearFilter key.Binding
	Left        key.Binding
	Right       key.Binding
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Close       key.Binding
	Complete    key.Binding
	Add         key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultCalendarKeys() calendarKeyMap {
	return calendarKeyMap{
		Next:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Prev:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		Today:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Month:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "month")),
		Week:        key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "week")),
		List:        key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "list")),
		Filter:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "type filter")),
		ClearFilter: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "clear filters")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "day")),
		Right:       key.NewBinding(key.WithKeys("right")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "week")),
		Down:        key.NewBinding(key.WithKeys("down", "j")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Close:       key.NewBinding(key.WithKeys("x", "esc"), key.WithHelp("x", "close")),
		Complete:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k calendarKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Left, k.Up, k.Select, k.Add, k.Help, k.Quit}
}

func (k calendarKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Today},
		{k.Month, k.Week, k.List},
		{k.Left, k.Up, k.Select, k.Close},
		{k.Filter, k.ClearFilter, k.Complete, k.Add},
		{k.Help, k.Quit},
	}
}

// calendarLoadedMsg carries the project's controller once the service has
// loaded it.
type calendarLoadedMsg struct {
	ctrl *calendar.DetailController
	err  error
}

// calendarModel is the interactive calendar browser behind `planboard ui`.
type calendarModel struct {
	app       *App
	projectID string

	ctrl    *calendar.DetailController
	nav     *calendar.Navigator
	filter  calendar.FilterState
	typeIdx int
	cursor  domain.Date

	keys calendarKeyMap
	help help.Model

	form       *huh.Form
	formValues *eventFormValues

	width   int
	loading bool
	status  string
	err     error
}

func newCalendarModel(app *App, projectID string) *calendarModel {
	nav := calendar.NewNavigator(app.today(), app.DefaultView, calendar.WithNavigatorClock(app.clock()))
	return &calendarModel{
		app:       app,
		projectID: projectID,
		nav:       nav,
		cursor:    nav.ReferenceDate(),
		keys:      defaultCalendarKeys(),
		help:      help.New(),
		loading:   true,
	}
}

func (m *calendarModel) Init() tea.Cmd {
	return m.load()
}

func (m *calendarModel) load() tea.Cmd {
	app, projectID := m.app, m.projectID
	return func() tea.Msg {
		ctrl, err := app.Calendar.Controller(context.Background(), projectID)
		return calendarLoadedMsg{ctrl: ctrl, err: err}
	}
}

func (m *calendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.ctrl = msg.ctrl
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(keyMsg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.ctrl == nil {
		return m, nil
	}
	m.status = ""

	switch {
	case key.Matches(keyMsg, m.keys.Next):
		m.moveTo(m.nav.Next())
	case key.Matches(keyMsg, m.keys.Prev):
		m.moveTo(m.nav.Previous())
	case key.Matches(keyMsg, m.keys.Today):
		m.moveTo(m.nav.Today())
	case key.Matches(keyMsg, m.keys.Month):
		m.nav.SetViewMode(domain.ViewMonth)
	case key.Matches(keyMsg, m.keys.Week):
		m.nav.SetViewMode(domain.ViewWeek)
	case key.Matches(keyMsg, m.keys.List):
		m.nav.SetViewMode(domain.ViewList)
	case key.Matches(keyMsg, m.keys.Left):
		m.moveCursor(m.cursor.AddDays(-1))
	case key.Matches(keyMsg, m.keys.Right):
		m.moveCursor(m.cursor.AddDays(1))
	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(m.cursor.AddDays(-7))
	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(m.cursor.AddDays(7))
	case key.Matches(keyMsg, m.keys.Filter):
		m.cycleTypeFilter()
	case key.Matches(keyMsg, m.keys.ClearFilter):
		m.filter = calendar.FilterState{}
		m.typeIdx = 0
		m.status = "Filters cleared"
	case key.Matches(keyMsg, m.keys.Select):
		m.selectNext()
	case key.Matches(keyMsg, m.keys.Close):
		m.ctrl.ClearSelection()
	case key.Matches(keyMsg, m.keys.Complete):
		return m, m.completeSelected()
	case key.Matches(keyMsg, m.keys.Add):
		return m, m.openForm()
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// moveTo follows a navigation step: the cursor lands on the new reference
// date and any open detail closes.
func (m *calendarModel) moveTo(ref domain.Date) {
	m.cursor = ref
	m.ctrl.ClearSelection()
}

// moveCursor moves the day cursor and drags the reference date along, so
// stepping past the visible range pages the view.
func (m *calendarModel) moveCursor(d domain.Date) {
	m.cursor = d
	m.nav.SetReferenceDate(d)
}

func (m *calendarModel) cycleTypeFilter() {
	m.typeIdx = (m.typeIdx + 1) % len(typeFilterCycle)
	m.filter.Types = nil
	if t := typeFilterCycle[m.typeIdx]; t != "" {
		m.filter = m.filter.ToggleType(t)
		m.status = "Showing " + string(t) + "s"
		return
	}
	m.status = "Showing all types"
}

// events returns the filtered snapshot the views project from.
func (m *calendarModel) events() []domain.CalendarEvent {
	return calendar.Filter(m.ctrl.Store().Snapshot(), m.filter)
}

func (m *calendarModel) eventsOn(d domain.Date) []domain.CalendarEvent {
	var out []domain.CalendarEvent
	for _, e := range m.events() {
		if e.Date == d {
			out = append(out, e)
		}
	}
	calendar.SortByDateTime(out)
	return out
}

// selectNext opens the first event on the cursor date; pressing again on
// the same day steps to the next one.
func (m *calendarModel) selectNext() {
	day := m.eventsOn(m.cursor)
	if len(day) == 0 {
		m.ctrl.ClearSelection()
		m.status = "No events on " + formatter.HumanDate(m.cursor)
		return
	}
	next := 0
	if cur, ok := m.ctrl.Selected(); ok && cur.Date == m.cursor {
		for i, e := range day {
			if e.ID == cur.ID {
				next = (i + 1) % len(day)
				break
			}
		}
	}
	m.ctrl.Select(day[next].ID)
}

func (m *calendarModel) completeSelected() tea.Cmd {
	e, ok := m.ctrl.Selected()
	if !ok {
		m.status = "Select an event first"
		return nil
	}
	if _, err := m.ctrl.SetStatus(e.ID, domain.StatusCompleted); err != nil {
		m.err = err
		return nil
	}
	return m.flush(fmt.Sprintf("Completed %q", e.Title))
}

// flush reports the outcome of the last write. A failed write reloads the
// project so the view matches what is stored.
func (m *calendarModel) flush(ok string) tea.Cmd {
	if err := m.app.Calendar.Flush(m.projectID); err != nil {
		m.err = err
		m.ctrl = nil
		m.loading = true
		return m.load()
	}
	m.err = nil
	m.status = ok
	return nil
}

func (m *calendarModel) openForm() tea.Cmd {
	draft := m.ctrl.OpenDraft(m.cursor)
	m.formValues = formValuesFromDraft(*draft)
	m.form = newEventForm(m.formValues, m.ctrl.AssigneeCandidates(""))
	return m.form.Init()
}

func (m *calendarModel) closeForm() {
	m.form = nil
	m.formValues = nil
	m.ctrl.CancelDraft()
}

func (m *calendarModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		m.status = "Cancelled"
		return m, nil
	}

	updated, cmd := m.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	case huh.StateCompleted:
		return m, m.submitForm()
	}
	return m, cmd
}

// submitForm copies the form values into the open draft and creates the
// event. The form closes either way; errors surface in the status line.
func (m *calendarModel) submitForm() tea.Cmd {
	values := m.formValues
	m.form = nil
	m.formValues = nil

	d, err := values.toDraft()
	if err != nil {
		m.err = err
		m.ctrl.CancelDraft()
		return nil
	}
	if open := m.ctrl.Draft(); open != nil {
		*open = d
	}
	e, err := m.ctrl.SubmitDraft()
	if err != nil {
		m.err = err
		m.ctrl.CancelDraft()
		return nil
	}
	m.cursor = e.Date
	m.nav.SetReferenceDate(e.Date)
	return m.flush(fmt.Sprintf("Created %q", e.Title))
}

func (m *calendarModel) View() string {
	if m.loading {
		return formatter.Dim("Loading calendar...") + "\n"
	}
	if m.ctrl == nil {
		return formatter.StyleRed.Render("Error: "+errString(m.err)) + "\n\n" + m.help.View(m.keys) + "\n"
	}
	if m.form != nil {
		return formatter.Header("New event") + "\n\n" + m.form.View() + "\n" + formatter.Dim("esc cancel") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.titleLine())
	b.WriteString("\n\n")

	events := m.events()
	opts := formatter.GridOptions{Today: m.app.today(), Cursor: m.cursor}
	switch m.nav.Mode() {
	case domain.ViewWeek:
		b.WriteString(formatter.FormatWeek(calendar.ProjectWeek(events, m.nav.ReferenceDate()), opts))
	case domain.ViewList:
		b.WriteString(formatter.FormatAgenda(calendar.ProjectList(inMonth(events, m.nav.ReferenceDate())), m.app.today()))
	default:
		b.WriteString(formatter.FormatMonth(calendar.ProjectMonth(events, m.nav.ReferenceDate()), opts))
	}

	if e, ok := m.ctrl.Selected(); ok {
		b.WriteString("\n")
		b.WriteString(formatter.FormatEvent(e))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(formatter.Dim(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *calendarModel) titleLine() string {
	parts := []string{
		formatter.Bold(m.projectID),
		formatter.Dim(string(m.nav.Mode())),
		formatter.HumanDate(m.cursor),
	}
	if t := typeFilterCycle[m.typeIdx]; t != "" {
		parts = append(parts, formatter.TypeBadge(t))
	}
	return strings.Join(parts, "  ")
}

// inMonth keeps the events in ref's calendar month. The list view pages by
// month.
func inMonth(events []domain.CalendarEvent, ref domain.Date) []domain.CalendarEvent {
	var out []domain.CalendarEvent
	for _, e := range events {
		if e.Date.Year == ref.Year && e.Date.Month == ref.Month {
			out = append(out, e)
		}
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return "calendar unavailable"
	}
	return err.Error()
}
