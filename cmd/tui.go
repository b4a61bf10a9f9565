package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/engine"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/parser"
	"github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/internal/session"
)

const frameRate = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#0B6E4F")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8C8C8C"))

	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#C9A227")).
			Padding(0, 2)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1F7A4D")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#B3262E"))

	popupStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#C0392B")).
			Padding(0, 1)

	redSuit   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
	hpFull    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
	hpEmpty   = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	boldStyle = lipgloss.NewStyle().Bold(true)
)

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return frameMsg(t) })
}

type playModel struct {
	sess        *session.Session
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	history     []string
	historyIdx  int
	logContent  string
	width       int
	height      int
	last        time.Time
	showList    bool
	shake       int
}

func newPlayModel(sess *session.Session) playModel {
	ti := textinput.New()
	ti.Placeholder = "Enter command (e.g., bet 10, hit, stand). Enter on empty input continues."
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 60

	welcome := "Welcome to the table.\nType 'help' for commands, 'exit' to quit."
	vp := viewport.New(0, 0)
	vp.SetContent(welcome)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7)
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false)
	sugList.SetShowHelp(false)

	return playModel{
		sess:        sess,
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		historyIdx:  -1,
		logContent:  welcome,
		last:        time.Now(),
	}
}

func (m *playModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, nextFrame())
}

// completions are the console lines that make sense on the current screen.
func (m *playModel) completions() []string {
	v := m.sess.Engine().View()
	var out []string
	switch m.sess.Engine().State() {
	case engine.Betting:
		for _, o := range v.BetOptions {
			if o.Enabled {
				out = append(out, fmt.Sprintf("bet %d", o.Amount))
			}
		}
	case engine.PlayerTurn:
		out = append(out, "hit", "stand", "double")
		for _, t := range v.Trinkets {
			if t.Active != "" {
				out = append(out, "use "+t.Slot)
			}
		}
	case engine.Targeting:
		for _, c := range append(v.Player.Cards, v.Dealer.Cards...) {
			if c.FaceUp {
				out = append(out, "target "+c.Code)
			}
		}
		out = append(out, "cancel")
	case engine.EventPreview:
		out = append(out, "reroll", "continue")
	case engine.EventScreen:
		if v.Event != nil {
			for i := range v.Event.Choices {
				out = append(out, fmt.Sprintf("choose %d", i+1))
			}
		}
		out = append(out, "continue")
	case engine.TrinketDrop:
		out = append(out, "sell", "equip ")
	case engine.RewardScreen:
		if v.Reward != nil {
			for _, c := range v.Reward.Cards {
				out = append(out, "tag "+c)
			}
		}
		out = append(out, "continue")
	case engine.Menu, engine.GameOver:
		out = append(out, "new")
	default:
		out = append(out, "continue")
	}
	for _, u := range parser.Usage {
		out = append(out, strings.Fields(u)[0]+" ")
	}
	return append(out, "exit")
}

func (m *playModel) updateSuggestions() {
	val := m.textInput.Value()
	var items []list.Item

	defer func() {
		m.suggestions.SetItems(items)
		m.showList = len(items) > 0
		if m.showList {
			h := len(items)
			if h > 7 {
				h = 7
			}
			if h < 4 {
				h = 4
			}
			m.suggestions.SetHeight(h)
			m.suggestions.ResetSelected()
		}
	}()

	if val == "" {
		return
	}
	seen := map[string]bool{}
	for _, c := range m.completions() {
		if seen[c] {
			continue
		}
		seen[c] = true
		if strings.HasPrefix(strings.ToLower(c), strings.ToLower(val)) && len(val) < len(c) {
			items = append(items, suggestion(c))
		}
	}
}

func (m *playModel) logf(format string, args ...any) {
	m.logContent += "\n" + fmt.Sprintf(format, args...)
	m.viewport.SetContent(m.logContent)
	m.viewport.GotoBottom()
}

// drain turns the session's intents into log lines and screen effects.
func (m *playModel) drain() {
	for _, it := range m.sess.Intents() {
		switch it := it.(type) {
		case engine.LogLine:
			m.logf("%s", it.Text)
		case engine.DamageNumber:
			switch {
			case it.Heal:
				m.logf("  +%d HP", it.Amount)
			case it.Crit:
				m.logf("  -%d CRIT (%s)", it.Amount, it.Source)
			}
		case engine.ScreenShake:
			m.shake = 4
		case engine.RunComplete:
			if it.Victory {
				m.logf("*** Act complete. Type 'new' to play again. ***")
			} else {
				m.logf("*** You are broke. Type 'new' to try again. ***")
			}
		}
	}
}

func (m *playModel) apply(in engine.Input) {
	if err := m.sess.Apply(0, in); err != nil {
		m.logf("%v", err)
	}
	m.drain()
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		lsCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case frameMsg:
		now := time.Time(msg)
		dt := now.Sub(m.last).Seconds()
		m.last = now
		if err := m.sess.Tick(dt); err != nil {
			m.logf("%v", err)
		}
		if m.shake > 0 {
			m.shake--
		}
		m.drain()
		return m, nextFrame()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyEsc:
			if m.showList {
				m.showList = false
			} else {
				m.apply(engine.Input{Escape: true})
			}

		case tea.KeyUp:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.history) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.history[m.historyIdx])
				m.updateSuggestions()
			}

		case tea.KeyDown:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 && m.historyIdx != -1 {
				if m.historyIdx < len(m.history)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.history[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.updateSuggestions()
			}

		case tea.KeyTab:
			if m.showList {
				if i, ok := m.suggestions.SelectedItem().(suggestion); ok {
					m.textInput.SetValue(string(i))
					m.textInput.SetCursor(len(string(i)))
					m.updateSuggestions()
				}
			}

		case tea.KeyEnter:
			val := strings.TrimSpace(m.textInput.Value())
			if val == "exit" || val == "quit" {
				return m, tea.Quit
			}
			if val == "" {
				m.apply(engine.Input{Confirm: true})
				break
			}
			if len(m.history) == 0 || m.history[len(m.history)-1] != val {
				m.history = append(m.history, val)
			}
			m.historyIdx = -1
			m.textInput.SetValue("")
			m.updateSuggestions()

			m.logf("> %s", val)
			usage, err := m.sess.Execute(val)
			if err != nil {
				m.logf("Error: %v", err)
			}
			for _, u := range usage {
				m.logf("  %s", u)
			}
			m.drain()

		default:
			m.textInput, tiCmd = m.textInput.Update(msg)
			m.updateSuggestions()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.suggestions.SetWidth(msg.Width - 6)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	titleH := lipgloss.Height(titleStyle.Render("Dummy"))
	stateH := lipgloss.Height(m.renderState())
	listAreaHeight := 0
	if m.showList {
		listAreaHeight = m.suggestions.Height() + 2
	}
	infoH := lipgloss.Height(infoStyle.Render("Dummy"))
	overhead := titleH + stateH + 1 + listAreaHeight + infoH + 4

	m.viewport.Height = m.height - overhead
	if m.viewport.Height < 4 {
		m.viewport.Height = 4
	}

	return m, tea.Batch(tiCmd, vpCmd, lsCmd)
}

func renderCard(c engine.CardView) string {
	if !c.FaceUp && c.Code == "??" {
		return dimStyle.Render("[??]")
	}
	text := "[" + c.Name
	if len(c.Tags) > 0 {
		text += " " + strings.Join(c.Tags, ",")
	}
	if c.Modified {
		text += "*"
	}
	text += "]"
	if strings.ContainsAny(c.Name, "♥♦") {
		return redSuit.Render(text)
	}
	return text
}

func renderHand(label string, h engine.HandView) string {
	if len(h.Cards) == 0 {
		return label + ": -"
	}
	cards := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		cards[i] = renderCard(c)
	}
	line := fmt.Sprintf("%s: %s  (%d)", label, strings.Join(cards, " "), h.Score)
	if h.Busted {
		line += " BUST"
	}
	return line
}

func hpBar(display float64, max, width int) string {
	if max <= 0 {
		return ""
	}
	filled := int(display / float64(max) * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return hpFull.Render(strings.Repeat("█", filled)) + hpEmpty.Render(strings.Repeat("░", width-filled))
}

func (m *playModel) renderState() string {
	v := m.sess.Engine().View()
	var b strings.Builder

	if v.Enemy != nil {
		fmt.Fprintf(&b, "%s  %s %d/%d\n", boldStyle.Render(v.Enemy.Name), hpBar(v.Enemy.DisplayHP, v.Enemy.MaxHP, 30), v.Enemy.HP, v.Enemy.MaxHP)
		for _, a := range v.Enemy.Abilities {
			cd := ""
			if a.Cooldown > 0 {
				cd = fmt.Sprintf(" (cd %d)", a.Cooldown)
			}
			fmt.Fprintf(&b, "  %s%s %s\n", a.Name, cd, dimStyle.Render(a.Description))
		}
		b.WriteString("\n")
	}
	b.WriteString(renderHand("Dealer", v.Dealer) + "\n")
	b.WriteString(renderHand("You   ", v.Player) + "\n\n")

	fmt.Fprintf(&b, "Chips %d  Bet %d  Sanity %d/%d (%s)  Round %d  Deck %d/%d\n",
		v.Chips, v.Bet, v.Sanity, v.MaxSanity, v.Tier, v.Round, v.Deck.Draw, v.Deck.Discard)
	if len(v.Statuses) > 0 {
		parts := make([]string, len(v.Statuses))
		for i, s := range v.Statuses {
			parts[i] = fmt.Sprintf("%s %d (%d)", s.Kind, s.Value, s.Duration)
			if s.Intensity < 1 {
				parts[i] = dimStyle.Render(parts[i] + " fading")
			}
		}
		b.WriteString("Status: " + strings.Join(parts, ", ") + "\n")
	}
	if len(v.Trinkets) > 0 {
		parts := make([]string, len(v.Trinkets))
		for i, t := range v.Trinkets {
			parts[i] = fmt.Sprintf("%s:%s", t.Slot, t.Name)
			if t.Cooldown > 0 {
				parts[i] += fmt.Sprintf("(cd %d)", t.Cooldown)
			}
		}
		b.WriteString("Trinkets: " + strings.Join(parts, "  ") + "\n")
	}

	b.WriteString("\n" + m.renderScreen(v))
	if v.Popup != "" {
		b.WriteString("\n" + popupStyle.Render(v.Popup))
	}

	box := stateBoxStyle
	if m.shake > 0 {
		box = box.MarginLeft(m.shake % 2)
	}
	return box.Width(m.width - 4).Render(b.String())
}

// renderScreen prints the prompt of the current state.
func (m *playModel) renderScreen(v engine.View) string {
	switch m.sess.Engine().State() {
	case engine.Menu:
		return "Run over. 'new' starts another."
	case engine.IntroNarrative:
		return strings.TrimSpace(v.Intro) + "\n" + dimStyle.Render("(enter to continue)")
	case engine.CombatPreview:
		return fmt.Sprintf("Next: %s  (%.0fs)", v.Preview, v.Remaining)
	case engine.EventPreview:
		cost := 0
		if v.Event != nil {
			cost = v.Event.RerollCost
		}
		return fmt.Sprintf("Event ahead: %s  (%.0fs)  reroll for %d chips", v.Preview, v.Remaining, cost)
	case engine.Betting:
		parts := make([]string, len(v.BetOptions))
		for i, o := range v.BetOptions {
			parts[i] = o.Label
			if !o.Enabled {
				parts[i] = dimStyle.Render(o.Label)
			}
		}
		return "Place your bet: " + strings.Join(parts, "  ")
	case engine.PlayerTurn:
		return "hit / stand / double / use <slot>"
	case engine.Targeting:
		return fmt.Sprintf("Pick a card for slot %s (target <card>, esc cancels)", v.Targeting)
	case engine.EventScreen:
		if v.Event == nil {
			return ""
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n%s\n", boldStyle.Render(v.Event.Title), v.Event.Description)
		for i, c := range v.Event.Choices {
			line := fmt.Sprintf("  %d. %s", i+1, c.Text)
			switch {
			case i == v.Event.Selected:
				line = boldStyle.Render(line + "  <")
			case c.Locked:
				line = dimStyle.Render(line + " (locked)")
			}
			b.WriteString(line + "\n")
		}
		if v.Event.Result != "" {
			b.WriteString(v.Event.Result)
		}
		return b.String()
	case engine.TrinketDrop:
		if v.Drop == nil {
			return ""
		}
		text := fmt.Sprintf("Drop: %s (%s, tier %d) sells for %d", v.Drop.Name, v.Drop.Rarity, v.Drop.Tier, v.Drop.SellValue)
		if len(v.Drop.Affixes) > 0 {
			text += "\n  " + strings.Join(v.Drop.Affixes, ", ")
		}
		return text + "\nequip <slot> or sell"
	case engine.RewardScreen:
		if v.Reward == nil {
			return ""
		}
		return fmt.Sprintf("Tag a card %s: %s", v.Reward.Tag, strings.Join(v.Reward.Cards, " "))
	case engine.GameOver:
		return "GAME OVER. 'new' starts another run."
	}
	return ""
}

func (m *playModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	v := m.sess.Engine().View()
	title := titleStyle.Render(fmt.Sprintf(" Card Fifty-Two | %s %d/%d | %s ", v.Act, v.Encounter, v.Encounters, v.State))
	logBox := logBoxStyle.Width(m.width - 4).Render(m.viewport.View())

	inputArea := m.textInput.View()
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", inputArea, autocompleteStyle.Render(m.suggestions.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.renderState(),
		logBox,
		inputArea,
		infoStyle.Render("(ctrl+c to quit, enter continues, tab completes, up/down history)"),
	)
}

// RunTUI plays a session in the terminal until the player quits.
func RunTUI(sess *session.Session) error {
	m := newPlayModel(sess)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
