package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/sunvale/sevendays/internal/engine"
	"github.com/sunvale/sevendays/internal/services"
	"github.com/sunvale/sevendays/pkg/dialogue"
	"github.com/sunvale/sevendays/pkg/lang"
	"github.com/sunvale/sevendays/pkg/meal"
)

const PlaceHolderText = "Type your reply here..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	playerID     string
	lang         lang.Lang
	npc          npcEntry
	reply        *engine.Reply
	journey      *progressResponse
	entries      []chatEntry
	lastClue     string
	npcs         []npcEntry
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	loading      bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type entryKind int

const (
	entryUser entryKind = iota
	entryNPC
	entrySystem
	entryClue
	entryError
)

type chatEntry struct {
	kind entryKind
	text string
}

type dialogueReplyMsg struct {
	reply *engine.Reply
	err   error
}

type journeyMsg struct {
	journey *progressResponse
	err     error
}

type npcListMsg struct {
	npcs []npcEntry
	err  error
}

type summaryMsg struct {
	summary *services.Summary
	err     error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	npcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	clueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")). // gold
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

var choiceLabels = map[dialogue.Choice]lang.Text{
	dialogue.ChoiceKeepChatting: {EN: "Keep chatting", ZH: "继续聊天"},
	dialogue.ChoiceRecordMeal:   {EN: "Record a meal", ZH: "记录一餐"},
}

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, playerID string, l lang.Lang, n npcEntry, reply *engine.Reply) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	m := ConsoleUI{
		config:       cfg,
		client:       client,
		playerID:     playerID,
		lang:         l,
		npc:          n,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		ready:        false,
	}
	m.ingestReply(reply)
	return m
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.refreshJourney())
}

// ingestReply turns one engine reply into chat entries and remembers
// the reply so player input can be routed by phase.
func (m *ConsoleUI) ingestReply(reply *engine.Reply) {
	m.reply = reply
	for _, line := range reply.Lines {
		m.entries = append(m.entries, chatEntry{kind: entryNPC, text: line})
	}

	if reply.Clue != nil {
		m.lastClue = reply.Clue.Text
		label := lang.Text{EN: "Clue", ZH: "线索"}.Pick(m.lang)
		m.entries = append(m.entries, chatEntry{kind: entryClue, text: label + ": " + reply.Clue.Text})
	}

	if reply.Outcome != nil {
		if reply.Outcome.GameCompleted {
			m.entries = append(m.entries, chatEntry{kind: entrySystem, text: lang.Text{
				EN: "Your seven days in Sunvale are complete. The letters are being prepared; use /summary to read them.",
				ZH: "你在阳谷村的七天结束了。信件正在整理中，输入 /summary 阅读。",
			}.Pick(m.lang)})
		} else if reply.Outcome.DayAdvanced {
			m.entries = append(m.entries, chatEntry{kind: entrySystem, text: lang.Text{
				EN: fmt.Sprintf("Day %d dawns. A new villager will talk to you.", reply.Outcome.NewDay),
				ZH: fmt.Sprintf("第%d天到了。新的村民愿意和你聊聊了。", reply.Outcome.NewDay),
			}.Pick(m.lang)})
		}
	}

	if reply.Question != nil && reply.Prompt != "" {
		m.entries = append(m.entries, chatEntry{kind: entryNPC, text: reply.Prompt})
		for i, o := range reply.Question.Options {
			m.entries = append(m.entries, chatEntry{kind: entrySystem,
				text: fmt.Sprintf("  %d) %s", i+1, o.Label.Pick(m.lang))})
		}
	}

	for i, c := range reply.Choices {
		m.entries = append(m.entries, chatEntry{kind: entrySystem,
			text: fmt.Sprintf("  %d) %s", i+1, choiceLabels[c].Pick(m.lang))})
	}

	for i, t := range reply.Meals {
		m.entries = append(m.entries, chatEntry{kind: entrySystem,
			text: fmt.Sprintf("  %d) %s", i+1, t.Name(m.lang))})
	}

	if reply.Done {
		m.entries = append(m.entries, chatEntry{kind: entrySystem, text: lang.Text{
			EN: "The conversation has ended. Use /npcs to see the villagers, /visit N to call on one.",
			ZH: "对话结束了。输入 /npcs 查看村民，/visit N 去拜访。",
		}.Pick(m.lang)})
	}
}

// writeChatContent rebuilds the chat viewport for the current width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding
	if chatWidth < 10 {
		chatWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("SEVEN DAYS IN SUNVALE") + "\n\n")
	content.WriteString(lang.Text{
		EN: "Share your meals with the villagers and follow your grandfather's trail.",
		ZH: "和村民聊聊你的三餐，循着祖父留下的线索走下去。",
	}.Pick(m.lang) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth-6)) + "\n\n")

	for _, e := range m.entries {
		switch e.kind {
		case entryUser:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(e.text, chatWidth-6) + "\n\n")
		case entryNPC:
			prefix := m.npc.Name + ": "
			wrapped := wordwrap.String(e.text, chatWidth-len(prefix))
			content.WriteString(speakerStyle.Render(prefix) + npcStyle.Render(wrapped) + "\n\n")
		case entryClue:
			content.WriteString(clueStyle.Render(wordwrap.String(e.text, chatWidth)) + "\n\n")
		case entryError:
			content.WriteString(errorStyle.Render(wordwrap.String(e.text, chatWidth)) + "\n\n")
		default:
			content.WriteString(promptStyle.Render(wordwrap.String(e.text, chatWidth)) + "\n")
		}
	}

	if m.loading {
		content.WriteString("\n" + m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("YOUR JOURNEY") + "\n\n")

	content.WriteString("Player:\n")
	content.WriteString(m.playerID + "\n\n")

	content.WriteString("Talking to:\n")
	content.WriteString(fmt.Sprintf("%s (day %d)\n\n", m.npc.Name, m.npc.Day))

	if m.reply != nil {
		content.WriteString("Phase:\n")
		content.WriteString(string(m.reply.Phase) + "\n\n")
	}

	if m.journey != nil && m.journey.Progress != nil {
		content.WriteString("Day:\n")
		content.WriteString(fmt.Sprintf("%d of 7\n\n", m.journey.Progress.CurrentDay))
		content.WriteString("Meals recorded:\n")
		content.WriteString(fmt.Sprintf("%d\n\n", len(m.journey.Meals)))
		content.WriteString("Clues found:\n")
		content.WriteString(fmt.Sprintf("%d\n\n", len(m.journey.Clues)))
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• Ctrl+Y: Copy clue\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /npcs: Villagers\n")
	content.WriteString("• /visit N: Visit\n")
	content.WriteString("• /summary: Letters\n")

	m.metaViewport.SetContent(content.String())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		// Pass mouse events to the chat viewport for scrolling and
		// text selection; the other components ignore what they
		// don't handle.
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.writeChatContent()
		m.writeMetadata()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			if m.lastClue != "" {
				_ = clipboard.WriteAll(m.lastClue)
			}
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0

			m.entries = append(m.entries, chatEntry{kind: entryUser, text: input})
			m.writeChatContent()

			return m, tea.Batch(m.sendInput(input), progressTick())
		}

	case dialogueReplyMsg:
		m.loading = false
		if msg.err != nil {
			m.entries = append(m.entries, chatEntry{kind: entryError, text: msg.err.Error()})
		} else {
			m.ingestReply(msg.reply)
		}
		m.writeChatContent()
		m.writeMetadata()
		return m, m.refreshJourney()

	case journeyMsg:
		if msg.err == nil && msg.journey != nil {
			m.journey = msg.journey
			m.writeMetadata()
		}

	case npcListMsg:
		if msg.err != nil {
			m.entries = append(m.entries, chatEntry{kind: entryError, text: msg.err.Error()})
		} else {
			m.npcs = msg.npcs
			m.entries = append(m.entries, chatEntry{kind: entrySystem, text: "The villagers of Sunvale:"})
			for i, n := range msg.npcs {
				marker := " "
				switch {
				case n.Completed:
					marker = "✓"
				case n.Reachable:
					marker = "•"
				}
				m.entries = append(m.entries, chatEntry{kind: entrySystem,
					text: fmt.Sprintf("  %d %s Day %d - %s", i+1, marker, n.Day, n.Name)})
			}
		}
		m.writeChatContent()

	case summaryMsg:
		m.loading = false
		if msg.err != nil {
			m.entries = append(m.entries, chatEntry{kind: entryError, text: msg.err.Error()})
		} else if msg.summary == nil {
			m.entries = append(m.entries, chatEntry{kind: entrySystem, text: lang.Text{
				EN: "The letters are not ready yet. Try /summary again in a moment.",
				ZH: "信还没有整理好，请稍后再输入 /summary。",
			}.Pick(m.lang)})
		} else {
			m.entries = append(m.entries,
				chatEntry{kind: entryClue, text: msg.summary.Letter},
				chatEntry{kind: entrySystem, text: msg.summary.SevenDaySummary},
				chatEntry{kind: entrySystem, text: msg.summary.HealthNotes},
				chatEntry{kind: entrySystem, text: msg.summary.Recipe})
		}
		m.writeChatContent()

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// sendInput routes free text to the right dialogue action for the
// current phase. Numbered input picks from whatever list the last
// reply offered.
func (m ConsoleUI) sendInput(input string) tea.Cmd {
	req := dialogueRequest{
		PlayerID: m.playerID,
		Action:   "message",
		Message:  input,
	}

	if m.reply != nil {
		switch m.reply.Phase {
		case dialogue.PhaseFreeChat:
			if len(m.reply.Choices) > 0 {
				if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(m.reply.Choices) {
					req = dialogueRequest{PlayerID: m.playerID, Action: "choice", Choice: m.reply.Choices[n-1]}
				}
			}
		case dialogue.PhaseMealSelection:
			req = dialogueRequest{PlayerID: m.playerID, Action: "select_meal"}
			if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(m.reply.Meals) {
				req.MealType = m.reply.Meals[n-1]
			} else {
				req.MealType = mealTypeFromInput(input)
			}
		case dialogue.PhaseFixedQuestions, dialogue.PhaseFreeFormInterview:
			req = dialogueRequest{PlayerID: m.playerID, Action: "answer", Answer: input}
			if m.reply.Question != nil && len(m.reply.Question.Options) > 0 {
				if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(m.reply.Question.Options) {
					req.Answer = m.reply.Question.Options[n-1].Value
				}
			}
		}
	}

	return func() tea.Msg {
		reply, err := sendDialogue(m.client, m.config.APIBaseURL, req)
		return dialogueReplyMsg{reply, err}
	}
}

func mealTypeFromInput(input string) meal.Type {
	lowered := strings.ToLower(input)
	for _, t := range meal.All {
		if lowered == string(t) {
			return t
		}
	}
	return meal.Type(lowered)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	m.textarea.Reset()
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) == 0 {
		return m, nil
	}

	switch fields[0] {
	case "/help":
		helpText := `
Commands:
• /help - Show this help
• /npcs - List the villagers
• /visit N - Visit villager N from the list
• /summary - Read the final letters
• Ctrl+Y - Copy the latest clue
• Ctrl+C - Quit

How to play:
• Chat freely, then choose to record a meal
• Answer the questions about what you ate
• Each recorded meal earns a clue
`
		m.entries = append(m.entries, chatEntry{kind: entrySystem, text: helpText})
		m.writeChatContent()
		return m, nil

	case "/npcs":
		return m, m.loadNPCs()

	case "/visit":
		if len(fields) < 2 || len(m.npcs) == 0 {
			m.entries = append(m.entries, chatEntry{kind: entryError, text: "Use /npcs first, then /visit N."})
			m.writeChatContent()
			return m, nil
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > len(m.npcs) {
			m.entries = append(m.entries, chatEntry{kind: entryError, text: "Invalid villager number."})
			m.writeChatContent()
			return m, nil
		}
		m.npc = m.npcs[n-1]
		m.loading = true
		m.progressTick = 0
		m.writeChatContent()
		return m, tea.Batch(m.openDialogue(m.npc.ID), progressTick())

	case "/summary":
		m.loading = true
		m.progressTick = 0
		m.writeChatContent()
		return m, tea.Batch(m.loadSummary(), progressTick())
	}

	return m, nil
}

func (m ConsoleUI) openDialogue(npcID string) tea.Cmd {
	return func() tea.Msg {
		reply, err := sendDialogue(m.client, m.config.APIBaseURL, dialogueRequest{
			PlayerID: m.playerID,
			Action:   "open",
			NPCID:    npcID,
			Lang:     string(m.lang),
		})
		return dialogueReplyMsg{reply, err}
	}
}

func (m ConsoleUI) refreshJourney() tea.Cmd {
	return func() tea.Msg {
		journey, err := getProgress(m.client, m.config.APIBaseURL, m.playerID)
		return journeyMsg{journey, err}
	}
}

func (m ConsoleUI) loadNPCs() tea.Cmd {
	return func() tea.Msg {
		npcs, err := listNPCs(m.client, m.config.APIBaseURL, m.playerID, string(m.lang))
		return npcListMsg{npcs, err}
	}
}

func (m ConsoleUI) loadSummary() tea.Cmd {
	return func() tea.Msg {
		summary, err := getSummary(m.client, m.config.APIBaseURL, m.playerID)
		return summaryMsg{summary, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave Sunvale?"))
	content.WriteString("\n\n")
	content.WriteString("Your progress is saved; the villagers will remember you.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to stay, or Ctrl+C to force quit"))

	modal := modalStyle.Width(56).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
