package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultServerURL = "http://localhost:3536"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	statusStyles = map[string]lipgloss.Style{
		"TRIAL":   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		"ACTIVE":  successStyle,
		"EXPIRED": errorStyle,
	}
)

type step int

const (
	stepEnteringEmail step = iota
	stepEnteringPassword
	stepLoggingIn
	stepLoading
	stepDashboard
	stepEnteringEnvelopeName
	stepEnteringEnvelopeTarget
	stepSaving
)

type model struct {
	api          *apiClient
	step         step
	email        string
	password     string
	sub          subscription
	envelopes    []envelope
	cursor       int
	newName      string
	currentInput string
	message      string
	quitting     bool
}

func initialModel(api *apiClient) model {
	return model{api: api, step: stepEnteringEmail}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) typing() bool {
	switch m.step {
	case stepEnteringEmail, stepEnteringPassword, stepEnteringEnvelopeName, stepEnteringEnvelopeTarget:
		return true
	}
	return false
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		case "esc":
			if m.step == stepEnteringEnvelopeName || m.step == stepEnteringEnvelopeTarget {
				m.currentInput = ""
				m.step = stepDashboard
			}

		case "enter":
			return m.submit()

		default:
			if m.typing() {
				m.currentInput += msg.String()
				return m, nil
			}
			return m.dashboardKey(msg.String())
		}

	case loginSuccessMsg:
		m.api.token = msg.token
		m.step = stepLoading
		m.message = successStyle.Render("✓ Logged in as " + m.email)
		return m, loadDashboard(m.api)

	case dashboardMsg:
		m.sub = msg.sub
		m.envelopes = msg.envelopes
		if m.cursor >= len(m.envelopes) {
			m.cursor = max(len(m.envelopes)-1, 0)
		}
		m.step = stepDashboard

	case envelopeChangedMsg:
		m.message = successStyle.Render("✓ " + msg.note)
		m.step = stepLoading
		return m, loadDashboard(m.api)

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		if m.step == stepLoggingIn {
			m.step = stepEnteringEmail
		} else if m.step != stepEnteringEmail {
			m.step = stepDashboard
		}
	}

	return m, nil
}

func (m model) submit() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepEnteringEmail:
		if m.currentInput != "" {
			m.email = m.currentInput
			m.currentInput = ""
			m.step = stepEnteringPassword
		}

	case stepEnteringPassword:
		if m.currentInput != "" {
			m.password = m.currentInput
			m.currentInput = ""
			m.step = stepLoggingIn
			m.message = "Logging in..."
			return m, loginUser(m.api, m.email, m.password)
		}

	case stepEnteringEnvelopeName:
		if m.currentInput != "" {
			m.newName = m.currentInput
			m.currentInput = ""
			m.step = stepEnteringEnvelopeTarget
		}

	case stepEnteringEnvelopeTarget:
		target := m.currentInput
		if target == "" {
			target = "0"
		}
		m.currentInput = ""
		m.step = stepSaving
		return m, createEnvelope(m.api, m.newName, target)
	}
	return m, nil
}

func (m model) dashboardKey(key string) (tea.Model, tea.Cmd) {
	if m.step != stepDashboard {
		return m, nil
	}
	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.envelopes)-1 {
			m.cursor++
		}
	case "n":
		m.message = ""
		m.step = stepEnteringEnvelopeName
	case "d":
		if len(m.envelopes) > 0 {
			m.step = stepSaving
			return m, deleteEnvelope(m.api, m.envelopes[m.cursor])
		}
	case "r":
		m.step = stepLoading
		return m, loadDashboard(m.api)
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Household Budget\n\n"))

	switch m.step {
	case stepEnteringEmail:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Enter your email:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Enter your password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepLoggingIn, stepLoading, stepSaving:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString("Working...\n")

	case stepDashboard:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		style, ok := statusStyles[m.sub.Status]
		if !ok {
			style = normalStyle
		}
		s.WriteString(fmt.Sprintf("Subscription: %s until %s\n\n", style.Render(m.sub.Status), m.sub.EndDate.Format("2006-01-02")))

		if len(m.envelopes) == 0 {
			s.WriteString(normalStyle.Render("No envelopes yet") + "\n")
		}
		for i, e := range m.envelopes {
			cursor := " "
			style := normalStyle
			if m.cursor == i {
				cursor = ">"
				style = selectedStyle
			}
			s.WriteString(fmt.Sprintf("%s %s (%s / %s)\n", cursor, style.Render(e.Name), e.CurrentAmount, e.TargetAmount))
		}

		s.WriteString("\nUse ↑/↓, n new, d delete, r refresh, q quit\n")

	case stepEnteringEnvelopeName:
		s.WriteString(promptStyle.Render("Envelope name:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter, Esc to cancel\n")

	case stepEnteringEnvelopeTarget:
		s.WriteString(promptStyle.Render("Target amount for " + m.newName + ":\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter, Esc to cancel\n")
	}

	return s.String()
}

func main() {
	serverURL := os.Getenv("BUDGET_API_URL")
	if serverURL == "" {
		serverURL = defaultServerURL
	}

	p := tea.NewProgram(initialModel(newAPIClient(strings.TrimRight(serverURL, "/"))))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
