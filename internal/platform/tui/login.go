package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-sokoban/internal/accounts"
)

// Authenticator is what the login screen needs from the account service.
type Authenticator interface {
	Authenticate(username, password string) (accounts.Identity, error)
	Register(username, password string) (accounts.Identity, error)
}

type loginMode int

const (
	modeLogin loginMode = iota
	modeRegister
)

const (
	fieldUsername = iota
	fieldPassword
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// LoginModel is the login/register screen. Tab switches between the two forms.
type LoginModel struct {
	auth     Authenticator
	inputs   []textinput.Model
	focus    int
	mode     loginMode
	message  string
	isError  bool
	identity *accounts.Identity // Set once the user logged in or chose guest
	quitting bool
	width    int
	height   int
}

// NewLoginModel creates a login screen backed by auth.
func NewLoginModel(auth Authenticator, width, height int) LoginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 32
	username.Prompt = "Username: "
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 64
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginModel{
		auth:   auth,
		inputs: []textinput.Model{username, password},
		width:  width,
		height: height,
	}
}

// Init starts the cursor blink.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the login screen.
func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "tab":
			if m.mode == modeLogin {
				m.mode = modeRegister
			} else {
				m.mode = modeLogin
			}
			m.reset()
			return m, nil

		case "ctrl+g":
			guest := accounts.Guest()
			m.identity = &guest
			return m, nil

		case "up", "shift+tab":
			return m, m.setFocus(fieldUsername)

		case "down":
			return m, m.setFocus(fieldPassword)

		case "enter":
			if m.focus == fieldUsername {
				return m, m.setFocus(fieldPassword)
			}
			m.submit()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// submit logs in or registers with the current field values.
func (m *LoginModel) submit() {
	username := m.inputs[fieldUsername].Value()
	password := m.inputs[fieldPassword].Value()

	if m.mode == modeLogin {
		id, err := m.auth.Authenticate(username, password)
		if err != nil {
			m.setMessage(loginErrorText(err), true)
			m.inputs[fieldPassword].SetValue("")
			return
		}
		m.identity = &id
		return
	}

	id, err := m.auth.Register(username, password)
	if err != nil {
		m.setMessage(loginErrorText(err), true)
		return
	}

	// Back to the login form with the new username filled in
	m.mode = modeLogin
	m.reset()
	m.inputs[fieldUsername].SetValue(id.Username)
	m.setFocus(fieldPassword)
	m.setMessage("Registered successfully! Log in to continue.", false)
}

// loginErrorText turns an account error into a user-facing message.
func loginErrorText(err error) string {
	switch {
	case errors.Is(err, accounts.ErrInvalidCredentials):
		return "Invalid login"
	case errors.Is(err, accounts.ErrUserExists):
		return "Username already exists"
	case errors.Is(err, accounts.ErrInvalidUsername),
		errors.Is(err, accounts.ErrInvalidPassword),
		errors.Is(err, accounts.ErrPasswordTooLong),
		errors.Is(err, accounts.ErrReservedUsername):
		return strings.ToUpper(err.Error()[:1]) + err.Error()[1:]
	default:
		return "Error: " + err.Error()
	}
}

func (m *LoginModel) setMessage(text string, isError bool) {
	m.message = text
	m.isError = isError
}

// setFocus moves keyboard focus to field i.
func (m *LoginModel) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

// reset clears both fields and the message.
func (m *LoginModel) reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.message = ""
	m.setFocus(fieldUsername)
}

// View renders the login screen.
func (m LoginModel) View() string {
	if m.quitting {
		return ""
	}

	title := "Login to Sokoban"
	action := "Enter: log in"
	switch m.mode {
	case modeRegister:
		title = "Register New User"
		action = "Enter: register"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	if m.message != "" {
		style := successStyle
		if m.isError {
			style = errorStyle
		}
		b.WriteString(centerText(style.Render(m.message), m.width))
		b.WriteString("\n\n")
	}

	for _, in := range m.inputs {
		b.WriteString(centerText(in.View(), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hint := action + "  |  Tab: switch login/register  |  Ctrl+G: guest  |  Esc: quit"
	b.WriteString(centerText(hintStyle.Render(hint), m.width))
	b.WriteString("\n")

	return b.String()
}

// Identity returns the logged-in identity, or nil while the form is open.
func (m LoginModel) Identity() *accounts.Identity {
	return m.identity
}

// IsQuitting returns true if user requested to quit.
func (m LoginModel) IsQuitting() bool {
	return m.quitting
}

// IsRegistering reports whether the register form is shown.
func (m LoginModel) IsRegistering() bool {
	return m.mode == modeRegister
}
