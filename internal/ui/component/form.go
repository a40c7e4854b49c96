package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-va/internal/ui/style"
)

// FieldType represents the type of form field
type FieldType int

const (
	FieldTypeText FieldType = iota
	FieldTypeNumber
	FieldTypeSelect
)

// FormField represents a single form field
type FormField struct {
	Name        string
	Label       string
	Type        FieldType
	Value       string
	Options     []string // For select fields
	Placeholder string
	Help        string
	Required    bool
	Error       string

	textInput   textinput.Model
	selectedIdx int
}

func (f *FormField) isInput() bool {
	return f.Type == FieldTypeText || f.Type == FieldTypeNumber
}

// Form represents a form component with multiple fields
type Form struct {
	title      string
	fields     []FormField
	focusIndex int
	width      int
	disabled   bool

	labelStyle   lipgloss.Style
	helpStyle    lipgloss.Style
	inputStyle   lipgloss.Style
	focusedStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewForm creates a new form component
func NewForm() *Form {
	palette := style.DefaultPalette()

	return &Form{
		labelStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true).
			MarginRight(1),

		helpStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),

		inputStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),

		focusedStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary),

		errorStyle: lipgloss.NewStyle().
			Foreground(palette.Error),
	}
}

// SetTitle sets the heading rendered above the fields.
func (f *Form) SetTitle(title string) *Form {
	f.title = title
	return f
}

// AddField adds a field to the form
func (f *Form) AddField(name string, fieldType FieldType, label string, required bool, help string) *Form {
	ti := textinput.New()
	ti.Width = 40
	ti.Placeholder = help
	if fieldType == FieldTypeNumber && help == "" {
		ti.Placeholder = "0"
	}

	f.fields = append(f.fields, FormField{
		Name:        name,
		Label:       label,
		Type:        fieldType,
		Placeholder: ti.Placeholder,
		Help:        help,
		Required:    required,
		textInput:   ti,
	})

	if len(f.fields) == 1 && fieldType != FieldTypeSelect {
		f.fields[0].textInput.Focus()
	}
	return f
}

func (f *Form) field(name string) *FormField {
	for i := range f.fields {
		if f.fields[i].Name == name {
			return &f.fields[i]
		}
	}
	return nil
}

// SetFieldValue sets the value of a field. For a select field the value
// must be one of its options.
func (f *Form) SetFieldValue(name, value string) *Form {
	fld := f.field(name)
	if fld == nil {
		return f
	}
	if fld.Type == FieldTypeSelect {
		for i, o := range fld.Options {
			if o == value {
				fld.selectedIdx = i
				fld.Value = value
			}
		}
		return f
	}
	fld.Value = value
	fld.textInput.SetValue(value)
	return f
}

// SetSelectOptions sets options for select fields
func (f *Form) SetSelectOptions(name string, options []string) *Form {
	fld := f.field(name)
	if fld == nil || fld.Type != FieldTypeSelect {
		return f
	}
	fld.Options = options
	fld.selectedIdx = 0
	fld.Value = ""
	if len(options) > 0 {
		fld.Value = options[0]
	}
	return f
}

// SetFieldError attaches an error message to a field.
func (f *Form) SetFieldError(name, msg string) *Form {
	if fld := f.field(name); fld != nil {
		fld.Error = msg
	}
	return f
}

// ClearErrors removes every field error.
func (f *Form) ClearErrors() {
	for i := range f.fields {
		f.fields[i].Error = ""
	}
}

// SetDisabled блокирует ввод, пока транзакция в полёте.
func (f *Form) SetDisabled(disabled bool) {
	f.disabled = disabled
}

// Disabled reports whether input is blocked.
func (f *Form) Disabled() bool {
	return f.disabled
}

// Focused returns the name of the focused field.
func (f *Form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focusIndex].Name
}

// Update handles form input and updates
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if len(f.fields) == 0 || f.disabled {
		return f, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		fld := &f.fields[f.focusIndex]
		switch msg.String() {
		case "tab", "enter":
			if msg.String() == "enter" && fld.Type == FieldTypeSelect {
				f.stepOption(1)
				return f, nil
			}
			f.focus(f.focusIndex + 1)
			return f, nil
		case "shift+tab":
			f.focus(f.focusIndex - 1)
			return f, nil
		case "up", "left":
			if fld.Type == FieldTypeSelect {
				f.stepOption(-1)
				return f, nil
			}
		case "down", "right", " ":
			if fld.Type == FieldTypeSelect {
				f.stepOption(1)
				return f, nil
			}
		}
	}

	fld := &f.fields[f.focusIndex]
	if !fld.isInput() {
		return f, nil
	}
	var cmd tea.Cmd
	fld.textInput, cmd = fld.textInput.Update(msg)
	if v := fld.textInput.Value(); v != fld.Value {
		fld.Value = v
		fld.Error = ""
	}
	return f, cmd
}

func (f *Form) focus(idx int) {
	n := len(f.fields)
	f.fields[f.focusIndex].textInput.Blur()
	f.focusIndex = ((idx % n) + n) % n
	if f.fields[f.focusIndex].isInput() {
		f.fields[f.focusIndex].textInput.Focus()
	}
}

func (f *Form) stepOption(delta int) {
	fld := &f.fields[f.focusIndex]
	n := len(fld.Options)
	if n == 0 {
		return
	}
	fld.selectedIdx = ((fld.selectedIdx+delta)%n + n) % n
	fld.Value = fld.Options[fld.selectedIdx]
}

// View renders the form
func (f *Form) View() string {
	if len(f.fields) == 0 {
		return "No fields defined"
	}

	var b strings.Builder
	if f.title != "" {
		b.WriteString(style.TitleStyle.Render(f.title))
		b.WriteString("\n")
	}

	for i, fld := range f.fields {
		label := fld.Label
		if fld.Required {
			label += " *"
		}
		b.WriteString(f.labelStyle.Render(label))
		b.WriteString("\n")

		box := f.inputStyle
		if i == f.focusIndex && !f.disabled {
			box = f.focusedStyle
		}
		switch fld.Type {
		case FieldTypeSelect:
			text := fld.Value
			if i == f.focusIndex {
				text = "◀ " + text + " ▶"
			}
			b.WriteString(box.Render(text))
		default:
			b.WriteString(box.Render(fld.textInput.View()))
		}
		b.WriteString("\n")

		if fld.Error != "" {
			b.WriteString(f.errorStyle.Render("⚠ " + fld.Error))
			b.WriteString("\n")
		} else if i == f.focusIndex && fld.Type == FieldTypeSelect && fld.Help != "" {
			b.WriteString(f.helpStyle.Render(fld.Help))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Validate checks required fields. Custom rules live with the caller.
func (f *Form) Validate() bool {
	valid := true
	for i := range f.fields {
		fld := &f.fields[i]
		fld.Error = ""
		if fld.Required && strings.TrimSpace(fld.Value) == "" {
			fld.Error = "This field is required"
			valid = false
		}
	}
	return valid
}

// GetValues returns all form field values as a map
func (f *Form) GetValues() map[string]string {
	values := make(map[string]string, len(f.fields))
	for _, fld := range f.fields {
		values[fld.Name] = strings.TrimSpace(fld.Value)
	}
	return values
}

// GetValue returns the value of a specific field
func (f *Form) GetValue(name string) string {
	if fld := f.field(name); fld != nil {
		return strings.TrimSpace(fld.Value)
	}
	return ""
}

// Error returns the current error of a field.
func (f *Form) Error(name string) string {
	if fld := f.field(name); fld != nil {
		return fld.Error
	}
	return ""
}

// SetWidth sets the form width
func (f *Form) SetWidth(width int) *Form {
	f.width = width
	if w := width - 6; w > 10 {
		for i := range f.fields {
			f.fields[i].textInput.Width = w
		}
	}
	return f
}
