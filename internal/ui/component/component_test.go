package component

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-va/internal/logger"
	"github.com/rovshanmuradov/solana-va/internal/overview"
)

func typeText(f *Form, text string) *Form {
	for _, r := range text {
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return f
}

func newTestForm() *Form {
	return NewForm().
		AddField("deposit", FieldTypeNumber, "Deposit", true, "").
		AddField("timeframe", FieldTypeSelect, "Timeframe", true, "").
		SetSelectOptions("timeframe", []string{"minute", "hour", "day"}).
		AddField("start", FieldTypeText, "Start", false, "")
}

func TestForm_TypingAndFocus(t *testing.T) {
	f := newTestForm()
	assert.Equal(t, "deposit", f.Focused())

	f = typeText(f, "12.5")
	assert.Equal(t, "12.5", f.GetValue("deposit"))

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "timeframe", f.Focused())

	// выбор не принимает текст
	f = typeText(f, "x")
	assert.Equal(t, "minute", f.GetValue("timeframe"))

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRight})
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "day", f.GetValue("timeframe"))
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "minute", f.GetValue("timeframe"))
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "day", f.GetValue("timeframe"))

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "start", f.Focused())
}

func TestForm_SetFieldValueOnSelect(t *testing.T) {
	f := newTestForm().SetFieldValue("timeframe", "hour")
	assert.Equal(t, "hour", f.GetValue("timeframe"))

	f.SetFieldValue("timeframe", "fortnight")
	assert.Equal(t, "hour", f.GetValue("timeframe"))
}

func TestForm_DisabledIgnoresInput(t *testing.T) {
	f := newTestForm()
	f.SetDisabled(true)
	f = typeText(f, "7")
	assert.Empty(t, f.GetValue("deposit"))

	f.SetDisabled(false)
	f = typeText(f, "7")
	assert.Equal(t, "7", f.GetValue("deposit"))
}

func TestForm_ErrorsClearOnEdit(t *testing.T) {
	f := newTestForm()
	assert.False(t, f.Validate())
	assert.Equal(t, "This field is required", f.Error("deposit"))
	assert.Empty(t, f.Error("start"))

	f.SetFieldError("deposit", "malformed number")
	assert.Contains(t, f.View(), "malformed number")

	f = typeText(f, "1")
	assert.Empty(t, f.Error("deposit"))
	assert.True(t, f.Validate())
}

func TestTable_SelectionAndScroll(t *testing.T) {
	tbl := NewTable(TableColumn{Header: "A"}, TableColumn{Header: "B", Width: 6})
	assert.Equal(t, -1, tbl.Selected())

	tbl.SetSize(40, 6) // две строки данных
	tbl.SetRows([][]string{{"1", "a"}, {"2", "b"}, {"3", "c"}, {"4", "d"}})
	assert.Equal(t, 0, tbl.Selected())

	tbl.MoveDown().MoveDown().MoveDown().MoveDown()
	assert.Equal(t, 3, tbl.Selected())
	view := tbl.View()
	assert.Contains(t, view, "4")
	assert.NotContains(t, view, " 1 ")

	tbl.SetRows([][]string{{"only", "x"}})
	assert.Equal(t, 0, tbl.Selected())
	tbl.MoveUp()
	assert.Equal(t, 0, tbl.Selected())
}

func TestRenderCellTruncates(t *testing.T) {
	out := renderCell("abcdefghij", 6, 0, NewTable().rowStyle)
	assert.Contains(t, out, "abc…")
}

func TestLogPanel_FiltersLevels(t *testing.T) {
	buf := logger.NewLogBuffer(10)
	buf.Add("info", "order opened", nil)
	buf.Add("debug", "polling status", nil)
	buf.Add("error", "send failed", map[string]interface{}{"signature": "5xSig"})

	p := NewLogPanel(buf)
	lines := p.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "order opened")
	assert.Contains(t, lines[1], "send failed 5xSig")

	p.ToggleDebug()
	assert.Len(t, p.Lines(), 3)

	p.SetVisible(false)
	assert.Empty(t, p.View())
}

func TestLogFilterAllows(t *testing.T) {
	f := DefaultLogFilter()
	assert.True(t, f.Allows("WARN"))
	assert.True(t, f.Allows("fatal"))
	assert.False(t, f.Allows("debug"))
	assert.True(t, f.Allows("something-else"))
}

func TestStatusHeader(t *testing.T) {
	h := NewStatusHeader()
	h.SetWidth(100)
	assert.Contains(t, h.View(), "wallet not connected")

	h.SetWallet("So11111111111111111111111111111111111111112")
	h.SetPending("deposit")
	view := h.View()
	assert.Contains(t, view, "So11...1112")
	assert.Contains(t, view, "deposit")

	_, ok := h.Notification()
	assert.False(t, ok)
}

func TestDetailsAlignsLabels(t *testing.T) {
	out := Details([]overview.Row{{Label: "Order", Value: "abc"}, {Label: "Next order", Value: time.Unix(0, 0).UTC().Format("2006")}})
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "1970")
}
