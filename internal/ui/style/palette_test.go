package style

import (
	"reflect"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()

	// уведомления в консоли и в TUI используют одни цвета статусов
	assert.Equal(t, SuccessColor, p.Success)
	assert.Equal(t, ErrorColor, p.Error)
	assert.Equal(t, WarningColor, p.Warning)
	assert.Equal(t, InfoColor, p.Info)

	v := reflect.ValueOf(p)
	for i := 0; i < v.NumField(); i++ {
		c := v.Field(i).Interface().(lipgloss.Color)
		assert.NotEmpty(t, string(c), v.Type().Field(i).Name)
	}
}
