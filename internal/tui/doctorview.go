package tui

import (
	"bytes"

	tea "charm.land/bubbletea/v2"
)

// DoctorModel displays doctor health check results in a scrollable viewer.
type DoctorModel struct {
	viewer *ViewerModel
}

// NewDoctor creates a new doctor output viewer.
func NewDoctor(e *env) *DoctorModel {
	loader := func() (string, error) {
		var buf bytes.Buffer
		// A failed check still produces the report worth showing.
		if err := e.opts.Doctor(e.ctx, &buf); err != nil && buf.Len() == 0 {
			return "", err
		}
		return buf.String(), nil
	}
	return &DoctorModel{viewer: NewLoadingViewer("Doctor", loader, e.theme)}
}

func (m *DoctorModel) Init() tea.Cmd  { return m.viewer.Init() }
func (m *DoctorModel) View() tea.View { return m.viewer.View() }
func (m *DoctorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.viewer.Update(msg)
	return m, cmd
}
