package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// errNoSelection is returned when the picker is closed without a choice.
var errNoSelection = errors.New("no tenant selected")

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// TenantListModel - Interactive tenant selection
// =============================================================================

// TenantListModel is the bubbletea model for interactive tenant selection.
type TenantListModel struct {
	Tenants  []tenantInfo
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewTenantListModel creates a new tenant list model.
func NewTenantListModel(tenants []tenantInfo) TenantListModel {
	return TenantListModel{Tenants: tenants, Height: 15}
}

func (m TenantListModel) Init() tea.Cmd {
	return nil
}

func (m TenantListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Tenants)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Tenants) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Tenants[m.Cursor].Name
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m TenantListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Tenant"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Tenants))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		t := m.Tenants[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		pin := ""
		if t.Pinned {
			pin = StyleSuccess.Render(iconPinned)
		}
		rows = append(rows, []string{cursor, t.Name, t.Title, t.Source, pin})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Tenant", "Title", "Source", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorDim)
			}
			if m.Offset+row == m.Cursor {
				if col < 3 {
					return StyleHighlight.Bold(true)
				}
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Tenants))))

	return b.String()
}

// pickTenant asks the user to choose a configured tenant. It requires an
// interactive terminal.
func (c *CLI) pickTenant(ctx context.Context) (string, error) {
	if !isTerminal(os.Stdin) {
		return "", errors.New("set --tenant, --count, --all or a layout file")
	}
	infos, err := c.tenantInfos(ctx)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", errors.New("no tenants configured; use --count for placeholders")
	}

	final, err := tea.NewProgram(NewTenantListModel(infos), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", fmt.Errorf("tenant picker: %w", err)
	}
	selected := final.(TenantListModel).Selected
	if selected == "" {
		return "", errNoSelection
	}
	return selected, nil
}
