package theme

import "github.com/charmbracelet/lipgloss"

type CommandSegmentStyle struct {
	Background lipgloss.Color
	Border     lipgloss.Color
	Key        lipgloss.Color
	Text       lipgloss.Color
}

type Theme struct {
	AppFrame       lipgloss.Style
	Header         lipgloss.Style
	HeaderBrand    lipgloss.Style
	HeaderValue    lipgloss.Style
	SidebarBorder  lipgloss.Style
	SidebarItem    lipgloss.Style
	SidebarActive  lipgloss.Style
	SidebarDirty   lipgloss.Style
	PaneBorder     lipgloss.Style
	PaneTitle      lipgloss.Style
	Tabs           lipgloss.Style
	TabActive      lipgloss.Style
	TabInactive    lipgloss.Style
	RowKey         lipgloss.Style
	RowValue       lipgloss.Style
	RowSelected    lipgloss.Style
	RowDisabled    lipgloss.Style
	RowComment     lipgloss.Style
	RowDuplicate   lipgloss.Style
	RowFirstOfDup  lipgloss.Style
	RowMasked      lipgloss.Style
	StatusBar      lipgloss.Style
	StatusBarKey   lipgloss.Style
	StatusBarValue lipgloss.Style
	Notification   lipgloss.Style
	Warning        lipgloss.Style
	Error          lipgloss.Style
	Success        lipgloss.Style
	PromptBorder   lipgloss.Style
	PromptTitle    lipgloss.Style
	DiffAdded      lipgloss.Style
	DiffRemoved    lipgloss.Style
	// Highlight names the chroma style used for the raw view.
	Highlight       string
	CommandSegments []CommandSegmentStyle
	CommandDivider  lipgloss.Style
}

func DefaultTheme() Theme {
	accent := lipgloss.Color("#7D56F4")
	base := lipgloss.NewStyle().Foreground(lipgloss.Color("#dcd7ff"))

	return Theme{
		AppFrame: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#403B59")),
		Header:      lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E1FF")).Padding(0, 1),
		HeaderBrand: lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1020")).Background(lipgloss.Color("#FBC859")).Bold(true).Padding(0, 1),
		HeaderValue: lipgloss.NewStyle().Foreground(lipgloss.Color("#D1CFF6")),
		SidebarBorder: base.
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#A78BFA")),
		SidebarItem:   lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A1BB")),
		SidebarActive: lipgloss.NewStyle().Foreground(lipgloss.Color("#F5F2FF")).Bold(true),
		SidebarDirty:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB61E")).Bold(true),
		PaneBorder: base.
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent),
		PaneTitle: lipgloss.NewStyle().Foreground(accent).Bold(true),
		Tabs:      lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A1BB")).Padding(0, 1),
		TabActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FDFBFF")).
			Background(accent).
			Bold(true).
			Padding(0, 2),
		TabInactive:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5E5A72")).Padding(0, 1),
		RowKey:         lipgloss.NewStyle().Foreground(lipgloss.Color("#5FB3B3")).Bold(true),
		RowValue:       lipgloss.NewStyle().Foreground(lipgloss.Color("#EAEAEA")),
		RowSelected:    lipgloss.NewStyle().Background(lipgloss.Color("#2C1E3A")),
		RowDisabled:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5E5A72")).Strikethrough(true),
		RowComment:     lipgloss.NewStyle().Foreground(lipgloss.Color("#867CC1")).Italic(true),
		RowDuplicate:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6E6E")),
		RowFirstOfDup:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9F70")),
		RowMasked:      lipgloss.NewStyle().Foreground(lipgloss.Color("#5E5A72")),
		StatusBar:      lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A1BB")).Padding(0, 1),
		StatusBarKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8B39")).Bold(true),
		StatusBarValue: lipgloss.NewStyle().Foreground(lipgloss.Color("#EAEAEA")),
		Notification:   lipgloss.NewStyle().Foreground(lipgloss.Color("#E0DEF4")).Background(lipgloss.Color("#433C59")).Padding(0, 1),
		Warning:        lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB61E")).Bold(true),
		Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6E6E")),
		Success:        lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF17E")),
		PromptBorder: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#15AABF")).
			Padding(0, 1),
		PromptTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("#15AABF")).Bold(true),
		DiffAdded:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF17E")),
		DiffRemoved: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6E6E")),
		Highlight:   "monokai",
		CommandSegments: []CommandSegmentStyle{
			{
				Background: lipgloss.Color("#2C1E3A"),
				Border:     lipgloss.Color("#7D56F4"),
				Key:        lipgloss.Color("#F6E3FF"),
				Text:       lipgloss.Color("#E5E1FF"),
			},
			{
				Background: lipgloss.Color("#102B33"),
				Border:     lipgloss.Color("#15AABF"),
				Key:        lipgloss.Color("#A7F2FF"),
				Text:       lipgloss.Color("#D6F7FF"),
			},
			{
				Background: lipgloss.Color("#32160E"),
				Border:     lipgloss.Color("#FF7A45"),
				Key:        lipgloss.Color("#FFE0D3"),
				Text:       lipgloss.Color("#FFD4C2"),
			},
		},
		CommandDivider: lipgloss.NewStyle().Foreground(lipgloss.Color("#403B59")).Bold(true),
	}
}

func (t Theme) CommandSegment(idx int) CommandSegmentStyle {
	if len(t.CommandSegments) == 0 {
		return CommandSegmentStyle{
			Background: lipgloss.Color("#2C1E3A"),
			Border:     lipgloss.Color("#7D56F4"),
			Key:        lipgloss.Color("#F6E3FF"),
			Text:       lipgloss.Color("#E5E1FF"),
		}
	}
	return t.CommandSegments[idx%len(t.CommandSegments)]
}
