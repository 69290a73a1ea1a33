package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

// ThemeSpec is the on-disk form of a theme. Every field is optional and only
// set fields override the base theme.
type ThemeSpec struct {
	Name            string               `toml:"name" yaml:"name"`
	Highlight       *string              `toml:"highlight" yaml:"highlight"`
	Colors          ColorsSpec           `toml:"colors" yaml:"colors"`
	Styles          StylesSpec           `toml:"styles" yaml:"styles"`
	CommandSegments []CommandSegmentSpec `toml:"command_segments" yaml:"command_segments"`
}

// ColorsSpec sets the foreground of groups of styles at once.
type ColorsSpec struct {
	Accent    *string `toml:"accent" yaml:"accent"`
	Key       *string `toml:"key" yaml:"key"`
	Value     *string `toml:"value" yaml:"value"`
	Comment   *string `toml:"comment" yaml:"comment"`
	Disabled  *string `toml:"disabled" yaml:"disabled"`
	Duplicate *string `toml:"duplicate" yaml:"duplicate"`
	FirstDup  *string `toml:"first_duplicate" yaml:"first_duplicate"`
	Error     *string `toml:"error" yaml:"error"`
	Success   *string `toml:"success" yaml:"success"`
	Warning   *string `toml:"warning" yaml:"warning"`
}

type StyleSpec struct {
	Foreground *string `toml:"foreground" yaml:"foreground"`
	Background *string `toml:"background" yaml:"background"`
	Bold       *bool   `toml:"bold" yaml:"bold"`
	Italic     *bool   `toml:"italic" yaml:"italic"`
	Underline  *bool   `toml:"underline" yaml:"underline"`
}

type StylesSpec struct {
	SidebarActive *StyleSpec `toml:"sidebar_active" yaml:"sidebar_active"`
	RowSelected   *StyleSpec `toml:"row_selected" yaml:"row_selected"`
	StatusBar     *StyleSpec `toml:"status_bar" yaml:"status_bar"`
	Notification  *StyleSpec `toml:"notification" yaml:"notification"`
	TabActive     *StyleSpec `toml:"tab_active" yaml:"tab_active"`
	PromptTitle   *StyleSpec `toml:"prompt_title" yaml:"prompt_title"`
}

type CommandSegmentSpec struct {
	Background *string `toml:"background" yaml:"background"`
	Border     *string `toml:"border" yaml:"border"`
	Key        *string `toml:"key" yaml:"key"`
	Text       *string `toml:"text" yaml:"text"`
}

var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{6}|#[0-9a-fA-F]{3}|[0-9]{1,3})$`)

func parseColor(field string, v *string) (lipgloss.Color, error) {
	c := strings.TrimSpace(*v)
	if !colorPattern.MatchString(c) {
		return "", errdef.New(errdef.CodeConfig, "%s: invalid color %q", field, *v)
	}
	return lipgloss.Color(c), nil
}

// ApplySpec returns base with the overrides in spec. base is not modified.
func ApplySpec(base Theme, spec ThemeSpec) (Theme, error) {
	t := base
	t.CommandSegments = append([]CommandSegmentStyle(nil), base.CommandSegments...)

	if spec.Highlight != nil {
		name := strings.TrimSpace(*spec.Highlight)
		if _, ok := styles.Registry[name]; !ok {
			return base, errdef.New(errdef.CodeConfig, "highlight: unknown chroma style %q", name)
		}
		t.Highlight = name
	}

	fg := []struct {
		field  string
		value  *string
		styles []*lipgloss.Style
	}{
		{"colors.accent", spec.Colors.Accent, []*lipgloss.Style{&t.PaneTitle, &t.StatusBarKey}},
		{"colors.key", spec.Colors.Key, []*lipgloss.Style{&t.RowKey}},
		{"colors.value", spec.Colors.Value, []*lipgloss.Style{&t.RowValue}},
		{"colors.comment", spec.Colors.Comment, []*lipgloss.Style{&t.RowComment}},
		{"colors.disabled", spec.Colors.Disabled, []*lipgloss.Style{&t.RowDisabled, &t.RowMasked}},
		{"colors.duplicate", spec.Colors.Duplicate, []*lipgloss.Style{&t.RowDuplicate, &t.DiffRemoved}},
		{"colors.first_duplicate", spec.Colors.FirstDup, []*lipgloss.Style{&t.RowFirstOfDup}},
		{"colors.error", spec.Colors.Error, []*lipgloss.Style{&t.Error}},
		{"colors.success", spec.Colors.Success, []*lipgloss.Style{&t.Success, &t.DiffAdded}},
		{"colors.warning", spec.Colors.Warning, []*lipgloss.Style{&t.Warning, &t.SidebarDirty}},
	}
	for _, o := range fg {
		if o.value == nil {
			continue
		}
		c, err := parseColor(o.field, o.value)
		if err != nil {
			return base, err
		}
		for _, s := range o.styles {
			*s = s.Foreground(c)
		}
	}
	if spec.Colors.Accent != nil {
		c, _ := parseColor("colors.accent", spec.Colors.Accent)
		t.PaneBorder = t.PaneBorder.BorderForeground(c)
		t.TabActive = t.TabActive.Background(c)
	}

	styleOverrides := []struct {
		field string
		spec  *StyleSpec
		dst   *lipgloss.Style
	}{
		{"styles.sidebar_active", spec.Styles.SidebarActive, &t.SidebarActive},
		{"styles.row_selected", spec.Styles.RowSelected, &t.RowSelected},
		{"styles.status_bar", spec.Styles.StatusBar, &t.StatusBar},
		{"styles.notification", spec.Styles.Notification, &t.Notification},
		{"styles.tab_active", spec.Styles.TabActive, &t.TabActive},
		{"styles.prompt_title", spec.Styles.PromptTitle, &t.PromptTitle},
	}
	for _, o := range styleOverrides {
		if o.spec == nil {
			continue
		}
		s, err := applyStyle(o.field, *o.dst, *o.spec)
		if err != nil {
			return base, err
		}
		*o.dst = s
	}

	if len(spec.CommandSegments) > 0 {
		segs := make([]CommandSegmentStyle, len(spec.CommandSegments))
		for i, seg := range spec.CommandSegments {
			out := base.CommandSegment(i)
			for _, c := range []struct {
				value *string
				dst   *lipgloss.Color
			}{
				{seg.Background, &out.Background},
				{seg.Border, &out.Border},
				{seg.Key, &out.Key},
				{seg.Text, &out.Text},
			} {
				if c.value == nil {
					continue
				}
				parsed, err := parseColor(fmt.Sprintf("command_segments[%d]", i), c.value)
				if err != nil {
					return base, err
				}
				*c.dst = parsed
			}
			segs[i] = out
		}
		t.CommandSegments = segs
	}
	return t, nil
}

func applyStyle(field string, s lipgloss.Style, spec StyleSpec) (lipgloss.Style, error) {
	if spec.Foreground != nil {
		c, err := parseColor(field+".foreground", spec.Foreground)
		if err != nil {
			return s, err
		}
		s = s.Foreground(c)
	}
	if spec.Background != nil {
		c, err := parseColor(field+".background", spec.Background)
		if err != nil {
			return s, err
		}
		s = s.Background(c)
	}
	if spec.Bold != nil {
		s = s.Bold(*spec.Bold)
	}
	if spec.Italic != nil {
		s = s.Italic(*spec.Italic)
	}
	if spec.Underline != nil {
		s = s.Underline(*spec.Underline)
	}
	return s, nil
}

// LoadSpecFile reads a theme written as TOML or YAML, chosen by extension.
func LoadSpecFile(path string) (ThemeSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ThemeSpec{}, errdef.Wrap(errdef.CodeConfig, err, "read theme %s", path)
	}
	var spec ThemeSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &spec)
	default:
		err = toml.Unmarshal(data, &spec)
	}
	if err != nil {
		return ThemeSpec{}, errdef.Wrap(errdef.CodeConfig, err, "parse theme %s", path)
	}
	return spec, nil
}

// Load resolves a named theme from dir. An empty name is the default theme.
func Load(dir, name string) (Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "default" {
		return DefaultTheme(), nil
	}
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		spec, err := LoadSpecFile(path)
		if err != nil {
			return DefaultTheme(), err
		}
		return ApplySpec(DefaultTheme(), spec)
	}
	return DefaultTheme(), errdef.New(errdef.CodeNotFound, "theme %q not found in %s", name, dir)
}
