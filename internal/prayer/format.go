package prayer

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"
)

// Format constants for display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
	FormatLocalNameAndTime   = "local-name-and-time"
)

// FormatModes lists the built-in display modes.
var FormatModes = []string{
	FormatTimeRemaining, FormatNextPrayerTime, FormatNameAndTime, FormatNameAndRemaining,
	FormatShortNameAndTime, FormatShortNameAndRemain, FormatFull, FormatLocalNameAndTime,
}

// Each built-in mode is a template over FormatData.
var builtinFormats = map[string]*template.Template{}

func init() {
	for mode, text := range map[string]string{
		FormatTimeRemaining:      "{{.Remaining}}",
		FormatNextPrayerTime:     "{{.Time}}",
		FormatNameAndTime:        "{{.Name}} {{.Time}}",
		FormatNameAndRemaining:   "{{.Name}} {{.Remaining}}",
		FormatShortNameAndTime:   "{{.ShortName}} {{.Time}}",
		FormatShortNameAndRemain: "{{.ShortName}} {{.Remaining}}",
		FormatFull:               "{{.Name}} {{.Time}} ({{.Remaining}})",
		FormatLocalNameAndTime:   "{{or .LocalName .Name}} {{.Time}}",
	} {
		builtinFormats[mode] = template.Must(template.New(mode).Parse(text))
	}
}

// FormatData is the data passed to format templates.
type FormatData struct {
	Name      string // Full prayer name, e.g. "Asr"
	ShortName string // Abbreviated name, e.g. "A"
	LocalName string // Bengali name, e.g. "আসর"; empty for the supplementary times
	Time      string // Formatted prayer time, e.g. "15:02" or "3:02 PM"
	Remaining string // Time remaining, e.g. "2h 15m"
	Hours     int    // Whole hours remaining
	Minutes   int    // Remaining minutes after hours
}

// NewFormatData describes p as seen at now. layout is a Go time layout such
// as "15:04" or "3:04 PM".
func NewFormatData(p Prayer, now time.Time, layout string) FormatData {
	d := max(TimeRemaining(p, now), 0)
	return FormatData{
		Name:      p.Name,
		ShortName: ShortNames[p.Name],
		LocalName: LocalNames[p.Name],
		Time:      p.Time.Format(layout),
		Remaining: FormatRemaining(d),
		Hours:     int(d.Hours()),
		Minutes:   int(d.Minutes()) % 60,
	}
}

// resolveFormat returns the template for a mode name or a custom template
// string. Anything else falls back to name-and-time.
func resolveFormat(mode string) (*template.Template, error) {
	if t, ok := builtinFormats[mode]; ok {
		return t, nil
	}
	if strings.Contains(mode, "{{") {
		return template.New("custom").Option("missingkey=error").Parse(mode)
	}
	return builtinFormats[FormatNameAndTime], nil
}

// ValidateFormat reports whether mode is usable: a built-in mode name, or a
// template that parses and only refers to FormatData fields.
func ValidateFormat(mode string) error {
	t, err := resolveFormat(mode)
	if err != nil {
		return fmt.Errorf("invalid format template: %w", err)
	}
	if err := t.Execute(io.Discard, FormatData{}); err != nil {
		return fmt.Errorf("invalid format template: %w", err)
	}
	return nil
}

// FormatOutput formats a prayer for display.
//
// mode is one of FormatModes or, when it contains "{{", a Go template over
// FormatData, e.g. "{{.Name}} in {{.Remaining}}" -> "Asr in 2h 15m".
// Template errors are returned in the output as "template-err: ...".
func FormatOutput(p Prayer, now time.Time, mode string, timeFormat string) string {
	t, err := resolveFormat(mode)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, NewFormatData(p, now, timeFormat)); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	return sb.String()
}
