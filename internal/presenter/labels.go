package presenter

import "sermon-studio/backend/internal/model"

var themeLabels = map[model.Theme]string{
	"fe":        "Fé",
	"amor":      "Amor",
	"esperanca": "Esperança",
	"perdao":    "Perdão",
	"gratidao":  "Gratidão",
	"familia":   "Família",
	"ansiedade": "Ansiedade",
	"cura":      "Cura",
	"proposito": "Propósito",
	"paz":       "Paz",
}

// ThemeLabel maps a theme to its display label. Unknown themes fall back to
// the raw value; a missing theme reads "Sem tema".
func ThemeLabel(theme *model.Theme) string {
	if theme == nil {
		return "Sem tema"
	}
	if label, ok := themeLabels[*theme]; ok {
		return label
	}
	return string(*theme)
}

// Rendered is the display form of one generation: the preview excerpt, the
// remaining body and the theme label.
type Rendered struct {
	Preview    string `json:"preview"`
	Body       string `json:"body"`
	ThemeLabel string `json:"theme_label"`
}

// Render splits a generation's canonical content for display.
func Render(g *model.Generation) Rendered {
	content := g.RawContent()
	return Rendered{
		Preview:    ExtractPreview(content),
		Body:       ExtractBody(content),
		ThemeLabel: ThemeLabel(g.Theme),
	}
}
