package service

import (
	"fmt"
	"strings"
)

// RenderTemplate substitutes {{name}} placeholders from a flat context map.
// Placeholders with no matching key are left as literal text; extra context
// keys are ignored. Rendering can therefore never fail a send.
func RenderTemplate(text string, context map[string]any) string {
	if text == "" || len(context) == 0 {
		return text
	}
	for key, value := range context {
		text = strings.ReplaceAll(text, "{{"+key+"}}", fmt.Sprint(value))
	}
	return text
}
