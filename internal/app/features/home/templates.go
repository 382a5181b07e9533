// internal/app/features/home/templates.go
package home

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

// The capture page template is registered at import time so the engine
// picks it up when bootstrap boots the shared engine.
func init() {
	templates.Register(templates.Set{
		Name:     "home",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
