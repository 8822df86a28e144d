package languages

import "github.com/apisurface/distill/internal/distiller"

// All returns every built-in language module in registration order.
func All() []distiller.Module {
	return []distiller.Module{
		NewTypeScript(),
		NewJavaScript(),
		NewPython(),
		NewGo(),
		NewJava(),
		NewRust(),
		NewC(),
		NewRuby(),
		NewPHP(),
	}
}

// NewRegistry builds a registry populated with every built-in module.
func NewRegistry() *distiller.Registry {
	registry := distiller.NewRegistry()
	for _, m := range All() {
		registry.Register(m)
	}
	return registry
}
