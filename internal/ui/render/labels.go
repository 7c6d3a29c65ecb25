package render

// Labels are the trigger texts.
type Labels struct {
	Idle string
	Busy string
}

// UnavailableLabel marks a browser with no history on this machine.
const UnavailableLabel = "No disponible"

// DefaultLabels are the built-in trigger texts.
var DefaultLabels = Labels{
	Idle: "Leer Historial de Navegadores",
	Busy: "Extrayendo historial de navegadores ...",
}
