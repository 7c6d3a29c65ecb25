package coordinator

import (
	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// SSEPatcher patches fragments into the page over a datastar SSE stream.
type SSEPatcher struct {
	SSE *datastar.ServerSentEventGenerator
}

// Patch sends c as a patch-elements event.
func (p SSEPatcher) Patch(c templ.Component) error {
	return p.SSE.PatchElementTempl(c)
}
