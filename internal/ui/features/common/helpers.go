package common

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/leapstack-labs/histsync/internal/ui/features/common/components"
	"github.com/leapstack-labs/histsync/internal/ui/resources"
)

// Stylesheet is the application stylesheet linked from every page.
var Stylesheet = resources.StaticPath("css/app.css")

// RenderPage writes body wrapped in the page layout.
func RenderPage(w http.ResponseWriter, r *http.Request, title string, isDev bool, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	ctx := templ.WithChildren(r.Context(), body)
	if err := components.Layout(title, Stylesheet, isDev).Render(ctx, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Failure is the JSON body of a failed API call.
type Failure struct {
	Success bool   `json:"success"`
	Message string `json:"mensaje"`
}

// WriteFailure writes a {success:false, mensaje} body.
func WriteFailure(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Failure{Success: false, Message: message})
}

// Count formats n with thousands separators. Templates use it for every
// displayed total.
func Count(n int) string {
	return humanize.Comma(int64(n))
}
