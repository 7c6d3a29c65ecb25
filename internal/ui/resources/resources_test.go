//go:build !dev

package resources

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantType   string
	}{
		{name: "stylesheet", path: StaticPath("css/app.css"), wantStatus: http.StatusOK, wantType: "text/css"},
		{name: "missing", path: StaticPath("css/missing.css"), wantStatus: http.StatusNotFound},
	}

	h := Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, cacheControl, rec.Header().Get("Cache-Control"))
			if tt.wantType != "" {
				assert.Contains(t, rec.Header().Get("Content-Type"), tt.wantType)
			}
		})
	}
}

func TestStaticPath(t *testing.T) {
	assert.Equal(t, "/static/css/app.css", StaticPath("css/app.css"))
}
