package swagger

import (
	"bytes"
	"net/http"
	"text/template"

	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/perfume-inventory/api-contract"
)

const (
	// DocsPath serves the Swagger UI.
	DocsPath = "/docs"
	// SpecPath serves the raw OpenAPI document.
	SpecPath = "/docs/openapi.yml"

	uiVersion = "5.29.3"
)

var page = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@{{.Version}}/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@{{.Version}}/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '{{.SpecURL}}',
      dom_id: '#swagger-ui',
      deepLinking: true,
      persistAuthorization: true,
    });
  };
</script>
</body>
</html>
`))

// Register mounts the Swagger UI and the embedded OpenAPI document on r.
func Register(r chi.Router) {
	var buf bytes.Buffer
	// The template only takes constants, so it cannot fail at runtime.
	_ = page.Execute(&buf, struct {
		Title   string
		Version string
		SpecURL string
	}{
		Title:   "Perfume Inventory API",
		Version: uiVersion,
		SpecURL: SpecPath,
	})
	html := buf.Bytes()

	r.Get(DocsPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(html)
	})

	r.Get(DocsPath+"/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, DocsPath, http.StatusMovedPermanently)
	})

	spec := apicontract.GetSpecBytes()
	r.Get(SpecPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(spec)
	})
}
