package api

import (
	"net/http"

	"github.com/JaimeStill/finsight/internal/config"
	"github.com/JaimeStill/finsight/pkg/openapi"
	"github.com/JaimeStill/finsight/pkg/routes"
)

// SpecPath is the module-relative path serving the generated OpenAPI document.
const SpecPath = "/openapi.json"

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	groups := []routes.Group{
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Assessments.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Alerts.Handler().Routes(),
	}

	routes.Register(mux, groups...)

	spec := openapi.NewSpec(cfg.API.OpenAPI, cfg.Version, cfg.API.BasePath)
	routes.Describe(spec, "", groups...)

	serve, err := spec.Handler()
	if err != nil {
		return err
	}
	mux.HandleFunc("GET "+SpecPath, serve)

	return nil
}
