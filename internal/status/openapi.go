package status

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/quizwire/quizwire/internal/server"
)

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Quizwire Status API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Read-only observation API for a running trivia match.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of the server and its optional dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/match
	getMatch, _ := r.NewOperationContext(http.MethodGet, "/api/match")
	getMatch.SetSummary("Match state")
	getMatch.SetDescription("Returns the current phase, question progress and roster size.")
	getMatch.AddRespStructure(server.MatchView{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getMatch)

	// GET /api/standings
	getStandings, _ := r.NewOperationContext(http.MethodGet, "/api/standings")
	getStandings.SetSummary("Live standings")
	getStandings.SetDescription("Returns the ranked standings with the current winner set.")
	getStandings.AddRespStructure(StandingsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getStandings)

	// GET /api/history
	getHistory, _ := r.NewOperationContext(http.MethodGet, "/api/history")
	getHistory.SetSummary("Match history")
	getHistory.SetDescription("Returns recently archived matches, newest first. Available when the history archive is enabled.")
	getHistory.AddRespStructure(HistoryResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHistory)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
