package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerSyncRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.HandleFunc("GET /api/v1/sync", handler.PreviewSync)
	mux.HandleFunc("GET /api/v1/sync/settings", handler.GetSyncSettings)
	mux.Handle("POST /api/v1/sync", RequireAdminToken(adminToken, http.HandlerFunc(handler.RunAutoSync)))
	mux.Handle("POST /api/v1/sync/ids", RequireAdminToken(adminToken, http.HandlerFunc(handler.RunManualSync)))
	mux.Handle("POST /api/v1/sync/settings", RequireAdminToken(adminToken, http.HandlerFunc(handler.UpdateSyncSettings)))
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.HandleFunc("GET /api/v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /api/v1/teams/{slug}/matches", handler.ListTeamMatches)
	mux.Handle("POST /api/v1/teams", RequireAdminToken(adminToken, http.HandlerFunc(handler.CreateTeam)))
}
