package server

import (
	"encoding/json"
	"net/http"

	"connecthub/internal/auth"
	"connecthub/internal/connector"
)

// connectorSummary is one row of the connector list.
type connectorSummary struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Installed   bool        `json:"installed"`
	Auth        auth.Status `json:"auth"`
}

// connectorDetail extends the summary with documentation-derived fields.
type connectorDetail struct {
	connectorSummary
	Overview    string `json:"overview,omitempty"`
	CLICommands string `json:"cliCommands,omitempty"`
	DataStorage string `json:"dataStorage,omitempty"`
}

func (s *Server) summary(def connector.Definition) connectorSummary {
	return connectorSummary{
		Name:        def.Name,
		DisplayName: def.DisplayName,
		Description: def.Description,
		Category:    def.Category,
		Installed:   connector.Installed(s.root, def.Name),
		Auth:        s.agg.Status(def.Name),
	}
}

func (s *Server) handleListConnectors(w http.ResponseWriter, r *http.Request) {
	defs := connector.All()
	summaries := make([]connectorSummary, 0, len(defs))
	for _, def := range defs {
		summaries = append(summaries, s.summary(def))
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetConnector(w http.ResponseWriter, r *http.Request) {
	name, ok := s.connectorName(w, r)
	if !ok {
		return
	}
	if !s.known(name) {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "Unknown connector",
		})
		return
	}

	def, ok := connector.Get(name)
	if !ok {
		// Installed but unregistered: synthesize a definition so local
		// connector packages still show up.
		def = connector.Definition{Name: name, DisplayName: name}
	}

	doc := s.docs.Get(name)
	detail := connectorDetail{
		connectorSummary: s.summary(def),
		Overview:         doc.Overview,
		CLICommands:      doc.CLICommands,
		DataStorage:      doc.DataStorage,
	}
	writeJSON(w, http.StatusOK, detail)
}

type saveKeyRequest struct {
	Key   string `json:"key"`
	Field string `json:"field,omitempty"`
}

func (s *Server) handleSaveKey(w http.ResponseWriter, r *http.Request) {
	name, ok := s.connectorName(w, r)
	if !ok {
		return
	}

	var req saveKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Malformed request body",
		})
		return
	}
	if req.Key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing 'key' in request body",
		})
		return
	}

	field := req.Field
	if field == "" {
		// Best-guess key name from the connector's documented auth model.
		field = auth.SecretField(auth.Classify(s.docs.Get(name)))
	}

	if err := s.store.SaveKey(name, req.Key, field); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	name, ok := s.connectorName(w, r)
	if !ok {
		return
	}

	result := s.ref.Refresh(r.Context(), name)
	if !result.Success {
		writeJSON(w, http.StatusInternalServerError, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
