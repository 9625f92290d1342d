package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/convokehq/convoke/tool"
)

type createAgentRequest struct {
	Name    string   `json:"name"`
	Context string   `json:"context"`
	Tools   []string `json:"tools"`
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := s.orch.Store().Create(req.Name, req.Context, req.Tools)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id, "name": req.Name})
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	a, ok := s.orch.Store().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Agent not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"name":    a.Name,
		"context": a.Context,
		"tools":   a.Tools,
	})
}

type communicateRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleCommunicate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.orch.Store().Get(id); !ok {
		writeError(w, http.StatusNotFound, "Agent session not found")
		return
	}

	var req communicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	response, err := s.orch.Communicate(r.Context(), id, req.Message)
	if err != nil {
		s.logger.Error("communicate failed", "agent_id", id, "error", err)
		writeError(w, http.StatusBadGateway, "model call failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": response})
}

type processRequest struct {
	Request string `json:"request"`
}

func (s *Server) handleProcessRequest(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Request == "" {
		writeError(w, http.StatusBadRequest, "request must not be empty")
		return
	}

	answer, err := s.orch.ProcessRequest(r.Context(), req.Request)
	if err != nil {
		s.logger.Error("request processing failed", "error", err)
		writeError(w, http.StatusBadGateway, "request processing failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": renderMarkdown(answer)})
}

func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Store().List())
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	descriptors := s.orch.Registry().ListAvailable()
	if descriptors == nil {
		descriptors = []tool.Descriptor{}
	}
	writeJSON(w, http.StatusOK, descriptors)
}
