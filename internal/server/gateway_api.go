package server

import (
	"encoding/json"
	"net/http"

	gatewaytypes "github.com/coactive-dev/sallyport/modules/gateway/domain/types"
	gatewayservices "github.com/coactive-dev/sallyport/modules/gateway/services"
	iamservices "github.com/coactive-dev/sallyport/modules/iam/services"
	"github.com/coactive-dev/sallyport/pkg/httperr"
)

type createGatewayRequest struct {
	Tier    string            `json:"tier"`
	UserID  string            `json:"user_id"`
	OrgID   string            `json:"org_id,omitempty"`
	Options map[string]string `json:"options,omitempty"`
}

func (s *Server) handleCreateGateway(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if s.factory == nil {
		writeError(w, http.StatusServiceUnavailable, "gateways_disabled", "gateway factory not configured")
		return
	}

	var req createGatewayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "bad json")
		return
	}

	inst, err := s.factory.CreateGateway(r.Context(), req.Tier, gatewayservices.Context{
		UserID: req.UserID,
		OrgID:  req.OrgID,
	}, req.Options)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inst)
}

type clearCacheRequest struct {
	Tier string `json:"tier,omitempty"`
}

type clearCacheResponse struct {
	Cleared int `json:"cleared"`
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if s.factory == nil {
		writeError(w, http.StatusServiceUnavailable, "gateways_disabled", "gateway factory not configured")
		return
	}

	var req clearCacheRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json", "bad json")
			return
		}
	}
	writeJSON(w, http.StatusOK, clearCacheResponse{Cleared: s.factory.ClearCache(req.Tier)})
}

type listTiersResponse struct {
	Tiers []gatewaytypes.TierType `json:"tiers"`
}

func (s *Server) handleListTiers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, listTiersResponse{Tiers: gatewayservices.SupportedTierTypes()})
}

type validateChainRequest struct {
	RequestingLevel string `json:"requesting_level"`
	TargetLevel     string `json:"target_level"`
	UserID          string `json:"user_id,omitempty"`
	OrgID           string `json:"org_id,omitempty"`
}

// handleValidateChain returns the chain decision with status 200 whether the
// chain is valid or not; denial is a result, not a transport error.
func (s *Server) handleValidateChain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if s.levels == nil {
		writeError(w, http.StatusServiceUnavailable, "levels_disabled", "level registry not configured")
		return
	}

	var req validateChainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "bad json")
		return
	}

	decision, err := s.levels.ValidateChain(req.RequestingLevel, req.TargetLevel, iamservices.ChainContext{
		UserID: req.UserID,
		OrgID:  req.OrgID,
	})
	if err != nil {
		// Unknown level names and broken guards are caller errors, not denials.
		writeDomainError(w, httperr.NewBadRequest(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, decision)
}
