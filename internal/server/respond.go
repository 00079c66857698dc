package server

import (
	"encoding/json"
	"errors"
	"net/http"

	authnports "github.com/coactive-dev/sallyport/modules/authn/domain/ports"
	authntypes "github.com/coactive-dev/sallyport/modules/authn/domain/types"
	gatewaytypes "github.com/coactive-dev/sallyport/modules/gateway/domain/types"
	tenantports "github.com/coactive-dev/sallyport/modules/tenant/domain/ports"
	tenanttypes "github.com/coactive-dev/sallyport/modules/tenant/domain/types"
	"github.com/coactive-dev/sallyport/pkg/httperr"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, msg string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	writeJSON(w, status, body)
}

// writeDomainError maps the core error taxonomy onto transport statuses:
// validation errors 400, missing entities 404, wrapped collaborator
// failures 502.
func writeDomainError(w http.ResponseWriter, err error) {
	var dup *authntypes.DuplicateProviderPriorityError
	var failed *gatewaytypes.GatewayCreationFailedError
	switch {
	case errors.Is(err, tenanttypes.ErrInvalidTenantType):
		writeError(w, http.StatusBadRequest, "invalid_tenant_type", err.Error())
	case errors.As(err, &dup):
		writeError(w, http.StatusBadRequest, "duplicate_provider_priority", err.Error())
	case errors.Is(err, gatewaytypes.ErrUnsupportedTierType):
		writeError(w, http.StatusBadRequest, "unsupported_tier_type", err.Error())
	case errors.Is(err, gatewaytypes.ErrMissingUserContext):
		writeError(w, http.StatusBadRequest, "missing_user_context", err.Error())
	case errors.Is(err, tenantports.ErrOrganizationNotFound),
		errors.Is(err, authnports.ErrAuthConfigNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &failed):
		writeError(w, http.StatusBadGateway, "gateway_creation_failed", err.Error())
	case httperr.IsBadRequest(err):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case httperr.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case httperr.IsForbidden(err):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case httperr.IsUpstream(err):
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
