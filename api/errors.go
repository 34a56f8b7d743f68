package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	codeInternal       = "internal"
	messageInternal    = "internal error"
	logMsgRequestError = "request failed"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type errorMapping struct {
	sentinel error
	status   int
	code     string
}

// errorMappings is matched in order with errors.Is.
var errorMappings = []errorMapping{
	{ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{ErrUnknownCommand, http.StatusNotFound, "unknown_command"},
	{ErrMalformedRequest, http.StatusBadRequest, "malformed_request"},
	{core.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{core.ErrNotOwner, http.StatusForbidden, "not_owner"},
	{core.ErrNotCustodian, http.StatusForbidden, "not_custodian"},
	{core.ErrNotAdmin, http.StatusForbidden, "not_admin"},
	{core.ErrMemberNotApproved, http.StatusForbidden, "member_not_approved"},
	{core.ErrNoSuchItem, http.StatusNotFound, "no_such_item"},
	{core.ErrNoSuchRequest, http.StatusNotFound, "no_such_request"},
	{core.ErrNoSuchMember, http.StatusNotFound, "no_such_member"},
	{core.ErrNoSuchReview, http.StatusNotFound, "no_such_review"},
	{core.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{core.ErrDuplicateRequest, http.StatusConflict, "duplicate_request"},
	{core.ErrAlreadyQueued, http.StatusConflict, "already_queued"},
	{core.ErrInvalidJoin, http.StatusConflict, "invalid_join"},
	{core.ErrMemberAlreadyExists, http.StatusConflict, "member_already_exists"},
	{core.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable"},
}

// StatusFor maps an error to its HTTP status and error code.
func StatusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			return m.status, m.code
		}
	}

	return http.StatusInternalServerError, codeInternal
}

// errorResponse builds the body. The message of a joined error lists its parts separated by "; ".
func errorResponse(err error) (int, ErrorResponse) {
	status, code := StatusFor(err)

	if status == http.StatusInternalServerError {
		return status, ErrorResponse{Error: code, Message: messageInternal}
	}

	return status, ErrorResponse{Error: code, Message: strings.ReplaceAll(err.Error(), "\n", "; ")}
}

// actorError reports an unknown actor as not approved, so callers cannot enumerate member ids.
func actorError(err error) error {
	if errors.Is(err, core.ErrNoSuchMember) {
		return core.Reject(core.ErrMemberNotApproved, "member is not registered")
	}

	return err
}

func abortWithError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
