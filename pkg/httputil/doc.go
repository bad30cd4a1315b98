// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Helpers
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteCreated(w, resource)
//	httputil.WriteNoContent(w)
//
// Error responses follow the failure taxonomy of the API: 400 validation,
// 401 unauthenticated, 403 forbidden, 404 not found, 409 conflict, 5xx
// opaque internal errors.
//
//	httputil.WriteBadRequest(w, "Name is required")
//	httputil.WriteNotFoundMessage(w, "user")
//	httputil.WriteConflict(w, "already registered")
//
// # Request Parsing
//
//	var req UpdateProfileRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // error response already written
//	}
//	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
package httputil
