package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/TomGijsbers/evento-backend/pkg/auth"
	"github.com/TomGijsbers/evento-backend/pkg/httputil"
	"github.com/TomGijsbers/evento-backend/pkg/middleware"
	"github.com/TomGijsbers/evento-backend/pkg/observability"
	"github.com/TomGijsbers/evento-backend/pkg/storage"
)

// GroupHandlers serves the group and membership routes.
type GroupHandlers struct {
	store   Store
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewGroupHandlers creates the group route handlers.
func NewGroupHandlers(store Store, logger *observability.Logger, metrics *observability.Metrics) *GroupHandlers {
	return &GroupHandlers{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// RegisterRoutes registers the group routes. The fixed "members/me"
// path is registered before the "members/{userId}" pattern so it wins
// the match.
func (h *GroupHandlers) RegisterRoutes(router *mux.Router) {
	router.Handle("/group", h.guarded(auth.PolicyReadGroups, h.listGroups)).Methods("GET")
	router.Handle("/group", h.guarded(auth.PolicyCreateGroups, h.createGroup)).Methods("POST")
	router.Handle("/group/user/{userId}", h.guarded(auth.PolicyReadGroups, h.listUserGroups)).Methods("GET")
	router.Handle("/group/{id}", h.guarded(auth.PolicyReadGroups, h.getGroup)).Methods("GET")
	router.Handle("/group/{id}", h.guarded(auth.PolicyUpdateGroups, h.updateGroup)).Methods("PUT")
	router.Handle("/group/{id}", h.guarded(auth.PolicyDeleteGroups, h.deleteGroup)).Methods("DELETE")
	router.Handle("/group/{id}/members", h.guarded(auth.PolicyReadGroups, h.listMembers)).Methods("GET")
	router.Handle("/group/{groupId}/members/me", h.guarded(auth.PolicyReadGroups, h.leaveGroup)).Methods("DELETE")
	router.Handle("/group/{groupId}/members/{userId}", h.guarded(auth.PolicyUpdateGroups, h.addMember)).Methods("POST")
	router.Handle("/group/{groupId}/members/{userId}", h.guarded(auth.PolicyUpdateGroups, h.removeMember)).Methods("DELETE")
	router.Handle("/group/{groupId}/members/{userId}/admin", h.guarded(auth.PolicyUpdateGroups, h.toggleAdmin)).Methods("PUT")
}

func (h *GroupHandlers) guarded(policy auth.Policy, handler http.HandlerFunc) http.Handler {
	gate := middleware.RequirePolicy(policy)(handler)
	if h.metrics == nil {
		return gate
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := middleware.GetClaims(r); claims != nil && !policy.Allows(claims) {
			h.metrics.PolicyDenialsTotal.WithLabelValues(string(policy)).Inc()
		}
		gate.ServeHTTP(w, r)
	})
}

func (h *GroupHandlers) countMembershipChange(action string) {
	if h.metrics != nil {
		h.metrics.GroupMembershipChangesTotal.WithLabelValues(action).Inc()
	}
}

func (h *GroupHandlers) storageError(operation string, err error) {
	h.logger.WithError(err).WithField("operation", operation).Error("storage operation failed")
	if h.metrics != nil {
		h.metrics.StorageErrorsTotal.WithLabelValues(operation).Inc()
	}
}

func (h *GroupHandlers) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.ListGroups(r.Context())
	if err != nil {
		h.storageError("list_groups", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, groups)
}

func (h *GroupHandlers) getGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	group, err := h.store.GetGroup(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFound(w)
		return
	}
	if err != nil {
		h.storageError("get_group", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, group)
}

func (h *GroupHandlers) createGroup(w http.ResponseWriter, r *http.Request) {
	var group Group
	if !httputil.ParseJSONOrError(w, r, &group) {
		return
	}

	group.ID = 0
	group.Name = strings.TrimSpace(group.Name)
	if group.Name == "" {
		httputil.WriteBadRequest(w, "Name is required")
		return
	}

	if err := h.store.CreateGroup(r.Context(), &group); err != nil {
		h.storageError("create_group", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteCreated(w, &group)
}

func (h *GroupHandlers) updateGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	var group Group
	if !httputil.ParseJSONOrError(w, r, &group) {
		return
	}
	if group.ID != 0 && group.ID != id {
		httputil.WriteBadRequest(w, "id in body does not match path")
		return
	}
	group.ID = id

	err := h.store.UpdateGroup(r.Context(), &group)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFound(w)
		return
	}
	if err != nil {
		h.storageError("update_group", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *GroupHandlers) deleteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	err := h.store.DeleteGroup(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFound(w)
		return
	}
	if err != nil {
		h.storageError("delete_group", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *GroupHandlers) listMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	members, err := h.store.ListGroupMembers(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFoundMessage(w, "group")
		return
	}
	if err != nil {
		h.storageError("list_group_members", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, members)
}

func (h *GroupHandlers) listUserGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParsePathInt64OrError(w, r, "userId")
	if !ok {
		return
	}

	groups, err := h.store.ListUserGroups(r.Context(), userID)
	if err != nil {
		h.storageError("list_user_groups", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, groups)
}

func (h *GroupHandlers) addMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := httputil.ParsePathInt64OrError(w, r, "groupId")
	if !ok {
		return
	}
	userID, ok := httputil.ParsePathInt64OrError(w, r, "userId")
	if !ok {
		return
	}

	err := h.store.AddGroupMember(r.Context(), groupID, userID)
	if errors.Is(err, storage.ErrDuplicate) {
		httputil.WriteBadRequest(w, "User is already in the group")
		return
	}
	if err != nil {
		h.storageError("add_group_member", err)
		httputil.WriteInternalError(w, err)
		return
	}

	h.countMembershipChange("join")
	httputil.WriteNoContent(w)
}

func (h *GroupHandlers) removeMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := httputil.ParsePathInt64OrError(w, r, "groupId")
	if !ok {
		return
	}
	userID, ok := httputil.ParsePathInt64OrError(w, r, "userId")
	if !ok {
		return
	}

	err := h.store.RemoveGroupMember(r.Context(), groupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFound(w)
		return
	}
	if err != nil {
		h.storageError("remove_group_member", err)
		httputil.WriteInternalError(w, err)
		return
	}

	h.countMembershipChange("leave")
	httputil.WriteNoContent(w)
}

// leaveGroup removes the caller's own membership. The caller's
// identity comes from the token's "sub" claim, falling back to the
// "id" claim, never from a path parameter.
func (h *GroupHandlers) leaveGroup(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetClaims(r).Identity()
	if subject == "" {
		httputil.WriteUnauthorized(w, "user identity not found in token")
		return
	}
	groupID, ok := httputil.ParsePathInt64OrError(w, r, "groupId")
	if !ok {
		return
	}

	user, err := h.store.GetUserBySubject(r.Context(), subject)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFoundMessage(w, "you are not a member of this group")
		return
	}
	if err != nil {
		h.storageError("get_user", err)
		httputil.WriteInternalError(w, err)
		return
	}

	err = h.store.RemoveGroupMember(r.Context(), groupID, user.ID)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFoundMessage(w, "you are not a member of this group")
		return
	}
	if err != nil {
		h.storageError("remove_group_member", err)
		httputil.WriteInternalError(w, err)
		return
	}

	h.countMembershipChange("leave")
	httputil.WriteNoContent(w)
}

func (h *GroupHandlers) toggleAdmin(w http.ResponseWriter, r *http.Request) {
	groupID, ok := httputil.ParsePathInt64OrError(w, r, "groupId")
	if !ok {
		return
	}
	userID, ok := httputil.ParsePathInt64OrError(w, r, "userId")
	if !ok {
		return
	}

	isAdmin, err := h.store.ToggleGroupAdmin(r.Context(), groupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFound(w)
		return
	}
	if err != nil {
		h.storageError("toggle_group_admin", err)
		httputil.WriteInternalError(w, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"group_id": groupID,
		"user_id":  userID,
		"is_admin": isAdmin,
	}).Info("group admin flag toggled")
	h.countMembershipChange("admin_toggle")
	httputil.WriteNoContent(w)
}
