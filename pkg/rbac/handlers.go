package rbac

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/milliihq/access/pkg/httputil"
	"github.com/milliihq/access/pkg/observability"
	"github.com/milliihq/access/pkg/permissions"
)

// Handlers exposes the permission service over HTTP.
type Handlers struct {
	service *Service
	log     *observability.Logger
}

// NewHandlers creates HTTP handlers over a permission service.
func NewHandlers(service *Service, log *observability.Logger) *Handlers {
	return &Handlers{
		service: service,
		log:     log.WithComponent("rbac.handlers"),
	}
}

// RegisterRoutes wires the permission-service routes onto r. Read routes
// are open to any authenticated caller; the edit surface requires an admin
// session resolved upstream.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/users/{id}/permissions", h.GetUserPermissions).Methods(http.MethodGet)
	r.HandleFunc("/roles/{role}/permissions", h.GetRolePermissions).Methods(http.MethodGet)

	r.Handle("/users/{id}/permissions/{key}", RequireAdmin(http.HandlerFunc(h.PutOverride))).Methods(http.MethodPut)
	r.Handle("/users/{id}/permissions/{key}", RequireAdmin(http.HandlerFunc(h.DeleteOverride))).Methods(http.MethodDelete)
	r.Handle("/users/{id}/role", RequireAdmin(http.HandlerFunc(h.PutUserRole))).Methods(http.MethodPut)
}

// permissionsResponse is the GET /users/{id}/permissions payload. Clients
// are expected to consume only effective_permissions; the other fields
// feed the admin edit surface.
type permissionsResponse struct {
	EffectivePermissions permissions.Set          `json:"effective_permissions"`
	RolePermissions      permissions.Set          `json:"role_permissions"`
	PermissionOverrides  map[permissions.Key]bool `json:"permission_overrides"`
}

// GetUserPermissions returns the user's effective permission set. Any `_ts`
// cache-busting parameter clients append is accepted and ignored; the
// no-store header keeps intermediaries from caching the payload anyway.
func (h *Handlers) GetUserPermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	role, err := h.service.store.GetUserRole(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httputil.WriteNotFound(w, "user not found")
			return
		}
		h.log.WithError(err).WithField("user_id", userID).Error("failed to resolve user role")
		httputil.WriteInternalError(w, err)
		return
	}

	overrides, err := h.service.overrides(r.Context(), userID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("failed to resolve overrides")
		httputil.WriteInternalError(w, err)
		return
	}

	defaults := permissions.RoleDefaults(role)
	w.Header().Set("Cache-Control", "no-store")
	httputil.WriteJSON(w, http.StatusOK, permissionsResponse{
		EffectivePermissions: permissions.Merge(defaults, overrides),
		RolePermissions:      defaults,
		PermissionOverrides:  overrides,
	})
}

// GetRolePermissions returns a role's default permission set.
func (h *Handlers) GetRolePermissions(w http.ResponseWriter, r *http.Request) {
	role := permissions.Role(mux.Vars(r)["role"])
	if !role.Valid() {
		httputil.WriteNotFound(w, "unknown role")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httputil.WriteJSON(w, http.StatusOK, map[string]permissions.Set{
		"role_permissions": permissions.RoleDefaults(role),
	})
}

type putOverrideRequest struct {
	Allowed *bool `json:"allowed"`
}

// PutOverride creates or replaces one per-user override.
func (h *Handlers) PutOverride(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["id"]
	key := permissions.Key(vars["key"])

	if !permissions.KnownKey(key) {
		httputil.WriteBadRequest(w, "unknown permission key")
		return
	}

	var req putOverrideRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Allowed == nil {
		httputil.WriteBadRequest(w, "allowed is required")
		return
	}

	override := &Override{
		UserID:    userID,
		Key:       key,
		Allowed:   *req.Allowed,
		UpdatedBy: editorID(r),
	}
	if err := h.service.SetOverride(r.Context(), override); err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("failed to set override")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, override)
}

// DeleteOverride removes one per-user override, reverting the key to the
// role default.
func (h *Handlers) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["id"]
	key := permissions.Key(vars["key"])

	if !permissions.KnownKey(key) {
		httputil.WriteBadRequest(w, "unknown permission key")
		return
	}

	if err := h.service.DeleteOverride(r.Context(), userID, key); err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("failed to delete override")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

type putRoleRequest struct {
	Role permissions.Role `json:"role"`
}

// PutUserRole assigns or replaces a user's role.
func (h *Handlers) PutUserRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req putRoleRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !req.Role.Valid() {
		httputil.WriteBadRequest(w, "invalid role")
		return
	}

	if err := h.service.store.SetUserRole(r.Context(), userID, req.Role); err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("failed to set user role")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"user_id": userID,
		"role":    string(req.Role),
	})
}

// editorID attributes an edit to the requesting admin for the audit trail.
func editorID(r *http.Request) string {
	user := sessionUserFrom(r)
	if user == nil {
		return ""
	}
	return user.ID
}
