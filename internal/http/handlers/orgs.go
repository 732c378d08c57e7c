package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/zvonline/contracts-service/internal/errors"
	"github.com/zvonline/contracts-service/internal/models"
)

// organisationsResponse — конверт списка организаций.
type organisationsResponse struct {
	Organisations []models.Organisation `json:"organisations"`
}

// organisationResponse — конверт одной организации.
type organisationResponse struct {
	Organisation models.Organisation `json:"organisation"`
}

// ListOrganisations — GET /orgs: сводный список организаций пользователя.
func (h *Handlers) ListOrganisations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.Service.Organisations(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if orgs == nil {
		orgs = []models.Organisation{}
	}

	writeJSON(w, http.StatusOK, organisationsResponse{Organisations: orgs})
}

// OrganisationByID — GET /orgs/{orgID}: каноническая запись организации,
// слитая из детального и сводного источников.
func (h *Handlers) OrganisationByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orgID")
	if id == "" {
		apierrors.WriteError(w, r, errorInvalidArgument("empty organisation id"))
		return
	}

	org, err := h.Service.OrganisationByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, organisationResponse{Organisation: org})
}
