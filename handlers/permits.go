// handlers/permits.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"p9e.in/permits/middleware"
	"p9e.in/permits/models"
	"p9e.in/permits/utils"
)

// store is the permit repository all handlers go through. Wired from
// routes at startup; swapped for a fake in tests.
var store models.PermitRepository

func Init(repo models.PermitRepository) {
	store = repo
}

func permitID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	return id, err == nil
}

// writePermitError maps repository and state-machine errors to HTTP
// statuses. The distinctions matter to the UI: 409 renders "already
// decided", 422 asks for corrected input, 500 is a store failure the
// user may retry.
func writePermitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrPermitNotFound):
		http.Error(w, "permit not found", http.StatusNotFound)
	case errors.Is(err, models.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrMissingSignature),
		errors.Is(err, models.ErrMissingReason):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		logrus.WithError(err).Error("permit store failure")
		http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
	}
}

// CreatePermit files a new work-permit application. Status is forced to
// pending by the repository regardless of the request body.
func CreatePermit(w http.ResponseWriter, r *http.Request) {
	var item models.WorkPermit
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// Fall back to the session identity for who is applying.
	if claims := middleware.GetClaims(r); claims != nil {
		if item.ApplicantName == "" {
			item.ApplicantName = claims.Name
		}
		if item.PhoneNumber == "" {
			item.PhoneNumber = claims.Phone
		}
	}

	if err := store.CreatePermit(&item); err != nil {
		writePermitError(w, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"permit": item.PermitNumber,
		"id":     item.ID,
	}).Info("Created work permit")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// ListPermits returns every permit, newest first.
func ListPermits(w http.ResponseWriter, r *http.Request) {
	permits, err := store.ListPermits()
	if err != nil {
		writePermitError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(permits)
}

func GetPermit(w http.ResponseWriter, r *http.Request) {
	id, ok := permitID(r)
	if !ok {
		http.Error(w, "invalid permit id", http.StatusBadRequest)
		return
	}
	permit, err := store.GetPermit(id)
	if err != nil {
		writePermitError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(permit)
}

// UpdatePermit replaces the editable fields of a pending permit.
// Approval fields are not reachable through this path.
func UpdatePermit(w http.ResponseWriter, r *http.Request) {
	id, ok := permitID(r)
	if !ok {
		http.Error(w, "invalid permit id", http.StatusBadRequest)
		return
	}
	var item models.WorkPermit
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	permit, err := store.UpdatePermit(id, &item)
	if err != nil {
		writePermitError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(permit)
}

// reviewPayload is everything the reviewer screen needs in one call:
// the raw record, the decoded checklist, the ordered advisory issues,
// the attachments, and the geofence advisory when coordinates exist.
type reviewPayload struct {
	Permit   *models.WorkPermit  `json:"permit"`
	Sections models.Checklist    `json:"sections"`
	Issues   []models.Issue      `json:"issues"`
	Files    []models.PermitFile `json:"files"`
	Geofence *geofenceAdvisory   `json:"geofence,omitempty"`
}

type geofenceAdvisory struct {
	InsideBoundary bool   `json:"inside_boundary"`
	BoundaryName   string `json:"boundary_name,omitempty"`
}

// ReviewPermit assembles the decision-support view of a permit.
func ReviewPermit(w http.ResponseWriter, r *http.Request) {
	id, ok := permitID(r)
	if !ok {
		http.Error(w, "invalid permit id", http.StatusBadRequest)
		return
	}
	permit, err := store.GetPermit(id)
	if err != nil {
		writePermitError(w, err)
		return
	}
	files, err := store.ListFiles(id)
	if err != nil {
		writePermitError(w, err)
		return
	}

	payload := reviewPayload{
		Permit:   permit,
		Sections: permit.Sections(),
		Issues:   models.ValidatePermit(permit),
		Files:    files,
	}

	if permit.Latitude != nil && permit.Longitude != nil {
		if boundary := utils.PlantBoundary(); boundary != nil {
			payload.Geofence = &geofenceAdvisory{
				InsideBoundary: boundary.Contains(*permit.Latitude, *permit.Longitude),
				BoundaryName:   boundary.Name,
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// DecidePermit applies a reviewer's decision to a pending permit.
func DecidePermit(w http.ResponseWriter, r *http.Request) {
	id, ok := permitID(r)
	if !ok {
		http.Error(w, "invalid permit id", http.StatusBadRequest)
		return
	}
	var decision models.Decision
	if err := json.NewDecoder(r.Body).Decode(&decision); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	permit, err := store.DecidePermit(id, decision)
	if err != nil {
		writePermitError(w, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"permit": permit.PermitNumber,
		"status": permit.ApprovalStatus,
		"by":     decision.Signature,
	}).Info("Permit decided")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(permit)
}
