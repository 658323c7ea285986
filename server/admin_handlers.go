package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sunnysmathworld/smw-admin/admissions"
	"github.com/sunnysmathworld/smw-admin/session"
)

type dashboardResponse struct {
	User    *session.User    `json:"user"`
	Profile *session.Profile `json:"profile"`
}

// DashboardHandler returns the verified staff identity (GET /admin).
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := ManagerFromContext(r.Context()).State()
		writeJSON(w, http.StatusOK, dashboardResponse{User: state.User, Profile: state.Profile})
	}
}

func (s *Server) AdmissionsListHandler() http.HandlerFunc {
	return s.withAdmissions(func(w http.ResponseWriter, r *http.Request, client *admissions.Client) {
		records, err := client.List(r.Context())
		if err != nil {
			s.writeAdmissionsError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	})
}

func (s *Server) AdmissionDetailHandler() http.HandlerFunc {
	return s.withAdmissions(func(w http.ResponseWriter, r *http.Request, client *admissions.Client) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, admissions.ErrInvalidID.Error())
			return
		}
		record, err := client.Get(r.Context(), id)
		if err != nil {
			s.writeAdmissionsError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	})
}

// AdmissionReviewHandler forwards {is_reviewed, is_approved} to the backend.
func (s *Server) AdmissionReviewHandler() http.HandlerFunc {
	return s.withAdmissions(func(w http.ResponseWriter, r *http.Request, client *admissions.Client) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			writeDetail(w, http.StatusBadRequest, admissions.ErrInvalidID.Error())
			return
		}
		var review admissions.Review
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&review); err != nil {
			writeDetail(w, http.StatusBadRequest, "Malformed review request")
			return
		}
		record, err := client.Review(r.Context(), id, review)
		if err != nil {
			s.writeAdmissionsError(w, err)
			return
		}
		s.logger.Info().Int("application_id", id).Msg("Application reviewed")
		writeJSON(w, http.StatusOK, record)
	})
}

func (s *Server) withAdmissions(h func(http.ResponseWriter, *http.Request, *admissions.Client)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, err := admissions.NewClient(ManagerFromContext(r.Context()))
		if err != nil {
			s.logger.Error().Err(err).Msg("create admissions client")
			writeDetail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
		h(w, r, client)
	}
}

func (s *Server) writeAdmissionsError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, admissions.ErrInvalidID):
		status = http.StatusBadRequest
	case errors.Is(err, admissions.ErrSessionExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, admissions.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, admissions.ErrNotFound):
		status = http.StatusNotFound
	}

	detail := http.StatusText(status)
	var apiErr *admissions.APIError
	if errors.As(err, &apiErr) && status != http.StatusBadGateway {
		detail = apiErr.Detail
	}
	if status == http.StatusBadGateway {
		s.logger.Warn().Err(err).Msg("Admissions backend request failed")
	}
	writeDetail(w, status, detail)
}
