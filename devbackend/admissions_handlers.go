package devbackend

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/sunnysmathworld/smw-admin/admissions"
	"github.com/sunnysmathworld/smw-admin/users"
)

func canReviewAll(u *users.User) bool {
	return u.IsStaff || u.IsSuperuser
}

// admissionListHandler returns every application to staff and only their own to anyone else.
func (b *Backend) admissionListHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if canReviewAll(user) {
		writeJSON(w, http.StatusOK, b.applications.List())
		return
	}
	writeJSON(w, http.StatusOK, b.applications.ListOwnedBy(user.ID))
}

func (b *Backend) admissionDetailHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	app, ok := b.lookupApplication(w, r)
	if !ok {
		return
	}
	owner := app.User != nil && *app.User == user.ID
	if !canReviewAll(user) && !owner {
		writeDetail(w, http.StatusForbidden, msgForbidden)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// admissionReviewHandler marks an application reviewed or approved. Approving provisions
// an active, approved student account for the applicant when none is linked yet.
func (b *Backend) admissionReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if !canReviewAll(user) {
		writeDetail(w, http.StatusForbidden, msgForbidden)
		return
	}
	if _, ok := b.lookupApplication(w, r); !ok {
		return
	}

	var review admissions.Review
	if err := decodeBody(w, r, &review); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	id, _ := strconv.Atoi(r.PathValue("id"))
	app, approved, err := b.applications.Review(id, review)
	if err != nil {
		writeDetail(w, http.StatusNotFound, msgNotFound)
		return
	}
	if approved {
		if app, err = b.provisionStudent(app); err != nil {
			b.logger.Error().Err(err).Int("application_id", id).Msg("provision student")
			writeDetail(w, http.StatusInternalServerError, "Unable to provision student account")
			return
		}
	}
	b.logger.Info().Int("application_id", id).Int("reviewer_id", user.ID).Bool("approved", approved).Msg("application reviewed")
	writeJSON(w, http.StatusOK, app)
}

func (b *Backend) lookupApplication(w http.ResponseWriter, r *http.Request) (admissions.ApplicationAPI, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, msgNotFound)
		return admissions.ApplicationAPI{}, false
	}
	app, err := b.applications.Get(id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, msgNotFound)
		return admissions.ApplicationAPI{}, false
	}
	return app, true
}

func (b *Backend) provisionStudent(app admissions.ApplicationAPI) (admissions.ApplicationAPI, error) {
	var student *users.User
	if app.User != nil {
		student, _ = b.users.GetByID(*app.User)
	}
	email := fmt.Sprintf("student_%d@example.com", app.ID)
	if app.StudentEmail != nil && *app.StudentEmail != "" {
		email = *app.StudentEmail
	}
	if student == nil {
		student, _ = b.users.GetByEmail(email)
	}
	if student == nil {
		hash, err := users.HashPassword(uuid.NewString())
		if err != nil {
			return app, err
		}
		student = &users.User{Email: email, PasswordHash: hash, FirstName: app.StudentName}
	}
	student.IsActive = true
	student.IsApproved = true
	student.CurrentClass = app.CurrentClass
	if err := b.users.Upsert(student); err != nil {
		return app, err
	}
	if err := b.applications.SetOwner(app.ID, student.ID); err != nil {
		return app, err
	}
	return b.applications.Get(app.ID)
}
