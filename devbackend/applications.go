package devbackend

import (
	"sort"
	"sync"
	"time"

	"github.com/sunnysmathworld/smw-admin/admissions"
	apperrors "github.com/sunnysmathworld/smw-admin/internal/errors"
)

type application struct {
	api      admissions.ApplicationAPI
	approved bool
}

// ApplicationRepo holds admission applications in memory. Returned values are copies.
type ApplicationRepo struct {
	apps    map[int]*application
	nextID  int
	nowFunc func() time.Time
	lock    sync.RWMutex
}

func NewApplicationRepo(now func() time.Time) *ApplicationRepo {
	if now == nil {
		now = time.Now
	}
	return &ApplicationRepo{
		apps:    make(map[int]*application),
		nextID:  1,
		nowFunc: now,
	}
}

// Add stores a new application, assigning its id and created_at.
func (ar *ApplicationRepo) Add(app admissions.ApplicationAPI) admissions.ApplicationAPI {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	app.ID = ar.nextID
	ar.nextID++
	if app.CreatedAt == "" {
		app.CreatedAt = ar.timestamp()
	}
	ar.apps[app.ID] = &application{api: app}
	return app
}

// List returns every application, newest first.
func (ar *ApplicationRepo) List() []admissions.ApplicationAPI {
	return ar.filter(func(*application) bool { return true })
}

// ListOwnedBy returns the applications created by a user, newest first.
func (ar *ApplicationRepo) ListOwnedBy(userID int) []admissions.ApplicationAPI {
	return ar.filter(func(a *application) bool {
		return a.api.User != nil && *a.api.User == userID
	})
}

func (ar *ApplicationRepo) Get(id int) (admissions.ApplicationAPI, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	a, ok := ar.apps[id]
	if !ok {
		return admissions.ApplicationAPI{}, apperrors.ErrNotFound
	}
	return a.api, nil
}

// IsApproved reports the approval flag, which the wire format does not carry.
func (ar *ApplicationRepo) IsApproved(id int) bool {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	a, ok := ar.apps[id]
	return ok && a.approved
}

// Review applies the non-nil review fields and stamps updated_at when anything changed.
func (ar *ApplicationRepo) Review(id int, review admissions.Review) (admissions.ApplicationAPI, bool, error) {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	a, ok := ar.apps[id]
	if !ok {
		return admissions.ApplicationAPI{}, false, apperrors.ErrNotFound
	}
	changed := false
	if review.IsReviewed != nil {
		a.api.IsReviewed = *review.IsReviewed
		changed = true
	}
	if review.IsApproved != nil {
		a.approved = *review.IsApproved
		changed = true
	}
	if changed {
		ts := ar.timestamp()
		a.api.UpdatedAt = &ts
	}
	return a.api, a.approved, nil
}

// SetOwner links an application to the account created for it.
func (ar *ApplicationRepo) SetOwner(id, userID int) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	a, ok := ar.apps[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.api.User = &userID
	return nil
}

func (ar *ApplicationRepo) filter(keep func(*application) bool) []admissions.ApplicationAPI {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	out := make([]admissions.ApplicationAPI, 0, len(ar.apps))
	for _, a := range ar.apps {
		if keep(a) {
			out = append(out, a.api)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID > out[j].ID
	})
	return out
}

func (ar *ApplicationRepo) timestamp() string {
	return ar.nowFunc().UTC().Format(time.RFC3339)
}
