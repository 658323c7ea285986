package admissions_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sunnysmathworld/smw-admin/admissions"
	"github.com/sunnysmathworld/smw-admin/internal/config"
	"github.com/sunnysmathworld/smw-admin/internal/utils"
	"github.com/sunnysmathworld/smw-admin/session"
	"github.com/sunnysmathworld/smw-admin/storage"
)

const testAccess = "access-1"

type testFixture struct {
	mux    *http.ServeMux
	client *admissions.Client
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testAccess {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), config.AccessTokenKey, testAccess, time.Hour))

	manager, err := session.New(store, session.WithBaseURL(server.URL+"/api"), session.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	client, err := admissions.NewClient(manager)
	require.NoError(t, err)
	return &testFixture{mux: mux, client: client}
}

func TestNewClient(t *testing.T) {
	_, err := admissions.NewClient(nil)
	require.Error(t, err)
}

func TestClientList(t *testing.T) {
	f := setupTestFixture(t)
	f.mux.HandleFunc("GET /api/admissions/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[" + applicationJSON + `,{"id":1,"created_at":"2025-01-01"}]`))
	})

	records, err := f.client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "APP-0012", records[0].ApplicationNumber)
	require.Equal(t, "APP-0001", records[1].ApplicationNumber)
}

func TestClientGet(t *testing.T) {
	f := setupTestFixture(t)
	f.mux.HandleFunc("GET /api/admissions/12/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(applicationJSON))
	})
	f.mux.HandleFunc("GET /api/admissions/99/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"No AdmissionApplication matches the given query."}`))
	})

	r, err := f.client.Get(context.Background(), 12)
	require.NoError(t, err)
	require.Equal(t, "Rahim Uddin", r.StudentName)

	_, err = f.client.Get(context.Background(), 99)
	require.ErrorIs(t, err, admissions.ErrNotFound)
	var apiErr *admissions.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "No AdmissionApplication matches the given query.", apiErr.Detail)

	_, err = f.client.Get(context.Background(), 0)
	require.ErrorIs(t, err, admissions.ErrInvalidID)
}

func TestClientReview(t *testing.T) {
	f := setupTestFixture(t)
	f.mux.HandleFunc("PATCH /api/admissions/12/review/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var review map[string]bool
		require.NoError(t, json.Unmarshal(body, &review))
		require.Equal(t, map[string]bool{"is_reviewed": true}, review)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(applicationJSON))
	})

	r, err := f.client.Review(context.Background(), 12, admissions.Review{IsReviewed: utils.Ptr(true)})
	require.NoError(t, err)
	require.True(t, r.IsReviewed)
}

func TestClientErrors(t *testing.T) {
	f := setupTestFixture(t)
	f.mux.HandleFunc("PATCH /api/admissions/3/review/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"Forbidden"}`))
	})

	_, err := f.client.Review(context.Background(), 3, admissions.Review{IsApproved: utils.Ptr(true)})
	require.ErrorIs(t, err, admissions.ErrForbidden)

	t.Run("expired session", func(t *testing.T) {
		store := storage.NewMemoryStore()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		t.Cleanup(server.Close)
		manager, err := session.New(store, session.WithBaseURL(server.URL), session.WithHTTPClient(server.Client()))
		require.NoError(t, err)
		client, err := admissions.NewClient(manager)
		require.NoError(t, err)

		_, err = client.List(context.Background())
		require.ErrorIs(t, err, admissions.ErrSessionExpired)
	})
}
