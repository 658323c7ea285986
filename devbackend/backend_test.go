package devbackend_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunnysmathworld/smw-admin/admissions"
	"github.com/sunnysmathworld/smw-admin/devbackend"
	"github.com/sunnysmathworld/smw-admin/session"
	"github.com/sunnysmathworld/smw-admin/storage"
	"github.com/sunnysmathworld/smw-admin/token"
)

type testFixture struct {
	server *httptest.Server
	clock  *fakeClock
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	clock := &fakeClock{now: time.Now()}
	signer, err := token.NewHMACSigner("dev-secret")
	require.NoError(t, err)
	tokens := token.New(signer, token.WithNowFunc(clock.Now))

	backend, err := devbackend.NewSeeded(tokens, devbackend.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	return &testFixture{server: server, clock: clock}
}

func (f *testFixture) baseURL() string {
	return f.server.URL + devbackend.APIPrefix
}

func (f *testFixture) call(t *testing.T, method, path, bearer string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.baseURL()+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (f *testFixture) login(t *testing.T, email string) (string, string) {
	t.Helper()
	status, body := f.call(t, http.MethodPost, "/admin/login/", "", map[string]string{
		"email": email, "password": devbackend.SeedPassword,
	})
	require.Equal(t, http.StatusOK, status, body)
	return body["access"].(string), body["refresh"].(string)
}

func TestAdminLogin(t *testing.T) {
	f := setupTestFixture(t)

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
		wantDetail string
	}{
		{name: "approved staff", email: devbackend.SeedStaffEmail, password: devbackend.SeedPassword, wantStatus: http.StatusOK},
		{name: "superuser", email: devbackend.SeedSuperEmail, password: devbackend.SeedPassword, wantStatus: http.StatusOK},
		{name: "email is case insensitive", email: "ADMIN@smw.test", password: devbackend.SeedPassword, wantStatus: http.StatusOK},
		{name: "wrong password", email: devbackend.SeedStaffEmail, password: "nope", wantStatus: http.StatusUnauthorized, wantDetail: "Invalid credentials"},
		{name: "unknown user", email: "ghost@smw.test", password: devbackend.SeedPassword, wantStatus: http.StatusUnauthorized, wantDetail: "Invalid credentials"},
		{name: "student account", email: devbackend.SeedStudentEmail, password: devbackend.SeedPassword, wantStatus: http.StatusUnauthorized, wantDetail: "Invalid credentials"},
		{name: "inactive staff", email: devbackend.SeedInactiveEmail, password: devbackend.SeedPassword, wantStatus: http.StatusUnauthorized, wantDetail: "Invalid credentials"},
		{name: "unapproved staff", email: devbackend.SeedPendingEmail, password: devbackend.SeedPassword, wantStatus: http.StatusForbidden, wantDetail: "User is not approved yet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := f.call(t, http.MethodPost, "/admin/login/", "", map[string]string{
				"email": tt.email, "password": tt.password,
			})
			require.Equal(t, tt.wantStatus, status)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body["detail"])
				return
			}
			assert.NotEmpty(t, body["access"])
			assert.NotEmpty(t, body["refresh"])
		})
	}
}

func TestTokenRefresh(t *testing.T) {
	f := setupTestFixture(t)
	_, refresh := f.login(t, devbackend.SeedStaffEmail)

	status, body := f.call(t, http.MethodPost, "/token/refresh/", "", map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusOK, status)
	access, ok := body["access"].(string)
	require.True(t, ok)

	status, _ = f.call(t, http.MethodGet, "/profile/", access, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = f.call(t, http.MethodPost, "/token/refresh/", "", map[string]string{"refresh": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "token_not_valid", body["code"])

	status, body = f.call(t, http.MethodPost, "/token/refresh/", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "refresh")

	f.clock.now = f.clock.now.Add(token.DefaultRefreshTokenExpiry + time.Minute)
	status, _ = f.call(t, http.MethodPost, "/token/refresh/", "", map[string]string{"refresh": refresh})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProfile(t *testing.T) {
	f := setupTestFixture(t)
	access, _ := f.login(t, devbackend.SeedStaffEmail)

	status, body := f.call(t, http.MethodGet, "/profile/", access, nil)
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]any)
	assert.Equal(t, devbackend.SeedStaffEmail, user["email"])
	assert.Equal(t, true, user["is_staff"])
	assert.Equal(t, "Nadia", user["f_name"])

	status, body = f.call(t, http.MethodGet, "/profile/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication credentials were not provided.", body["detail"])

	f.clock.now = f.clock.now.Add(token.DefaultAccessTokenExpiry + time.Second)
	status, _ = f.call(t, http.MethodGet, "/profile/", access, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogout(t *testing.T) {
	f := setupTestFixture(t)
	access, refresh := f.login(t, devbackend.SeedStaffEmail)

	status, body := f.call(t, http.MethodPost, "/logout/", access, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Refresh token is required.", body["error"])

	status, _ = f.call(t, http.MethodPost, "/logout/", "", map[string]string{"refresh": refresh})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = f.call(t, http.MethodPost, "/logout/", access, map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusResetContent, status)
	assert.Equal(t, "Successfully logged out.", body["message"])

	status, _ = f.call(t, http.MethodPost, "/token/refresh/", "", map[string]string{"refresh": refresh})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = f.call(t, http.MethodPost, "/logout/", access, map[string]string{"refresh": refresh})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdmissions(t *testing.T) {
	f := setupTestFixture(t)
	staffAccess, _ := f.login(t, devbackend.SeedStaffEmail)

	t.Run("student sees only own applications", func(t *testing.T) {
		pair, err := loginStudent(f)
		require.NoError(t, err)

		req, err := http.NewRequest(http.MethodGet, f.baseURL()+"/admissions/", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+pair)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		var apps []admissions.ApplicationAPI
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&apps))
		require.Len(t, apps, 1)
		assert.Equal(t, "Tania Akter", apps[0].StudentName)

		status, body := f.call(t, http.MethodGet, "/admissions/1/", pair, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Forbidden", body["detail"])

		status, _ = f.call(t, http.MethodPatch, "/admissions/3/review/", pair, map[string]bool{"is_reviewed": true})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("missing application", func(t *testing.T) {
		status, body := f.call(t, http.MethodGet, "/admissions/999/", staffAccess, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.NotEmpty(t, body["detail"])

		status, _ = f.call(t, http.MethodGet, "/admissions/abc/", staffAccess, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("review provisions a student account on approval", func(t *testing.T) {
		status, body := f.call(t, http.MethodPatch, "/admissions/1/review/", staffAccess, map[string]bool{
			"is_reviewed": true, "is_approved": true,
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["is_reviewed"])
		assert.NotNil(t, body["user"])
		assert.NotNil(t, body["updated_at"])
	})
}

// loginStudent issues an access token for the seed student. Admin login refuses students.
func loginStudent(f *testFixture) (string, error) {
	signer, err := token.NewHMACSigner("dev-secret")
	if err != nil {
		return "", err
	}
	pair, err := token.New(signer, token.WithNowFunc(f.clock.Now)).IssuePair(3)
	return pair.Access, err
}

func TestSessionManagerAgainstBackend(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	store := storage.NewMemoryStore()

	mgr, err := session.New(store, session.WithBaseURL(f.baseURL()))
	require.NoError(t, err)
	mgr.Bootstrap(ctx)

	result := mgr.Login(ctx, "  Admin@SMW.test ", devbackend.SeedPassword)
	require.True(t, result.Success, result.Message)
	state := mgr.State()
	require.True(t, state.StaffVerified())
	assert.Equal(t, "Nadia Rahman", state.User.FullName)

	client, err := admissions.NewClient(mgr)
	require.NoError(t, err)

	f.clock.now = f.clock.now.Add(token.DefaultAccessTokenExpiry + time.Second)

	records, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "APP-0003", records[0].ApplicationNumber)
	assert.NotEqual(t, state.AccessToken, mgr.State().AccessToken)

	record, err := client.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "paid", record.Status)
	assert.True(t, record.IsApproved)

	mgr.Logout(ctx)
	assert.Equal(t, session.StatusAnonymous, mgr.State().Status())

	rejected := mgr.Login(ctx, devbackend.SeedPendingEmail, devbackend.SeedPassword)
	assert.False(t, rejected.Success)
	assert.Equal(t, "User is not approved yet", rejected.Message)
}
