package stub

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/themizzi/e2eharness/internal/data"
	"github.com/themizzi/e2eharness/internal/endpoints"
	"github.com/themizzi/e2eharness/internal/logging"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 535000000, time.UTC)

func newTestRouter(t *testing.T, mutate ...func(*Options)) http.Handler {
	t.Helper()
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	for _, m := range mutate {
		m(&opts)
	}
	h, err := NewRouter(opts, logging.Nop())
	require.NoError(t, err)
	return h
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, h http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"user-name": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginPage_RendersForm(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{`id="user-name"`, `id="password"`, `id="login-button"`} {
		assert.Contains(t, body, want)
	}
	assert.NotContains(t, body, `data-test="error"`)
}

func TestLogin_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  string
	}{
		{name: "missing username", password: "secret_sauce", wantErr: data.UsernameRequiredError},
		{name: "missing password", username: "standard_user", wantErr: data.PasswordRequiredError},
		{name: "wrong password", username: "standard_user", password: "wrong_password", wantErr: data.InvalidPasswordError},
		{name: "unknown user", username: "nobody", password: "secret_sauce", wantErr: data.InvalidPasswordError},
		{name: "locked out", username: "locked_out_user", password: "secret_sauce", wantErr: data.LockedOutError},
		{name: "locked out with wrong password", username: "locked_out_user", password: "nope", wantErr: data.InvalidPasswordError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(t, newTestRouter(t), tt.username, tt.password)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `<h3 data-test="error">`+tt.wantErr+`</h3>`)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestLogin_SuccessOpensInventory(t *testing.T) {
	// GIVEN
	h := newTestRouter(t)

	// WHEN
	rec := postForm(t, h, "standard_user", "secret_sauce")

	// THEN
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/inventory.html", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/inventory.html", nil)
	req.AddCookie(cookies[0])
	inv := httptest.NewRecorder()
	h.ServeHTTP(inv, req)

	assert.Equal(t, http.StatusOK, inv.Code)
	body := inv.Body.String()
	assert.Contains(t, body, `<span class="title" data-test="title">Products</span>`)
	assert.Contains(t, body, `class="inventory_list"`)
	assert.Equal(t, len(DefaultProducts), strings.Count(body, `class="inventory_item"`))
}

func TestInventory_RequiresSession(t *testing.T) {
	h := newTestRouter(t)

	anonymous := do(t, h, http.MethodGet, "/inventory.html", "")
	assert.Equal(t, http.StatusSeeOther, anonymous.Code)
	assert.Equal(t, "/", anonymous.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/inventory.html", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "forged"})
	forged := httptest.NewRecorder()
	h.ServeHTTP(forged, req)
	assert.Equal(t, http.StatusSeeOther, forged.Code)
}

func TestUsers_GetSingle(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/api/users/2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got endpoints.SingleUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Data.ID)
	assert.Equal(t, "Janet", got.Data.FirstName)
	assert.Equal(t, "Weaver", got.Data.LastName)
	assert.Equal(t, "janet.weaver@reqres.in", got.Data.Email)
}

func TestUsers_GetMissing(t *testing.T) {
	h := newTestRouter(t)

	for _, target := range []string{"/api/users/23", "/api/users/abc"} {
		rec := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.JSONEq(t, `{}`, rec.Body.String())
	}
}

func TestUsers_ListPages(t *testing.T) {
	tests := []struct {
		target   string
		wantPage int
		wantIDs  []int
	}{
		{target: "/api/users", wantPage: 1, wantIDs: []int{1, 2, 3, 4, 5, 6}},
		{target: "/api/users?page=2", wantPage: 2, wantIDs: []int{7, 8, 9, 10, 11, 12}},
		{target: "/api/users?page=3", wantPage: 3, wantIDs: []int{}},
		{target: "/api/users?page=zero", wantPage: 1, wantIDs: []int{1, 2, 3, 4, 5, 6}},
		{target: "/api/users?page=2000000000000000000", wantPage: 2000000000000000000, wantIDs: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := do(t, newTestRouter(t), http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, rec.Code)

			var got endpoints.UserList
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, PerPage, got.PerPage)
			assert.Equal(t, 12, got.Total)
			assert.Equal(t, 2, got.TotalPages)
			ids := []int{}
			for _, u := range got.Data {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestUserStore_ListOutOfRange(t *testing.T) {
	store := NewUserStore(SeedUsers, time.Now)

	for _, page := range []int{3, math.MaxInt / PerPage, math.MaxInt} {
		users, total := store.List(page)
		assert.Empty(t, users, "page %d", page)
		assert.Equal(t, len(SeedUsers), total)
	}

	users, _ := store.List(0)
	require.Len(t, users, PerPage)
	assert.Equal(t, 1, users[0].ID)
}

func TestSendJSON_LogsEncodeFailure(t *testing.T) {
	// GIVEN
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewWithCore("stub", core)
	rec := httptest.NewRecorder()

	// WHEN
	sendJSON(rec, logger, http.StatusOK, map[string]any{"fn": func() {}})

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	entries := logs.FilterMessage("Failed to encode response").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestUsers_CreateThenGet(t *testing.T) {
	// GIVEN
	h := newTestRouter(t)

	// WHEN
	rec := do(t, h, http.MethodPost, "/api/users", `{"name":"morpheus","job":"leader"}`)

	// THEN
	require.Equal(t, http.StatusCreated, rec.Code)
	var created endpoints.CreatedUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, endpoints.CreatedUser{
		Name:      "morpheus",
		Job:       "leader",
		ID:        "13",
		CreatedAt: "2026-03-14T15:09:26.535Z",
	}, created)

	got := do(t, h, http.MethodGet, "/api/users/13", "")
	require.Equal(t, http.StatusOK, got.Code)
	var single endpoints.SingleUser
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &single))
	assert.Equal(t, "morpheus", single.Data.FirstName)
	assert.Equal(t, "leader", single.Data.Job)
}

func TestUsers_CreateRejectsMalformedBody(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodPost, "/api/users", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Bad Request","message":"Request body must be a JSON object"}`, rec.Body.String())
}

func TestUsers_UpdateAndDeleteCreatedUser(t *testing.T) {
	h := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/users", `{"name":"neo","job":"hacker"}`).Code)

	upd := do(t, h, http.MethodPut, "/api/users/13", `{"name":"neo","job":"the one"}`)
	require.Equal(t, http.StatusOK, upd.Code)
	assert.JSONEq(t, `{"name":"neo","job":"the one","updatedAt":"2026-03-14T15:09:26.535Z"}`, upd.Body.String())

	var single endpoints.SingleUser
	require.NoError(t, json.Unmarshal(do(t, h, http.MethodGet, "/api/users/13", "").Body.Bytes(), &single))
	assert.Equal(t, "the one", single.Data.Job)

	del := do(t, h, http.MethodDelete, "/api/users/13", "")
	assert.Equal(t, http.StatusNoContent, del.Code)
	assert.Empty(t, del.Body.String())
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/users/13", "").Code)
}

func TestUsers_SeedUsersAreReadOnly(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/api/users/2", `{"name":"morpheus","job":"zion resident"}`).Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/users/2", "").Code)

	var single endpoints.SingleUser
	rec := do(t, h, http.MethodGet, "/api/users/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &single))
	assert.Equal(t, "Janet", single.Data.FirstName)
}

func TestUsers_APIKey(t *testing.T) {
	h := newTestRouter(t, func(o *Options) { o.APIKey = "reqres-free-v1" })

	missing := do(t, h, http.MethodGet, "/api/users/2", "")
	assert.Equal(t, http.StatusUnauthorized, missing.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/users/2", nil)
	req.Header.Set("x-api-key", "reqres-free-v1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/", "").Code, "pages do not need the key")
}
