package tests

import (
	"net/http"
	"testing"

	"github.com/darasahq/darasa/core/user"
	testutil "github.com/darasahq/darasa/tests"
)

func Test_userApi_register(t *testing.T) {
	app := setup(t)

	testutil.CreateUser(t, usrRepo, "Taken", "Already", "taken@test.cd", "secret123", true)

	tests := []httpTest{
		{
			name: "empty body", body: []byte(`{}`), wantCode: http.StatusBadRequest,
		},
		{
			name: "password mismatch",
			body: []byte(`{"first_name":"Ada","last_name":"Lovelace","email":"ada@test.cd",` +
				`"password":"secret123","password_confirm":"different1"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "invalid email",
			body: []byte(`{"first_name":"Ada","last_name":"Lovelace","email":"nope",` +
				`"password":"secret123","password_confirm":"secret123"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "password too short",
			body: []byte(`{"first_name":"Ada","last_name":"Lovelace","email":"ada@test.cd",` +
				`"password":"short","password_confirm":"short"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "email taken",
			body: []byte(`{"first_name":"Ada","last_name":"Lovelace","email":"taken@test.cd",` +
				`"password":"secret123","password_confirm":"secret123"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": user.ErrEmailExists.Error()}),
		},
		{
			name: "ok",
			body: []byte(`{"first_name":"Ada","last_name":"Lovelace","email":"ada@test.cd",` +
				`"institution":"Analytical Engines Ltd","password":"secret123","password_confirm":"secret123"}`),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/register", tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
			if tt.wantCode == http.StatusCreated {
				var usr user.User
				decodeBody(t, rec, &usr)
				if usr.ID == "" {
					t.Error("expected a user id in the response")
				}
				if usr.Email != "ada@test.cd" {
					t.Errorf("email = %q", usr.Email)
				}
			}
		})
	}
}

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	testutil.CreateUser(t, usrRepo, "User", "Awe", "awe@test.cd", "secret123", true)
	testutil.CreateUser(t, usrRepo, "N", "Dog", "ndog@test.cd", "secret123", false)

	tests := []httpTest{
		{name: "no credentials", body: []byte(`{}`), wantCode: http.StatusBadRequest},
		{
			name: "unknown email", body: []byte(`{"email":"who@test.cd","password":"secret123"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: []byte(`{"email":"awe@test.cd","password":"wrong1234"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: []byte(`{"email":"ndog@test.cd","password":"secret123"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "ok", body: []byte(`{"email":"awe@test.cd","password":"secret123"}`), wantCode: http.StatusOK},
		{name: "ok (email is case-insensitive)", body: []byte(`{"email":"AWE@test.cd","password":"secret123"}`), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
			if tt.wantCode == http.StatusOK {
				var res struct {
					Token string `json:"token"`
				}
				decodeBody(t, rec, &res)
				if res.Token == "" {
					t.Error("expected a token in the response")
				}
			}
		})
	}
}

func Test_userApi_me(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "Awe", "awe@test.cd", "secret123", true)
	token := getToken(t, usr)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/users/me")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("get me", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/me", token)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var me user.User
		decodeBody(t, rec, &me)
		if me.ID != usr.ID {
			t.Errorf("id = %q; want %q", me.ID, usr.ID)
		}
	})

	t.Run("update me", func(t *testing.T) {
		body := []byte(`{"institution":"New School"}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/users/me", token, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var me user.User
		decodeBody(t, rec, &me)
		if me.Institution != "New School" {
			t.Errorf("institution = %q", me.Institution)
		}
		// unset fields keep their values
		if me.FirstName != "User" {
			t.Errorf("first_name = %q", me.FirstName)
		}
	})
}

func Test_userApi_passwordReset(t *testing.T) {
	app := setup(t)

	testutil.CreateUser(t, usrRepo, "User", "Awe", "awe@test.cd", "secret123", true)

	tests := []httpTest{
		{name: "invalid email", body: []byte(`{"email":"nope"}`), wantCode: http.StatusBadRequest},
		// an unknown email gets the same response as a known one
		{name: "unknown email", body: []byte(`{"email":"who@test.cd"}`), wantCode: http.StatusOK},
		{name: "known email", body: []byte(`{"email":"awe@test.cd"}`), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/password-reset", tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func Test_userApi_tokenRefresh(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "User", "Awe", "awe@test.cd", "secret123", true)
	token := getToken(t, usr)

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", token)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &res)
	if res.Token == "" {
		t.Error("expected a refreshed token in the response")
	}
}
