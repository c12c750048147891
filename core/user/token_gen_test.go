package user

import (
	"testing"
	"time"

	"github.com/darasahq/darasa/core"
)

func TestMakeVerifyToken(t *testing.T) {
	now := time.Now()
	usr := User{
		ID:        "9ad3031f-d641-414e-bdee-5834a532d7a1",
		FirstName: "Tess",
		LastName:  "Token",
		Email:     "tess@test.cd",
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	usr.SetActive(true)
	_ = usr.SetPassword("s3cr3tpwd")

	validToken := MakeToken(usr)

	// generate an expired token
	dayLate := core.Conf.PasswordResetTimeoutDelta + (24 * time.Hour)
	nowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken := MakeToken(usr)
	nowFunc = time.Now // reset

	tests := []struct {
		name    string
		usr     User
		token   string
		wantErr error
	}{
		{name: "no token", usr: usr, wantErr: errInvalidToken},
		{name: "invalid parts len", usr: usr, token: "lmaooolol", wantErr: errInvalidToken},
		{name: "invalid base32", usr: usr, token: "hahaha-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid timestamp", usr: usr, token: "NRXWY-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid token", usr: usr, token: "HE4TS-sigsig-sig", wantErr: errInvalidToken},
		{name: "expired token", usr: usr, token: expiredToken, wantErr: errTokenExpired},
		{name: "valid token", usr: usr, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := verifyToken(tt.usr, tt.token); err != tt.wantErr {
				t.Errorf("verifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		usr  User
		want string
	}{
		{name: "first+last wins", usr: User{FirstName: "Ada", LastName: "L", Name: "Someone Else", Email: "a@test.cd"}, want: "Ada L"},
		{name: "first only", usr: User{FirstName: "Ada"}, want: "Ada"},
		{name: "legacy full name", usr: User{Name: "Grace Hopper", Email: "g@test.cd"}, want: "Grace Hopper"},
		{name: "email fallback", usr: User{Email: "g@test.cd"}, want: "g@test.cd"},
		{name: "placeholder", usr: User{}, want: DefaultDisplayName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.usr.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %v, want %v", got, tt.want)
			}
		})
	}
}
