package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "validuser", NormalizeUsername("  ValidUser "))
	assert.Equal(t, "user_01", NormalizeUsername("USER_01"))
}

func TestUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{name: "valid", username: "validuser", wantErr: nil},
		{name: "valid with digits and underscore", username: "user_01", wantErr: nil},
		{name: "minimal length", username: "abcd", wantErr: nil},
		{name: "maximal length", username: "abcdefghij123456", wantErr: nil},
		{name: "too short", username: "ab", wantErr: ErrUsernameLength},
		{name: "empty", username: "", wantErr: ErrUsernameLength},
		{name: "too long", username: "abcdefghij1234567", wantErr: ErrUsernameLength},
		{name: "illegal dash", username: "user-name", wantErr: ErrUsernameIllegalChars},
		{name: "illegal space", username: "user name", wantErr: ErrUsernameIllegalChars},
		{name: "illegal unicode", username: "пользователь", wantErr: ErrUsernameIllegalChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Username(tt.username)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestEmailFormat(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		{name: "typical address", email: "a@b.com", wantErr: nil},
		{name: "dotted local part", email: "first.last@site.example.org", wantErr: nil},
		{name: "plus tag", email: "user+tag@site.com", wantErr: nil},
		{name: "uppercase", email: "User@Site.COM", wantErr: nil},
		{name: "empty", email: "", wantErr: ErrEmailRequired},
		{name: "missing at", email: "not-an-email", wantErr: ErrEmailFormat},
		{name: "missing domain", email: "user@", wantErr: ErrEmailFormat},
		{name: "missing domain dot", email: "user@localhost", wantErr: ErrEmailFormat},
		{name: "numeric tld", email: "user@site.123", wantErr: ErrEmailFormat},
		{name: "single letter tld", email: "user@site.a", wantErr: ErrEmailFormat},
		{name: "space inside", email: "us er@site.com", wantErr: ErrEmailFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EmailFormat(tt.email)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPasswordPresence(t *testing.T) {
	assert.ErrorIs(t, PasswordPresence(""), ErrPasswordRequired)
	assert.NoError(t, PasswordPresence("x"))
}

func TestRepeat(t *testing.T) {
	assert.ErrorIs(t, Repeat("secret", ""), ErrRepeatRequired)
	assert.ErrorIs(t, Repeat("secret", "secret2"), ErrPasswordMismatch)
	assert.NoError(t, Repeat("secret", "secret"))
}
