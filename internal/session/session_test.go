package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovadesk/renova/internal/common"
	"github.com/renovadesk/renova/internal/model"
)

var users = []model.User{
	{ID: 1, Username: "ana", DisplayName: "Ana Lima", PasswordSecret: "s3gr3do", Status: model.UserActive, Role: model.RoleAdmin},
	{ID: 2, Username: "beto", DisplayName: "Beto Reis", PasswordSecret: "outra", Status: model.UserInactive, Role: model.RoleUser},
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{name: "valid credentials", username: "ana", password: "s3gr3do"},
		{name: "wrong password", username: "ana", password: "errada", wantErr: true},
		{name: "unknown user", username: "carla", password: "x", wantErr: true},
		{name: "inactive user cannot log in", username: "beto", password: "outra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			err := s.Login(users, tt.username, tt.password)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrAuthFailed)
				_, ok := s.User()
				assert.False(t, ok, "failed login must not mutate the session")
				return
			}

			require.NoError(t, err)
			user, ok := s.User()
			require.True(t, ok)
			assert.Equal(t, tt.username, user.Username)
		})
	}
}

func TestResume(t *testing.T) {
	s := New()
	assert.False(t, s.Resume(users, ""))
	assert.False(t, s.Resume(users, "beto"), "inactive users do not resume")

	require.True(t, s.Resume(users, "ana"))
	user, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "Ana Lima", user.DisplayName)
}

func TestLogout(t *testing.T) {
	s := New()
	require.NoError(t, s.Login(users, "ana", "s3gr3do"))

	s.Logout()
	_, ok := s.User()
	assert.False(t, ok)
}

func TestEditingGuard(t *testing.T) {
	s := New()
	assert.False(t, s.Editing())

	s.SetEditing(true)
	assert.True(t, s.Editing())

	s.SetEditing(false)
	assert.False(t, s.Editing())
}
