package jwt_test

import (
	"bazaar/config"
	"bazaar/infras/jwt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(secret, issuer string) jwt.JWT {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret
	cfg.JWT.Issuer = issuer

	return jwt.New(cfg)
}

func TestIssueAndValidate(t *testing.T) {
	svc := newService("s3cret", "marketplace")

	token, err := svc.Issue("user-1", "amina@example.com", "customer", time.Minute)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "customer", claims.Role)
	assert.NotEmpty(t, claims.TokenID)
}

func TestValidateToken_Failures(t *testing.T) {
	svc := newService("s3cret", "marketplace")

	expired, err := svc.Issue("user-1", "amina@example.com", "customer", -time.Minute)
	require.NoError(t, err)

	otherKey, err := newService("other", "marketplace").Issue("user-1", "a@example.com", "customer", time.Minute)
	require.NoError(t, err)

	otherIssuer, err := newService("s3cret", "elsewhere").Issue("user-1", "a@example.com", "customer", time.Minute)
	require.NoError(t, err)

	noUser, err := svc.Issue("", "a@example.com", "customer", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "expired", token: expired, want: jwt.ErrExpiredToken},
		{name: "wrong key", token: otherKey, want: jwt.ErrInvalidToken},
		{name: "wrong issuer", token: otherIssuer, want: jwt.ErrInvalidToken},
		{name: "garbage", token: "not-a-token", want: jwt.ErrInvalidToken},
		{name: "missing user", token: noUser, want: jwt.ErrInvalidClaim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = jwt.ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = jwt.ExtractTokenFromHeader("Basic dXNlcg==")
	assert.Error(t, err)
}
