package tokens

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	return cfg
}

func TestGenerateAndVerify(t *testing.T) {
	cfg := testConfig("test-secret-32-bytes-should-be-long-enough")
	u := &models.User{Sub: "owner-123", Name: "Test User", Email: "test@example.com"}
	tok, err := GenerateAccessToken(cfg, u, 2*time.Minute)
	require.NoError(t, err)

	vt, err := NewVerifier(cfg.JWT.Secret).Verify(context.Background(), tok)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, vt.Claims(&claims))
	require.Equal(t, "owner-123", claims["sub"])
	require.Equal(t, "test@example.com", claims["email"])
}

func TestGenerateRequiresSecret(t *testing.T) {
	_, err := GenerateAccessToken(testConfig(""), &models.User{Sub: "x"}, time.Minute)
	require.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	cfg := testConfig("another-secret-32-bytes-longgggg")
	tok, err := GenerateAccessToken(cfg, &models.User{Sub: "u2"}, -time.Minute)
	require.NoError(t, err)
	_, err = NewVerifier(cfg.JWT.Secret).Verify(context.Background(), tok)
	require.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := GenerateAccessToken(testConfig("secret-one-32-bytes-xxxxxxxxxxxxxxxx"), &models.User{Sub: "u3"}, time.Minute)
	require.NoError(t, err)
	_, err = NewVerifier("different-secret-xxxxxxxxxxxxxxxx").Verify(context.Background(), tok)
	require.Error(t, err)
}

func TestVerifyRejectsMalformedAndAlgNone(t *testing.T) {
	v := NewVerifier("x")
	_, err := v.Verify(context.Background(), "not.a.jwt")
	require.Error(t, err)

	headerEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	payloadEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u-none","exp":9999999999}`))
	_, err = v.Verify(context.Background(), headerEnc+"."+payloadEnc+".")
	require.Error(t, err)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	cfg := testConfig("tamper-test-secret-32-bytes-xxxxxxx")
	tok, err := GenerateAccessToken(cfg, &models.User{Sub: "user-t"}, 5*time.Minute)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(strings.Replace(string(payload), "user-t", "attacker", 1)))
	_, err = NewVerifier(cfg.JWT.Secret).Verify(context.Background(), strings.Join(parts, "."))
	require.Error(t, err)
}

func TestExpiresAt(t *testing.T) {
	cfg := testConfig("exp-secret-32-bytes-xxxxxxxxxxxxxx")
	before := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	tok, err := GenerateAccessToken(cfg, &models.User{Sub: "u"}, 10*time.Minute)
	require.NoError(t, err)

	exp, err := ExpiresAt(tok)
	require.NoError(t, err)
	require.False(t, exp.Before(before))

	_, err = ExpiresAt("garbage")
	require.Error(t, err)
}

func TestVerifyRejectsEmptySecret(t *testing.T) {
	// a token signed with an empty key must not authenticate anyone
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "victim",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(""))
	require.NoError(t, err)

	tok, err := NewVerifier("").Verify(context.Background(), forged)
	require.ErrorIs(t, err, ErrNoSecret)
	require.Nil(t, tok)
}
