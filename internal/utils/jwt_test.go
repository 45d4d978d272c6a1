package utils

import (
    "testing"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
    at, err := NewAccessToken("secret", 42, "PLAYER", 15)
    require.NoError(t, err)
    require.NotEmpty(t, at.Token)

    tok, err := jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
        return []byte("secret"), nil
    })
    require.NoError(t, err)
    require.True(t, tok.Valid)

    claims := tok.Claims.(jwt.MapClaims)
    assert.Equal(t, float64(42), claims["sub"])
    assert.Equal(t, "PLAYER", claims["role"])
}

func TestAccessTokenWrongSecret(t *testing.T) {
    at, err := NewAccessToken("secret", 42, "PLAYER", 15)
    require.NoError(t, err)

    _, err = jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
        return []byte("other"), nil
    })
    assert.Error(t, err)
}

func TestRefreshTokenHashingIsStable(t *testing.T) {
    rt, err := NewRefreshToken(7)
    require.NoError(t, err)
    require.Len(t, rt.Raw, 96)

    assert.Equal(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(rt.Raw))
    other, err := NewRefreshToken(7)
    require.NoError(t, err)
    assert.NotEqual(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(other.Raw))
}

func TestPasswordHashAndVerify(t *testing.T) {
    hash, err := HashPassword("s3cret", 4)
    require.NoError(t, err)

    assert.True(t, VerifyPassword(hash, "s3cret"))
    assert.False(t, VerifyPassword(hash, "wrong"))
}
