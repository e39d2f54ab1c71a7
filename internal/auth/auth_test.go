package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

func TestHashPassword(t *testing.T) {
	t.Run("Successfully hash password", func(t *testing.T) {
		password := "mySecurePassword123"
		hashed, err := HashPassword(password)

		assert.NoError(t, err)
		assert.NotEmpty(t, hashed)
		assert.NotEqual(t, password, hashed)
	})

	t.Run("Different hashes for same password", func(t *testing.T) {
		password := "samePassword"
		hash1, _ := HashPassword(password)
		hash2, _ := HashPassword(password)

		assert.NotEqual(t, hash1, hash2)
	})
}

func TestCheckPassword(t *testing.T) {
	password := "correctPassword"
	hashed, _ := HashPassword(password)

	t.Run("Correct password", func(t *testing.T) {
		result := CheckPassword(hashed, password)
		assert.True(t, result)
	})

	t.Run("Incorrect password", func(t *testing.T) {
		result := CheckPassword(hashed, "wrongPassword")
		assert.False(t, result)
	})

	t.Run("Empty password", func(t *testing.T) {
		result := CheckPassword(hashed, "")
		assert.False(t, result)
	})
}

func TestGenerateAccessToken(t *testing.T) {
	t.Run("Successfully generate access token", func(t *testing.T) {
		token, err := GenerateAccessToken(1, "owner@example.com", testSecret)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("Fail with empty secret", func(t *testing.T) {
		token, err := GenerateAccessToken(1, "owner@example.com", "")

		assert.Error(t, err)
		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Empty(t, token)
	})

	t.Run("Token contains correct claims", func(t *testing.T) {
		adminID := int64(42)
		email := "owner@example.com"

		token, err := GenerateAccessToken(adminID, email, testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		assert.Equal(t, adminID, claims.AdminID)
		assert.Equal(t, email, claims.Email)
		assert.Equal(t, "access", claims.TokenType)
	})
}

func TestGenerateRefreshToken(t *testing.T) {
	t.Run("Successfully generate refresh token", func(t *testing.T) {
		token, err := GenerateRefreshToken(1, "owner@example.com", testSecret)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("Refresh token has longer expiration", func(t *testing.T) {
		token, err := GenerateRefreshToken(1, "owner@example.com", testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		assert.Equal(t, "refresh", claims.TokenType)

		expectedExpiry := time.Now().Add(RefreshTokenTTL)
		actualExpiry := claims.ExpiresAt.Time

		diff := actualExpiry.Sub(expectedExpiry).Abs()
		assert.Less(t, diff, 2*time.Second)
	})
}

func TestGenerateTokens(t *testing.T) {
	accessSecret := "access-secret"
	refreshSecret := "refresh-secret"

	t.Run("Successfully generate both tokens", func(t *testing.T) {
		accessToken, refreshToken, err := GenerateTokens(
			1,
			"owner@example.com",
			accessSecret,
			refreshSecret,
		)

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.NotEqual(t, accessToken, refreshToken)
	})

	t.Run("Fail with empty access secret", func(t *testing.T) {
		accessToken, refreshToken, err := GenerateTokens(
			1,
			"owner@example.com",
			"",
			refreshSecret,
		)

		assert.Error(t, err)
		assert.Empty(t, accessToken)
		assert.Empty(t, refreshToken)
	})

	t.Run("Fail with empty refresh secret", func(t *testing.T) {
		accessToken, refreshToken, err := GenerateTokens(
			1,
			"owner@example.com",
			accessSecret,
			"",
		)

		assert.Error(t, err)
		assert.Empty(t, accessToken)
		assert.Empty(t, refreshToken)
	})
}

func TestValidateToken(t *testing.T) {
	adminID := int64(100)
	email := "owner@example.com"

	t.Run("Successfully validate valid token", func(t *testing.T) {
		token, _ := GenerateAccessToken(adminID, email, testSecret)

		claims, err := ValidateToken(token, testSecret)

		assert.NoError(t, err)
		assert.Equal(t, adminID, claims.AdminID)
		assert.Equal(t, email, claims.Email)
	})

	t.Run("Fail with empty secret", func(t *testing.T) {
		token, _ := GenerateAccessToken(adminID, email, testSecret)

		claims, err := ValidateToken(token, "")

		assert.Error(t, err)
		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Nil(t, claims)
	})

	t.Run("Fail with wrong secret", func(t *testing.T) {
		token, _ := GenerateAccessToken(adminID, email, testSecret)

		claims, err := ValidateToken(token, "wrong-secret")

		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Fail with invalid token format", func(t *testing.T) {
		claims, err := ValidateToken("invalid.token.format", testSecret)

		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Fail with expired token", func(t *testing.T) {

		now := time.Now()
		pastTime := now.Add(-1 * time.Hour)

		claims := &JWTClaims{
			AdminID:   adminID,
			Email:     email,
			TokenType: "access",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    jwtIssuer,
				Audience:  []string{jwtAudience},
				ExpiresAt: jwt.NewNumericDate(pastTime),
				IssuedAt:  jwt.NewNumericDate(pastTime.Add(-15 * time.Minute)),
			},
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, _ := token.SignedString([]byte(testSecret))

		validatedClaims, err := ValidateToken(tokenString, testSecret)

		assert.Error(t, err)
		assert.Equal(t, ErrTokenExpired, err)
		assert.Nil(t, validatedClaims)
	})

	t.Run("Token has correct issuer and audience", func(t *testing.T) {
		token, _ := GenerateAccessToken(adminID, email, testSecret)

		claims, err := ValidateToken(token, testSecret)

		require.NoError(t, err)
		assert.Equal(t, jwtIssuer, claims.Issuer)
		assert.Contains(t, claims.Audience, jwtAudience)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	accessSecret := "access-secret"
	refreshSecret := "refresh-secret"
	adminID := int64(1)
	email := "owner@example.com"

	t.Run("Successfully refresh access token", func(t *testing.T) {
		refreshToken, _ := GenerateRefreshToken(adminID, email, refreshSecret)

		newAccessToken, claims, err := RefreshAccessToken(refreshToken, refreshSecret, accessSecret)

		assert.NoError(t, err)
		assert.NotEmpty(t, newAccessToken)
		assert.Equal(t, adminID, claims.AdminID)
		assert.Equal(t, email, claims.Email)
	})

	t.Run("Fail with access token instead of refresh token", func(t *testing.T) {
		accessToken, _ := GenerateAccessToken(adminID, email, accessSecret)

		newAccessToken, claims, err := RefreshAccessToken(accessToken, accessSecret, accessSecret)

		assert.Error(t, err)
		assert.Equal(t, ErrInvalidTokenType, err)
		assert.Empty(t, newAccessToken)
		assert.Nil(t, claims)
	})

	t.Run("Fail with invalid refresh token", func(t *testing.T) {
		newAccessToken, claims, err := RefreshAccessToken("invalid.token", refreshSecret, accessSecret)

		assert.Error(t, err)
		assert.Empty(t, newAccessToken)
		assert.Nil(t, claims)
	})

	t.Run("Fail with expired refresh token", func(t *testing.T) {

		now := time.Now()
		pastTime := now.Add(-8 * 24 * time.Hour)

		claims := &JWTClaims{
			AdminID:   adminID,
			Email:     email,
			TokenType: "refresh",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    jwtIssuer,
				Audience:  []string{jwtAudience},
				ExpiresAt: jwt.NewNumericDate(pastTime),
				IssuedAt:  jwt.NewNumericDate(pastTime.Add(-7 * 24 * time.Hour)),
			},
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		expiredRefreshToken, _ := token.SignedString([]byte(refreshSecret))

		newAccessToken, validatedClaims, err := RefreshAccessToken(expiredRefreshToken, refreshSecret, accessSecret)

		assert.Error(t, err)
		assert.Equal(t, ErrTokenExpired, err)
		assert.Empty(t, newAccessToken)
		assert.Nil(t, validatedClaims)
	})

	t.Run("New access token is valid", func(t *testing.T) {
		refreshToken, _ := GenerateRefreshToken(adminID, email, refreshSecret)

		newAccessToken, _, err := RefreshAccessToken(refreshToken, refreshSecret, accessSecret)
		require.NoError(t, err)

		accessClaims, err := ValidateToken(newAccessToken, accessSecret)

		assert.NoError(t, err)
		assert.Equal(t, adminID, accessClaims.AdminID)
		assert.Equal(t, "access", accessClaims.TokenType)
	})
}

func TestTokenExpiration(t *testing.T) {
	t.Run("Access token expires after 15 minutes", func(t *testing.T) {
		token, err := GenerateAccessToken(1, "owner@example.com", testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		expectedExpiry := time.Now().Add(AccessTokenTTL)
		actualExpiry := claims.ExpiresAt.Time

		diff := actualExpiry.Sub(expectedExpiry).Abs()
		assert.Less(t, diff, 2*time.Second)
	})

	t.Run("Refresh token expires after 7 days", func(t *testing.T) {
		token, err := GenerateRefreshToken(1, "owner@example.com", testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		expectedExpiry := time.Now().Add(RefreshTokenTTL)
		actualExpiry := claims.ExpiresAt.Time

		diff := actualExpiry.Sub(expectedExpiry).Abs()
		assert.Less(t, diff, 2*time.Second)
	})
}

func TestJWTClaimsStructure(t *testing.T) {
	t.Run("Claims contain all required fields", func(t *testing.T) {
		adminID := int64(123)
		email := "owner@example.com"

		token, err := GenerateAccessToken(adminID, email, testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		assert.Equal(t, adminID, claims.AdminID)
		assert.Equal(t, email, claims.Email)
		assert.Equal(t, "access", claims.TokenType)
		assert.Equal(t, jwtIssuer, claims.Issuer)
		assert.Contains(t, claims.Audience, jwtAudience)
		assert.NotNil(t, claims.ExpiresAt)
		assert.NotNil(t, claims.IssuedAt)
	})
}
