// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/skinsight/internal/platform/sec"
)

const testIssuer = "skinsight.test"

/*
TestTokenService_RequiresSecret verifies that construction refuses an empty
signing secret.
*/
func TestTokenService_RequiresSecret(t *testing.T) {
	_, err := sec.NewTokenService("", testIssuer, 30*time.Minute)
	assert.Error(t, err)
}

/*
TestTokenService_IssueAndVerify verifies the happy path: a freshly issued
token verifies and carries the embedded identity claims.
*/
func TestTokenService_IssueAndVerify(t *testing.T) {
	service, err := sec.NewTokenService("unit-test-secret", testIssuer, 30*time.Minute)
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("user-123", "alice", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
}

/*
TestTokenService_ZeroTTLExpiresImmediately verifies that a token issued with
ttl=0 is already expired at verification time.
*/
func TestTokenService_ZeroTTLExpiresImmediately(t *testing.T) {
	service, err := sec.NewTokenService("unit-test-secret", testIssuer, 0)
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("user-123", "alice", "user")
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsForeignSecret verifies that a token signed with a
different secret never verifies.
*/
func TestTokenService_RejectsForeignSecret(t *testing.T) {
	issuerService, err := sec.NewTokenService("secret-one", testIssuer, 30*time.Minute)
	require.NoError(t, err)

	verifierService, err := sec.NewTokenService("secret-two", testIssuer, 30*time.Minute)
	require.NoError(t, err)

	token, err := issuerService.GenerateAccessToken("user-123", "alice", "user")
	require.NoError(t, err)

	_, err = verifierService.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_RejectsGarbage verifies that malformed token strings are
rejected rather than parsed partially.
*/
func TestTokenService_RejectsGarbage(t *testing.T) {
	service, err := sec.NewTokenService("unit-test-secret", testIssuer, 30*time.Minute)
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := service.VerifyToken(token)
		assert.Error(t, err, "token %q should be rejected", token)
	}
}
