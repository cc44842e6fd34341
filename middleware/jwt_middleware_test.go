package middleware

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func TestBlacklistConcurrentAccess(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		token := fmt.Sprintf("concurrent-token-%d", i)
		wg.Add(2)
		go func(tok string) {
			defer wg.Done()
			<-start
			for j := 0; j < 200; j++ {
				BlacklistToken(tok, expiry)
			}
		}(token)
		go func(tok string) {
			defer wg.Done()
			<-start
			for j := 0; j < 200; j++ {
				IsTokenBlacklisted(tok)
			}
		}(token)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		for j := 0; j < 50; j++ {
			purgeBlacklistedTokens(time.Now())
		}
	}()

	close(start)
	wg.Wait()

	if !IsTokenBlacklisted("concurrent-token-0") {
		t.Fatal("unexpired entry should survive concurrent sweeps")
	}
}

func TestPurgeDropsOnlyExpiredEntries(t *testing.T) {
	BlacklistToken("stale-token", time.Now().Add(-time.Minute))
	BlacklistToken("fresh-token", time.Now().Add(time.Hour))

	purgeBlacklistedTokens(time.Now())

	if IsTokenBlacklisted("stale-token") {
		t.Fatal("expired entry should be purged")
	}
	if !IsTokenBlacklisted("fresh-token") {
		t.Fatal("live entry should survive the purge")
	}
}

func TestGenerateJWTSetsExpiry(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	access, refresh, err := GenerateJWT("64b64ce8f1a2b3c4d5e6f7a8", "user@example.com", "candidate")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	parse := func(raw string) *JwtCustomClaims {
		token, err := jwt.ParseWithClaims(raw, &JwtCustomClaims{}, func(*jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		return token.Claims.(*JwtCustomClaims)
	}

	accessClaims := parse(access)
	if accessClaims.ExpiresAt == 0 {
		t.Fatal("access token must carry an expiry")
	}
	if accessClaims.UserType != "candidate" {
		t.Fatalf("unexpected user type %q", accessClaims.UserType)
	}

	refreshClaims := parse(refresh)
	if refreshClaims.ExpiresAt <= accessClaims.ExpiresAt {
		t.Fatal("refresh token should outlive the access token")
	}
}

func TestClaimsValidRejectsExpired(t *testing.T) {
	expired := JwtCustomClaims{
		UserID: "64b64ce8f1a2b3c4d5e6f7a8",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		},
	}
	if err := expired.Valid(); err == nil {
		t.Fatal("expired claims should fail validation")
	}

	live := JwtCustomClaims{
		UserID: "64b64ce8f1a2b3c4d5e6f7a8",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
	if err := live.Valid(); err != nil {
		t.Fatalf("live claims should pass validation, got %v", err)
	}
}
