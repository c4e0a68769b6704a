package services

import (
	"testing"

	"gotours/config"
	"gotours/models"
	"gotours/utils"
)

func TestSignTokenPairClaims(t *testing.T) {
	setupTest(t)
	user := createTestUser(t, "jo@example.com")

	accessToken, refreshToken, err := SignTokenPair(user, "cli-test")
	if err != nil {
		t.Fatalf("SignTokenPair: %v", err)
	}

	access := utils.VerifyAccessToken(accessToken, config.C.Keys.AccessPublic)
	if access == nil {
		t.Fatal("access token does not verify")
	}
	if access.UserID != user.ID {
		t.Errorf("access user claim = %q, want %q", access.UserID, user.ID)
	}

	refresh := utils.VerifyRefreshToken(refreshToken, config.C.Keys.RefreshPublic)
	if refresh == nil {
		t.Fatal("refresh token does not verify")
	}
	if refresh.SessionID != access.SessionID {
		t.Errorf("token pair references different sessions: %q vs %q", refresh.SessionID, access.SessionID)
	}

	session, err := FindSession(access.SessionID)
	if err != nil {
		t.Fatalf("FindSession: %v", err)
	}
	if session == nil || session.UserID != user.ID || !session.Valid {
		t.Fatalf("session row = %+v, want valid session owned by %q", session, user.ID)
	}
	if session.UserAgent != "cli-test" {
		t.Errorf("user agent = %q, want cli-test", session.UserAgent)
	}
}

func TestEachLoginCreatesAFreshSession(t *testing.T) {
	setupTest(t)
	user := createTestUser(t, "jo@example.com")

	a1, _, err := SignTokenPair(user, "device-1")
	if err != nil {
		t.Fatalf("SignTokenPair: %v", err)
	}
	a2, _, err := SignTokenPair(user, "device-2")
	if err != nil {
		t.Fatalf("SignTokenPair: %v", err)
	}

	c1 := utils.VerifyAccessToken(a1, config.C.Keys.AccessPublic)
	c2 := utils.VerifyAccessToken(a2, config.C.Keys.AccessPublic)
	if c1.SessionID == c2.SessionID {
		t.Error("two logins share a session")
	}

	sessions, err := FindSessionsForUser(user.ID)
	if err != nil {
		t.Fatalf("FindSessionsForUser: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
}

func TestReissueAccessToken(t *testing.T) {
	setupTest(t)
	user := createTestUser(t, "jo@example.com")

	origAccess, refreshToken, err := SignTokenPair(user, "")
	if err != nil {
		t.Fatalf("SignTokenPair: %v", err)
	}
	orig := utils.VerifyAccessToken(origAccess, config.C.Keys.AccessPublic)

	first, ok := ReissueAccessToken(refreshToken)
	if !ok {
		t.Fatal("ReissueAccessToken failed for a valid refresh token")
	}
	second, ok := ReissueAccessToken(refreshToken)
	if !ok {
		t.Fatal("second ReissueAccessToken failed")
	}
	if first == second {
		t.Error("two re-issuances produced identical token strings")
	}

	for _, token := range []string{first, second} {
		claims := utils.VerifyAccessToken(token, config.C.Keys.AccessPublic)
		if claims == nil {
			t.Fatal("re-issued token does not verify")
		}
		if claims.SessionID != orig.SessionID || claims.UserID != user.ID {
			t.Errorf("re-issued claims = {user: %q, session: %q}, want {%q, %q}",
				claims.UserID, claims.SessionID, user.ID, orig.SessionID)
		}
	}
}

func TestReissueRejectsBadTokens(t *testing.T) {
	setupTest(t)
	user := createTestUser(t, "jo@example.com")

	accessToken, _, err := SignTokenPair(user, "")
	if err != nil {
		t.Fatalf("SignTokenPair: %v", err)
	}

	if _, ok := ReissueAccessToken("garbage"); ok {
		t.Error("re-issuance accepted a garbage token")
	}
	// An access token must not pass as a refresh token (key-role isolation).
	if _, ok := ReissueAccessToken(accessToken); ok {
		t.Error("re-issuance accepted an access token")
	}
}

func TestReissueRejectsInvalidatedSession(t *testing.T) {
	setupTest(t)
	user := createTestUser(t, "jo@example.com")

	accessToken, refreshToken, err := SignTokenPair(user, "")
	if err != nil {
		t.Fatalf("SignTokenPair: %v", err)
	}
	claims := utils.VerifyAccessToken(accessToken, config.C.Keys.AccessPublic)

	session, err := FindSession(claims.SessionID)
	if err != nil || session == nil {
		t.Fatalf("FindSession: %v, %v", session, err)
	}
	if err := InvalidateSession(session); err != nil {
		t.Fatalf("InvalidateSession: %v", err)
	}

	// The refresh token is still cryptographically valid, but the session is
	// the source of truth.
	if _, ok := ReissueAccessToken(refreshToken); ok {
		t.Error("re-issuance succeeded for an invalidated session")
	}
}

func TestDefaultQueryExcludesInvalidatedSessions(t *testing.T) {
	setupTest(t)
	user := createTestUser(t, "jo@example.com")

	s1, err := CreateSession(user.ID, "device-1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := CreateSession(user.ID, "device-2"); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := InvalidateSession(s1); err != nil {
		t.Fatalf("InvalidateSession: %v", err)
	}

	sessions, err := FindSessionsForUser(user.ID)
	if err != nil {
		t.Fatalf("FindSessionsForUser: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if sessions[0].UserAgent != "device-2" {
		t.Errorf("surviving session = %q, want device-2", sessions[0].UserAgent)
	}

	// The explicit lookup still sees the invalidated session.
	got, err := FindSession(s1.ID)
	if err != nil {
		t.Fatalf("FindSession: %v", err)
	}
	if got == nil {
		t.Fatal("explicit lookup lost the invalidated session")
	}
	if got.Valid {
		t.Error("invalidated session still reads as valid")
	}
}

func TestInvalidationTimestampRules(t *testing.T) {
	setupTest(t)
	user := createTestUser(t, "jo@example.com")

	// A brand-new, never-stored session must not get a timestamp.
	fresh := &models.Session{ID: "unsaved", UserID: user.ID, Valid: true}
	if fresh.Invalidate() {
		t.Error("Invalidate reported a transition on an unsaved session")
	}
	if fresh.InvalidatedAt.Valid {
		t.Error("unsaved session got an invalidation timestamp")
	}

	// A stored session transitioning valid->invalid gets stamped exactly once.
	session, err := CreateSession(user.ID, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.InvalidatedAt.Valid {
		t.Error("freshly created session carries an invalidation timestamp")
	}

	if err := InvalidateSession(session); err != nil {
		t.Fatalf("InvalidateSession: %v", err)
	}
	stored, err := FindSession(session.ID)
	if err != nil || stored == nil {
		t.Fatalf("FindSession: %v, %v", stored, err)
	}
	if !stored.InvalidatedAt.Valid {
		t.Fatal("invalidation did not stamp the timestamp")
	}
	stamp := stored.InvalidatedAt.Time

	// Re-invalidating is a no-op and must not move the timestamp.
	if err := InvalidateSession(stored); err != nil {
		t.Fatalf("repeat InvalidateSession: %v", err)
	}
	again, err := FindSession(session.ID)
	if err != nil || again == nil {
		t.Fatalf("FindSession: %v, %v", again, err)
	}
	if !again.InvalidatedAt.Time.Equal(stamp) {
		t.Errorf("timestamp moved on a no-op invalidation: %v -> %v", stamp, again.InvalidatedAt.Time)
	}
}

func TestFindSessionMissing(t *testing.T) {
	setupTest(t)

	session, err := FindSession("no-such-session")
	if err != nil {
		t.Fatalf("FindSession: %v", err)
	}
	if session != nil {
		t.Errorf("FindSession = %+v, want nil", session)
	}
}

func TestInvalidateSessionsForUser(t *testing.T) {
	setupTest(t)
	user := createTestUser(t, "jo@example.com")
	other := createTestUser(t, "sam@example.com")

	if _, err := CreateSession(user.ID, "a"); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := CreateSession(user.ID, "b"); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := CreateSession(other.ID, "c"); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := InvalidateSessionsForUser(user.ID); err != nil {
		t.Fatalf("InvalidateSessionsForUser: %v", err)
	}

	mine, err := FindSessionsForUser(user.ID)
	if err != nil {
		t.Fatalf("FindSessionsForUser: %v", err)
	}
	if len(mine) != 0 {
		t.Errorf("user still has %d valid sessions", len(mine))
	}

	theirs, err := FindSessionsForUser(other.ID)
	if err != nil {
		t.Fatalf("FindSessionsForUser: %v", err)
	}
	if len(theirs) != 1 {
		t.Errorf("other user's sessions were touched: got %d, want 1", len(theirs))
	}
}
