package auth

import "testing"

func TestNewClientCredentials(t *testing.T) {
	creds, err := NewClientCredentials()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(creds.ClientID) != clientIDLength {
		t.Fatalf("expected client_id length %d, got %d", clientIDLength, len(creds.ClientID))
	}
	if len(creds.ClientSecret) != clientSecretLength {
		t.Fatalf("expected client_secret length %d, got %d", clientSecretLength, len(creds.ClientSecret))
	}
	if err := VerifyClientSecret(creds.ClientSecretHash, creds.ClientSecret); err != nil {
		t.Fatalf("secret does not verify against its own hash: %v", err)
	}
	if err := VerifyClientSecret(creds.ClientSecretHash, "wrong-secret"); err == nil {
		t.Fatalf("expected rejection of wrong secret")
	}
}

func TestChallengeApp(t *testing.T) {
	creds, err := NewClientCredentials()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	acct := &Account{
		Username:         "ingest-bot",
		Kind:             AccountKindApp,
		ClientID:         creds.ClientID,
		ClientSecretHash: creds.ClientSecretHash,
		Active:           true,
	}

	if !ChallengeApp(acct, creds.ClientID, creds.ClientSecret) {
		t.Fatalf("expected challenge to pass")
	}
	if ChallengeApp(acct, "other-id", creds.ClientSecret) {
		t.Fatalf("expected wrong client_id to fail")
	}
	if ChallengeApp(acct, creds.ClientID, "wrong-secret") {
		t.Fatalf("expected wrong secret to fail")
	}

	human := &Account{Username: "wanjiku", Kind: AccountKindHuman}
	if ChallengeApp(human, creds.ClientID, creds.ClientSecret) {
		t.Fatalf("expected human account to fail app challenge")
	}
	if ChallengeApp(nil, creds.ClientID, creds.ClientSecret) {
		t.Fatalf("expected nil account to fail")
	}
}

func TestVerifyClientSecretRejectsMalformedHash(t *testing.T) {
	if err := VerifyClientSecret("not-a-phc-string", "secret"); err == nil {
		t.Fatalf("expected malformed hash to fail")
	}
	if err := VerifyClientSecret("$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA", "secret"); err == nil {
		t.Fatalf("expected non-argon2id hash to fail")
	}
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := VerifyPassword(hash, "correct horse battery"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := VerifyPassword(hash, "wrong password"); err == nil {
		t.Fatalf("expected wrong password to fail")
	}
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected empty password to fail")
	}
}
