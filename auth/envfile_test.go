package auth

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

func TestUpdateEnvFileKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := UpdateEnvFile(path, map[string]string{XAPIKey: "key", XAccessToken: "old"}); err != nil {
		t.Fatalf("UpdateEnvFile() error = %v", err)
	}
	if err := UpdateEnvFile(path, map[string]string{XAccessToken: "new"}); err != nil {
		t.Fatalf("UpdateEnvFile() error = %v", err)
	}

	got, err := godotenv.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{XAPIKey: "key", XAccessToken: "new"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("env mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	if err := SaveToken(path, XOAuth2Keys, &oauth2.Token{}); err == nil {
		t.Fatal("expected error for empty token")
	}
	if err := SaveToken(path, XOAuth2Keys, &oauth2.Token{AccessToken: "a1", RefreshToken: "r1"}); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}
	if err := SaveToken(path, XOAuth2Keys, &oauth2.Token{AccessToken: "a2"}); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}

	got, err := godotenv.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{XOAuth2AccessToken: "a2", XOAuth2RefreshToken: "r1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("env mismatch (-want +got):\n%s", diff)
	}
}
