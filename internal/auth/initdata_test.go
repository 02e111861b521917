package auth_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"cashpoints/internal/auth"
)

const testBotToken = "123456:TEST-TOKEN"

// signInitData builds a signed initData string the way the Telegram client
// does, so the verifier is tested against the real scheme.
func signInitData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()

	pairs := make([]string, 0, len(fields))
	for k, v := range fields {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func validFields(authDate time.Time) map[string]string {
	return map[string]string{
		"query_id":  "AAH1234",
		"user":      `{"id":925584,"username":"tester","first_name":"Test","last_name":"User"}`,
		"auth_date": fmt.Sprintf("%d", authDate.Unix()),
	}
}

func TestVerifyInitDataValid(t *testing.T) {
	initData := signInitData(t, testBotToken, validFields(time.Now()))

	user, err := auth.VerifyInitData(initData, testBotToken, 24*time.Hour)
	if err != nil {
		t.Fatalf("VerifyInitData: %v", err)
	}
	if user.ID != 925584 || user.Username != "tester" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestVerifyInitDataWrongToken(t *testing.T) {
	initData := signInitData(t, "999999:OTHER-TOKEN", validFields(time.Now()))

	_, err := auth.VerifyInitData(initData, testBotToken, 24*time.Hour)
	if !errors.Is(err, auth.ErrInitDataInvalid) {
		t.Errorf("expected ErrInitDataInvalid, got %v", err)
	}
}

func TestVerifyInitDataTampered(t *testing.T) {
	fields := validFields(time.Now())
	initData := signInitData(t, testBotToken, fields)

	// Swap the user id after signing.
	tampered := strings.Replace(initData, "925584", "111111", 1)
	if tampered == initData {
		t.Fatal("tampering did not change the payload")
	}
	_, err := auth.VerifyInitData(tampered, testBotToken, 24*time.Hour)
	if !errors.Is(err, auth.ErrInitDataInvalid) {
		t.Errorf("expected ErrInitDataInvalid, got %v", err)
	}
}

func TestVerifyInitDataExpired(t *testing.T) {
	initData := signInitData(t, testBotToken, validFields(time.Now().Add(-48*time.Hour)))

	_, err := auth.VerifyInitData(initData, testBotToken, 24*time.Hour)
	if !errors.Is(err, auth.ErrInitDataExpired) {
		t.Errorf("expected ErrInitDataExpired, got %v", err)
	}
}

func TestVerifyInitDataMissingHash(t *testing.T) {
	values := url.Values{}
	for k, v := range validFields(time.Now()) {
		values.Set(k, v)
	}
	_, err := auth.VerifyInitData(values.Encode(), testBotToken, 0)
	if !errors.Is(err, auth.ErrInitDataInvalid) {
		t.Errorf("expected ErrInitDataInvalid, got %v", err)
	}
}
