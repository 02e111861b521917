package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInitDataInvalid = errors.New("init data signature mismatch")
	ErrInitDataExpired = errors.New("init data expired")
)

// WebAppUser is the user object Telegram embeds in mini-app init data.
type WebAppUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// VerifyInitData validates a Telegram WebApp initData query string against
// the bot token per Telegram's signing scheme: the data-check string is every
// field except hash, sorted, newline-joined, and signed with
// HMAC-SHA256(HMAC-SHA256("WebAppData", botToken), dataCheckString).
func VerifyInitData(initData, botToken string, maxAge time.Duration) (*WebAppUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrInitDataInvalid
	}
	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, ErrInitDataInvalid
	}
	values.Del("hash")

	pairs := make([]string, 0, len(values))
	for k := range values {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	if !hmac.Equal([]byte(hex.EncodeToString(mac.Sum(nil))), []byte(gotHash)) {
		return nil, ErrInitDataInvalid
	}

	if maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil || time.Since(time.Unix(authDate, 0)) > maxAge {
			return nil, ErrInitDataExpired
		}
	}

	var user WebAppUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return nil, ErrInitDataInvalid
	}
	return &user, nil
}
