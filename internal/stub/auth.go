package stub

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// issueTokenLocked mints a random bearer token for userID. Caller holds the
// store mutex.
func (s *Store) issueTokenLocked(userID string) (string, error) {
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		if _, taken := s.tokens[token]; taken {
			continue
		}
		s.tokens[token] = userID
		return token, nil
	}
	return "", errors.New("token collision")
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
