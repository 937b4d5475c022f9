package sign

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSecret = errors.New("signing secret is not configured")

// ChatClaims binds a chat id to the two parties it was minted for.
type ChatClaims struct {
	SenderKey   string `json:"spk"`
	ReceiverKey string `json:"rpk"`
	MintedAt    int64  `json:"tms"`
	jwt.RegisteredClaims
}

// Signer mints and verifies chat room identifiers. A chat id is an HS256
// token over the two participant keys, so the same pair always maps back to a
// verifiable identifier without any room storage.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Signer{secret: []byte(secret)}, nil
}

// MintChatID creates a signed chat id for the (sender, receiver) pair.
func (s *Signer) MintChatID(senderKey, receiverKey string) (string, error) {
	claims := ChatClaims{
		SenderKey:   senderKey,
		ReceiverKey: receiverKey,
		MintedAt:    time.Now().UnixMilli(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyChatID checks the signature and returns the claims the id was minted
// with.
func (s *Signer) VerifyChatID(chatID string) (*ChatClaims, error) {
	token, err := jwt.ParseWithClaims(chatID, &ChatClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse chat id: %w", err)
	}

	claims, ok := token.Claims.(*ChatClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid chat id claims")
	}

	return claims, nil
}
