package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalid covers malformed tokens and bad signatures.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired covers structurally valid tokens past their lifetime.
	ErrExpired = errors.New("token expired")
)

// Claims is the payload carried by a room token.
type Claims struct {
	RoomID    string `json:"id"`
	ClassID   string `json:"classId"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
	jwt.RegisteredClaims
}

// Codec issues and verifies signed, time-bound room tokens.
type Codec struct {
	key []byte
	now func() time.Time // mockable
}

// NewCodec creates a codec signing with the given process-wide secret.
func NewCodec(signingKey string) *Codec {
	return NewCodecAt(signingKey, time.Now)
}

// NewCodecAt creates a codec with an explicit clock.
func NewCodecAt(signingKey string, now func() time.Time) *Codec {
	return &Codec{key: []byte(signingKey), now: now}
}

// Issue returns a signed token for the room, valid for ttl from now,
// along with its issuance time.
func (c *Codec) Issue(roomID, classID string, ttl time.Duration) (string, time.Time, error) {
	issuedAt := c.now()
	claims := Claims{
		RoomID:    roomID,
		ClassID:   classID,
		CreatedAt: issuedAt.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

// Verify checks signature then expiry and returns the embedded claims.
// Failures map to ErrInvalid or ErrExpired; the two stay distinct for
// logging and tests even though clients see the same rejection.
func (c *Codec) Verify(tokenStr string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.key, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalid
	}
	return *claims, nil
}
