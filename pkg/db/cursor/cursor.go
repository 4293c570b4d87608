package cursor

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrInvalidFormat    = errors.New("invalid cursor format")
	ErrInvalidSignature = errors.New("invalid cursor signature")
)

// CursorData is the position a page ended at. Items are ordered by sequence,
// so the next page starts strictly after Sequence.
type CursorData struct {
	Sequence int64  `json:"seq"`
	Filter   string `json:"filter,omitempty"`
}

type Codec struct {
	secret []byte
}

func NewCodec(secret string) Codec {
	return Codec{secret: []byte(secret)}
}

func (c Codec) sign(encoded string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (c Codec) Encode(data CursorData) string {
	jsonData, _ := json.Marshal(data)
	encoded := base64.RawURLEncoding.EncodeToString(jsonData)

	return encoded + "." + c.sign(encoded)
}

func (c Codec) Decode(token string) (CursorData, error) {
	var data CursorData

	parts := strings.Split(token, ".")

	if len(parts) != 2 || parts[0] == "" {
		return data, ErrInvalidFormat
	}

	if !hmac.Equal([]byte(parts[1]), []byte(c.sign(parts[0]))) {
		return data, ErrInvalidSignature
	}

	decoded, err := base64.RawURLEncoding.DecodeString(parts[0])

	if err != nil {
		return data, ErrInvalidFormat
	}

	if err := json.Unmarshal(decoded, &data); err != nil {
		return data, ErrInvalidFormat
	}

	return data, nil
}
