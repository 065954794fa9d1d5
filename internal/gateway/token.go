package gateway

import (
	"fmt"
	"time"

	"github.com/livekit/protocol/auth"
)

const DefaultTokenTTL = 6 * time.Hour

// TokenService issues LiveKit join tokens. Construction fails when the
// credentials are absent: token issuance strictly requires them, and a
// misconfigured deployment should surface immediately rather than at the
// first join attempt.
type TokenService struct {
	apiKey    string
	apiSecret string
	url       string
	ttl       time.Duration
}

func NewTokenService(apiKey, apiSecret, url string, ttl time.Duration) (*TokenService, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("livekit credentials are not configured")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		url:       url,
		ttl:       ttl,
	}, nil
}

func (s *TokenService) URL() string {
	return s.url
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// GenerateToken mints a join token for the given identity with publish and
// subscribe grants on the room.
func (s *TokenService) GenerateToken(identity, name, room string) (string, error) {
	at := auth.NewAccessToken(s.apiKey, s.apiSecret)

	canPublish := true
	canSubscribe := true
	grant := &auth.VideoGrant{
		RoomJoin:     true,
		Room:         room,
		CanPublish:   &canPublish,
		CanSubscribe: &canSubscribe,
	}

	if name == "" {
		name = identity
	}

	at.SetIdentity(identity).
		SetName(name).
		SetValidFor(s.ttl).
		SetVideoGrant(grant)

	return at.ToJWT()
}
