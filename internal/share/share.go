// Package share publishes chart snapshots under short codes that another
// clinician can redeem.
package share

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"

	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/store"
)

// DefaultTTL is how long a share code stays redeemable.
const DefaultTTL = 7 * 24 * time.Hour

const codeBytes = 8

// ErrUnknownCode is returned for malformed, unknown and expired codes.
var ErrUnknownCode = errors.New("unknown or expired share code")

// Service creates and redeems share codes.
type Service struct {
	kv   store.KV
	ttl  time.Duration
	rand io.Reader
}

// New returns a service storing snapshots in kv. A ttl of zero uses
// DefaultTTL.
func New(kv store.KV, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{kv: kv, ttl: ttl, rand: rand.Reader}
}

func key(code string) string { return "share:" + code }

// Share stores a snapshot of c and returns its code.
func (s *Service) Share(ctx context.Context, c *chart.Chart) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "encode chart")
	}
	buf := make([]byte, codeBytes)
	if _, err := io.ReadFull(s.rand, buf); err != nil {
		return "", errors.Wrap(err, "generate share code")
	}
	code := base58.Encode(buf)
	if err := s.kv.Put(ctx, key(code), data, s.ttl); err != nil {
		return "", errors.Wrap(err, "store shared chart")
	}
	return code, nil
}

// Redeem returns a copy of the shared chart with a new ID. The code stays
// valid until it expires.
func (s *Service) Redeem(ctx context.Context, code string) (*chart.Chart, error) {
	code = strings.TrimSpace(code)
	if raw, err := base58.Decode(code); err != nil || len(raw) == 0 {
		return nil, errors.WithHint(ErrUnknownCode, "share codes use the base58 alphabet")
	}
	data, err := s.kv.Get(ctx, key(code))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnknownCode
	}
	if err != nil {
		return nil, errors.Wrap(err, "load shared chart")
	}

	var c chart.Chart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "decode shared chart")
	}
	cp := c.Clone()
	cp.ID = uuid.NewString()
	now := time.Now().UTC()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	return cp, nil
}
