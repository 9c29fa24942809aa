package transfer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/tonbot-team/tonkit/tvm/cell"
)

const (
	OpJettonTransfer uint64 = 0x0f8a7ea5
	OpNftTransfer    uint64 = 0x5fcc3d14
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnexpectedOpcode = errors.New("unexpected opcode")
)

// Logger is called on notable conditions, set it to log.Println to see them.
var Logger = func(v ...any) {}

// Builder builds transfer message bodies. It is safe for concurrent use
// when its random source is.
type Builder struct {
	now  func() time.Time
	intn func(n int) int
}

// Option configures Builder.
type Option func(*Builder)

// WithClock sets time source of nft query ids, default time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithRandom sets random source of nft query ids, intn must return a value in [0, n).
// Default is math/rand Intn.
func WithRandom(intn func(n int) int) Option {
	return func(b *Builder) {
		b.intn = intn
	}
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		now:  time.Now,
		intn: rand.Intn,
	}

	for _, opt := range opts {
		opt(b)
	}
	return b
}

var defaultBuilder = NewBuilder()

// BuildJettonTransfer returns base64 BOC of jetton transfer body.
func BuildJettonTransfer(p JettonTransferParams) (string, error) {
	return defaultBuilder.BuildJettonTransfer(p)
}

// BuildNftTransfer returns base64 BOC of nft transfer body.
func BuildNftTransfer(p NftTransferParams) (string, error) {
	return defaultBuilder.BuildNftTransfer(p)
}

func toBase64(c *cell.Cell) string {
	return base64.StdEncoding.EncodeToString(c.ToBOC())
}

func fromBase64(payload string) (*cell.Cell, error) {
	boc, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: payload is not base64: %v", ErrInvalidArgument, err)
	}

	c, err := cell.FromBOC(boc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payload boc: %w", err)
	}
	return c, nil
}

// queryID is unix millis * 1024 plus random residual.
func (b *Builder) queryID() uint64 {
	return uint64(b.now().UnixMilli())*1024 + uint64(b.intn(1024))
}
