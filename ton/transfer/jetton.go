package transfer

import (
	"fmt"
	"math/big"

	"github.com/tonbot-team/tonkit/tvm/cell"
)

type JettonTransferParams struct {
	Recipient string
	// Amount in the smallest jetton units.
	Amount              *big.Int
	ResponseDestination string
	// ForwardTONAmount in TON, "0" when empty.
	ForwardTONAmount string
	ForwardMessage   string
}

type JettonTransfer struct {
	QueryID uint64
	Amount  *big.Int
	Forward
}

func (b *Builder) BuildJettonTransfer(p JettonTransferParams) (string, error) {
	body, err := b.BuildJettonTransferCell(p)
	if err != nil {
		return "", err
	}
	return toBase64(body), nil
}

// BuildJettonTransferCell builds transfer#0f8a7ea5 body with zero query id.
func (b *Builder) BuildJettonTransferCell(p JettonTransferParams) (*cell.Cell, error) {
	if p.Amount == nil || p.Amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: jetton amount should be non negative integer", ErrInvalidAmount)
	}

	body := cell.BeginCell().
		MustStoreUInt(OpJettonTransfer, 32).
		MustStoreUInt(0, 64)

	if err := body.StoreBigCoins(p.Amount); err != nil {
		return nil, fmt.Errorf("%w: jetton amount %s: %v", ErrInvalidAmount, p.Amount, err)
	}

	err := writeAddressAndForward(body, p.Recipient, p.ResponseDestination, p.ForwardTONAmount, p.ForwardMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to build jetton transfer: %w", err)
	}

	return body.EndCell(), nil
}

// ParseJettonTransfer decodes base64 BOC of jetton transfer body.
func ParseJettonTransfer(payload string) (*JettonTransfer, error) {
	c, err := fromBase64(payload)
	if err != nil {
		return nil, err
	}
	return ParseJettonTransferCell(c)
}

func ParseJettonTransferCell(c *cell.Cell) (*JettonTransfer, error) {
	s := c.BeginParse()

	op, err := s.LoadUInt(32)
	if err != nil {
		return nil, fmt.Errorf("failed to load opcode: %w", err)
	}
	if op != OpJettonTransfer {
		return nil, fmt.Errorf("%w: %x, want %x", ErrUnexpectedOpcode, op, OpJettonTransfer)
	}

	queryID, err := s.LoadUInt(64)
	if err != nil {
		return nil, fmt.Errorf("failed to load query id: %w", err)
	}

	amount, err := s.LoadBigCoins()
	if err != nil {
		return nil, fmt.Errorf("failed to load amount: %w", err)
	}

	fwd, err := readAddressAndForward(s)
	if err != nil {
		return nil, err
	}

	return &JettonTransfer{
		QueryID: queryID,
		Amount:  amount,
		Forward: *fwd,
	}, nil
}
