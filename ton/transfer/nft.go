package transfer

import (
	"fmt"

	"github.com/tonbot-team/tonkit/tvm/cell"
)

type NftTransferParams struct {
	// Recipient is the new owner.
	Recipient           string
	ResponseDestination string
	// ForwardTONAmount in TON, "0" when empty.
	ForwardTONAmount string
	ForwardMessage   string
}

type NftTransfer struct {
	QueryID uint64
	Forward
}

func (b *Builder) BuildNftTransfer(p NftTransferParams) (string, error) {
	body, err := b.BuildNftTransferCell(p)
	if err != nil {
		return "", err
	}
	return toBase64(body), nil
}

// BuildNftTransferCell builds transfer#5fcc3d14 body, query id is derived from clock.
func (b *Builder) BuildNftTransferCell(p NftTransferParams) (*cell.Cell, error) {
	body := cell.BeginCell().
		MustStoreUInt(OpNftTransfer, 32).
		MustStoreUInt(b.queryID(), 64)

	err := writeAddressAndForward(body, p.Recipient, p.ResponseDestination, p.ForwardTONAmount, p.ForwardMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to build nft transfer: %w", err)
	}

	return body.EndCell(), nil
}

// ParseNftTransfer decodes base64 BOC of nft transfer body.
func ParseNftTransfer(payload string) (*NftTransfer, error) {
	c, err := fromBase64(payload)
	if err != nil {
		return nil, err
	}
	return ParseNftTransferCell(c)
}

func ParseNftTransferCell(c *cell.Cell) (*NftTransfer, error) {
	s := c.BeginParse()

	op, err := s.LoadUInt(32)
	if err != nil {
		return nil, fmt.Errorf("failed to load opcode: %w", err)
	}
	if op != OpNftTransfer {
		return nil, fmt.Errorf("%w: %x, want %x", ErrUnexpectedOpcode, op, OpNftTransfer)
	}

	queryID, err := s.LoadUInt(64)
	if err != nil {
		return nil, fmt.Errorf("failed to load query id: %w", err)
	}

	fwd, err := readAddressAndForward(s)
	if err != nil {
		return nil, err
	}

	return &NftTransfer{
		QueryID: queryID,
		Forward: *fwd,
	}, nil
}
