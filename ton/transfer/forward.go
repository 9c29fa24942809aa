package transfer

import (
	"fmt"

	"github.com/tonbot-team/tonkit/address"
	"github.com/tonbot-team/tonkit/tlb"
	"github.com/tonbot-team/tonkit/tvm/cell"
)

// Forward is the part of body shared by jetton and nft transfers.
type Forward struct {
	Recipient           *address.Address
	ResponseDestination *address.Address
	CustomPayload       *cell.Cell
	ForwardTONAmount    tlb.Coins
	ForwardPayload      *cell.Cell
	// Comment is set when forward payload is a text comment.
	Comment string
}

// writeAddressAndForward stores recipient, response destination, empty custom payload,
// forward amount in TON and optional text comment as a ref.
func writeAddressAndForward(b *cell.Builder, recipient, responseDestination, forwardTONAmount, comment string) error {
	to, err := parseRequiredAddr("recipient", recipient)
	if err != nil {
		return err
	}

	resp, err := parseRequiredAddr("response destination", responseDestination)
	if err != nil {
		return err
	}

	if forwardTONAmount == "" {
		forwardTONAmount = "0"
	}
	fwd, err := tlb.FromTON(forwardTONAmount)
	if err != nil {
		return fmt.Errorf("%w: forward ton amount: %v", ErrInvalidAmount, err)
	}

	if err = b.StoreAddr(to); err != nil {
		return fmt.Errorf("failed to store recipient: %w", err)
	}
	if err = b.StoreAddr(resp); err != nil {
		return fmt.Errorf("failed to store response destination: %w", err)
	}

	// no custom payload
	if err = b.StoreBoolBit(false); err != nil {
		return err
	}

	if err = b.StoreBigCoins(fwd.Nano()); err != nil {
		return fmt.Errorf("failed to store forward amount: %w", err)
	}

	if comment == "" {
		return b.StoreBoolBit(false)
	}

	body, err := tlb.Comment{Text: comment}.ToCell()
	if err != nil {
		return fmt.Errorf("failed to build comment: %w", err)
	}
	if body.RefsNum() > 0 {
		Logger("forward comment of", len(comment), "bytes continues in snake cells")
	}

	if err = b.StoreMaybeRef(body); err != nil {
		return fmt.Errorf("failed to store comment: %w", err)
	}
	return nil
}

func parseRequiredAddr(name, addr string) (*address.Address, error) {
	if addr == "" {
		return nil, fmt.Errorf("%w: %s address is empty", ErrInvalidArgument, name)
	}

	a, err := address.ParseAddr(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s address: %w", name, err)
	}
	return a, nil
}

func readAddressAndForward(s *cell.Slice) (*Forward, error) {
	to, err := s.LoadAddr()
	if err != nil {
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}

	resp, err := s.LoadAddr()
	if err != nil {
		return nil, fmt.Errorf("failed to load response destination: %w", err)
	}

	custom, err := s.LoadMaybeRef()
	if err != nil {
		return nil, fmt.Errorf("failed to load custom payload: %w", err)
	}

	fwd, err := s.LoadBigCoins()
	if err != nil {
		return nil, fmt.Errorf("failed to load forward amount: %w", err)
	}

	f := &Forward{
		Recipient:           to,
		ResponseDestination: resp,
		ForwardTONAmount:    tlb.MustFromNano(fwd, 9),
	}

	if custom != nil {
		if f.CustomPayload, err = sliceToCell(custom); err != nil {
			return nil, fmt.Errorf("failed to load custom payload: %w", err)
		}
	}

	isRef, err := s.LoadBoolBit()
	if err != nil {
		return nil, fmt.Errorf("failed to load forward payload flag: %w", err)
	}

	if isRef {
		f.ForwardPayload, err = s.LoadRefCell()
		if err != nil {
			return nil, fmt.Errorf("failed to load forward payload ref: %w", err)
		}
	} else if s.BitsLeft() > 0 || s.RefsNum() > 0 {
		f.ForwardPayload, err = sliceToCell(s)
		if err != nil {
			return nil, fmt.Errorf("failed to load inline forward payload: %w", err)
		}
	}

	if f.ForwardPayload != nil {
		// binary payloads are kept as is
		var cm tlb.Comment
		if err = cm.LoadFromCell(f.ForwardPayload.BeginParse()); err == nil {
			f.Comment = cm.Text
		}
	}

	return f, nil
}

// sliceToCell consumes the rest of slice into a new cell.
func sliceToCell(s *cell.Slice) (*cell.Cell, error) {
	sz, data, err := s.RestBits()
	if err != nil {
		return nil, err
	}

	b := cell.BeginCell()
	if err = b.StoreSlice(data, sz); err != nil {
		return nil, err
	}

	for s.RefsNum() > 0 {
		ref, err := s.LoadRefCell()
		if err != nil {
			return nil, err
		}
		if err = b.StoreRef(ref); err != nil {
			return nil, err
		}
	}
	return b.EndCell(), nil
}
