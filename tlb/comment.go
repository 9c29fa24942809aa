package tlb

import (
	"errors"
	"fmt"

	"github.com/tonbot-team/tonkit/tvm/cell"
)

// CommentOpcode is the 32 bit prefix of a text comment body.
const CommentOpcode = 0

var ErrNotComment = errors.New("not a text comment")

// Comment is a text comment cell: 32 zero bits and utf-8 text as a snake string.
type Comment struct {
	Text string
}

func (c *Comment) LoadFromCell(loader *cell.Slice) error {
	op, err := loader.LoadUInt(32)
	if err != nil {
		return fmt.Errorf("failed to load comment prefix: %w", err)
	}
	if op != CommentOpcode {
		return fmt.Errorf("%w: prefix %x", ErrNotComment, op)
	}

	str, err := loader.LoadStringSnake()
	if err != nil {
		return fmt.Errorf("failed to load comment text: %w", err)
	}

	c.Text = str
	return nil
}

func (c Comment) ToCell() (*cell.Cell, error) {
	b := cell.BeginCell().MustStoreUInt(CommentOpcode, 32)
	if err := b.StoreStringSnake(c.Text); err != nil {
		return nil, fmt.Errorf("failed to store comment text: %w", err)
	}
	return b.EndCell(), nil
}
