package cell

import (
	"sort"
)

type idxItem struct {
	index uint64
	cell  *Cell
}

// flattenIndex orders unique cells of the tree so that every reference
// points forward, roots come first.
func flattenIndex(cells []*Cell) ([]*idxItem, map[string]*idxItem) {
	index := map[string]*idxItem{}
	var ordered []*idxItem

	idx := uint64(0)
	for len(cells) > 0 {
		next := make([]*Cell, 0, len(cells)*4)
		for _, p := range cells {
			hash := string(p.Hash())

			if _, ok := index[hash]; ok {
				continue
			}

			item := &idxItem{
				cell:  p,
				index: idx,
			}
			index[hash] = item
			ordered = append(ordered, item)

			idx++
			next = append(next, p.refs...)
		}
		cells = next
	}

	for verifyOrder := true; verifyOrder; {
		verifyOrder = false

		for _, id := range ordered {
			for _, ref := range id.cell.refs {
				idRef := index[string(ref.Hash())]

				if idRef.index < id.index {
					// if we found that ref index is behind parent,
					// move ref index forward
					idRef.index = idx
					idx++

					// we changed index, so we need to verify order again
					verifyOrder = true
				}
			}
		}
	}

	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].index < ordered[j].index
	})

	for i, id := range ordered {
		// remove gaps in indexes
		id.index = uint64(i)
	}

	return ordered, index
}
