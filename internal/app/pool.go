package app

import (
	"github.com/google/btree"
	"github.com/meshplus/ethbridge/internal/runtime"
)

// Pool holds blocks that arrived ahead of their predecessor and releases
// them in number order.
type Pool struct {
	blocks *btree.BTree
	index  uint64 // number of the last released block
}

type poolItem struct {
	block *runtime.Block
}

func (p *poolItem) Less(item btree.Item) bool {
	return p.block.Number < item.(*poolItem).block.Number
}

func NewPool(index uint64) *Pool {
	return &Pool{
		blocks: btree.New(4),
		index:  index,
	}
}

// Add inserts block and returns the run of blocks now contiguous with the
// last released one. A later block with the same number replaces an earlier
// one still waiting.
func (p *Pool) Add(block *runtime.Block) []*runtime.Block {
	if block.Number <= p.index {
		return nil
	}
	p.blocks.ReplaceOrInsert(&poolItem{block: block})

	var ready []*runtime.Block
	for item := p.blocks.Min(); item != nil; item = p.blocks.Min() {
		next := item.(*poolItem).block
		if next.Number != p.index+1 {
			break
		}
		p.blocks.DeleteMin()
		p.index++
		ready = append(ready, next)
	}
	return ready
}

func (p *Pool) Index() uint64 {
	return p.index
}

// Len returns the number of waiting blocks
func (p *Pool) Len() int {
	return p.blocks.Len()
}
