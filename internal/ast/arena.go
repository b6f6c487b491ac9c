package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena хранит узлы одного вида. Индексы 1-based, 0: "нет узла".
// Каждый слот знает, жив ли он: Free на мёртвом слоте: нарушение владения.
type Arena[T any] struct {
	data []T
	live []bool
	n    int
}

// NewArena creates an arena with room for capHint nodes.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
		live: make([]bool, 0, capHint),
	}
}

// Возвращает индекс нового элемента (1-based).
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	a.live = append(a.live, true)
	a.n++
	idx, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return idx
}

// Get returns the node at index, nil for 0, out-of-range or freed slots.
func (a *Arena[T]) Get(index uint32) *T {
	if !a.IsLive(index) {
		return nil
	}
	return &a.data[index-1]
}

func (a *Arena[T]) IsLive(index uint32) bool {
	return index != 0 && int(index) <= len(a.data) && a.live[index-1]
}

// Free releases the slot. Freeing a dead slot panics.
func (a *Arena[T]) Free(index uint32) {
	if !a.IsLive(index) {
		panic(fmt.Sprintf("ast: double free or invalid index %d", index))
	}
	var zero T
	a.data[index-1] = zero
	a.live[index-1] = false
	a.n--
}

// Live is the number of allocated, not yet freed slots.
func (a *Arena[T]) Live() int {
	return a.n
}

// Len is the number of slots ever allocated.
func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data)) // #nosec G115 -- bounded by Allocate
}
