package repository

import (
	"hash/fnv"
)

// rankIndex is a treap ordered by rating DESC, then team id ASC, so in-order
// traversal yields the power rankings. Subtree sizes give O(log n) ranks.
//
// Priorities are a hash of the id: deterministic across runs and unrelated to
// the key order, which keeps the tree balanced in expectation.
type rankIndex struct {
	root *node
}

type node struct {
	id     string
	rating float64
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// before reports whether (aRating, aID) ranks ahead of (bRating, bID).
func before(aRating float64, aID string, bRating float64, bID string) bool {
	if aRating != bRating {
		return aRating > bRating
	}
	return aID < bID
}

func priority(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func (ix *rankIndex) insert(id string, rating float64) {
	ix.root = insert(ix.root, id, rating)
}

func (ix *rankIndex) remove(id string, rating float64) {
	ix.root = remove(ix.root, id, rating)
}

func (ix *rankIndex) len() int { return nsize(ix.root) }

func insert(n *node, id string, rating float64) *node {
	if n == nil {
		return &node{id: id, rating: rating, prio: priority(id), size: 1}
	}
	if before(rating, id, n.rating, n.id) {
		n.left = insert(n.left, id, rating)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, rating)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func remove(n *node, id string, rating float64) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.id == id && n.rating == rating:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = remove(n.right, id, rating)
		} else {
			n = rotateLeft(n)
			n.left = remove(n.left, id, rating)
		}
	case before(rating, id, n.rating, n.id):
		n.left = remove(n.left, id, rating)
	default:
		n.right = remove(n.right, id, rating)
	}
	fix(n)
	return n
}

// above counts entries with a rating strictly greater than rating.
func (ix *rankIndex) above(rating float64) int {
	count := 0
	for n := ix.root; n != nil; {
		if n.rating > rating {
			count += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// top visits up to limit entries in rank order.
func (ix *rankIndex) top(limit int, visit func(id string, rating float64)) {
	seen := 0
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil || seen >= limit {
			return
		}
		walk(n.left)
		if seen < limit {
			visit(n.id, n.rating)
			seen++
		}
		walk(n.right)
	}
	walk(ix.root)
}
