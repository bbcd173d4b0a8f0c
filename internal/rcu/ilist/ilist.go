// Package ilist implements the circular, intrusive, sentinel-anchored
// doubly linked list used by the reader registry and by the grace-period
// scanner's transient per-scan buckets.
//
// It is a direct translation of the reader_list / reader_add / reader_del /
// reader_move / reader_splice helpers in the original urcu.c: every
// operation is O(1) and none of them allocate, which matters because the
// scanner moves readers between buckets on every pass of a grace period.
// Membership changes are the caller's responsibility to serialize (the
// registry mutex, in gpengine); List itself does no locking.
package ilist

// Node is one entry in a List. A Node belongs to at most one List at a
// time, or to none (next/prev both nil). Value is never interpreted by
// the list itself.
type Node struct {
	next, prev *Node
	Value      any
}

// List is a circular doubly linked list with a sentinel head node. An
// empty list's sentinel points to itself in both directions.
type List struct {
	sentinel Node
}

// New returns an empty, ready-to-use List.
func New() *List {
	l := &List{}
	l.sentinel.next = &l.sentinel
	l.sentinel.prev = &l.sentinel
	return l
}

// Empty reports whether the list holds no nodes.
func (l *List) Empty() bool {
	return l.sentinel.next == &l.sentinel
}

// PushFront links n into l immediately after the sentinel. n must not
// already belong to a list.
func (l *List) PushFront(n *Node) {
	n.next = l.sentinel.next
	n.prev = &l.sentinel
	l.sentinel.next.prev = n
	l.sentinel.next = n
}

// Remove unlinks n from whichever list it belongs to. It is a no-op if n
// is not currently in any list.
func Remove(n *Node) {
	if n.next == nil {
		return
	}
	n.next.prev = n.prev
	n.prev.next = n.next
	n.next = nil
	n.prev = nil
}

// MoveTo splices n out of its current list and into dst, without
// allocating. n must currently belong to some list.
func MoveTo(n *Node, dst *List) {
	n.next.prev = n.prev
	n.prev.next = n.next

	n.prev = &dst.sentinel
	n.next = dst.sentinel.next
	dst.sentinel.next.prev = n
	dst.sentinel.next = n
}

// Splice moves every node out of src and links them all at the front of
// dst (right after its sentinel), leaving src empty. It is O(1) regardless of how many nodes src holds: unlike
// MoveTo, it relinks the whole chain's two end pointers and never walks
// the interior nodes.
func Splice(src, dst *List) {
	if src.Empty() {
		return
	}
	first := src.sentinel.next
	last := src.sentinel.prev

	last.next = dst.sentinel.next
	dst.sentinel.next.prev = last
	dst.sentinel.next = first
	first.prev = &dst.sentinel

	src.sentinel.next = &src.sentinel
	src.sentinel.prev = &src.sentinel
}

// Each calls fn once for every node currently in l, in list order. fn may
// call MoveTo to relocate the node it was given to a different list: Each
// follows the original `next` pointer captured before fn runs, so moving
// the current node is safe, but moving or removing a *different* node
// during iteration is not.
func (l *List) Each(fn func(n *Node)) {
	n := l.sentinel.next
	for n != &l.sentinel {
		next := n.next
		fn(n)
		n = next
	}
}
