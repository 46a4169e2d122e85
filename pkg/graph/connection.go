package graph

import (
	"cmp"
	"fmt"
	"slices"
)

// Connection routes one output pin of a source node to one input pin of a destination node.
type Connection struct {
	SourceNode    NodeID
	SourceChannel int
	DestNode      NodeID
	DestChannel   int
}

// Source returns the output pin.
func (c Connection) Source() Pin {
	return Pin{Node: c.SourceNode, Direction: dirOut, Channel: c.SourceChannel}
}

// Dest returns the input pin.
func (c Connection) Dest() Pin {
	return Pin{Node: c.DestNode, Direction: dirIn, Channel: c.DestChannel}
}

// IsEvent reports whether the connection carries the event stream.
func (c Connection) IsEvent() bool {
	return c.SourceChannel == EventChannel
}

// Touches reports whether id is either end of the connection.
func (c Connection) Touches(id NodeID) bool {
	return c.SourceNode == id || c.DestNode == id
}

func (c Connection) String() string {
	return fmt.Sprintf("%s -> %s", c.Source(), c.Dest())
}

// compareConnections orders by source node, source channel, dest node, dest channel.
func compareConnections(a, b Connection) int {
	if n := cmp.Compare(a.SourceNode, b.SourceNode); n != 0 {
		return n
	}
	if n := cmp.Compare(a.SourceChannel, b.SourceChannel); n != 0 {
		return n
	}
	if n := cmp.Compare(a.DestNode, b.DestNode); n != 0 {
		return n
	}
	return cmp.Compare(a.DestChannel, b.DestChannel)
}

// connectionList is kept sorted by compareConnections.
type connectionList []Connection

func (l connectionList) find(c Connection) (int, bool) {
	return slices.BinarySearchFunc(l, c, compareConnections)
}

func (l connectionList) contains(c Connection) bool {
	_, ok := l.find(c)
	return ok
}

func (l *connectionList) insert(c Connection) bool {
	i, ok := l.find(c)
	if ok {
		return false
	}
	*l = slices.Insert(*l, i, c)
	return true
}

func (l *connectionList) remove(c Connection) bool {
	i, ok := l.find(c)
	if !ok {
		return false
	}
	*l = slices.Delete(*l, i, i+1)
	return true
}

// removeIf drops every connection matching pred and returns the dropped ones.
func (l *connectionList) removeIf(pred func(Connection) bool) []Connection {
	var dropped []Connection
	kept := (*l)[:0]
	for _, c := range *l {
		if pred(c) {
			dropped = append(dropped, c)
			continue
		}
		kept = append(kept, c)
	}
	clear((*l)[len(kept):])
	*l = kept
	return dropped
}

// from returns the connections leaving id, using the sort order.
func (l connectionList) from(id NodeID) []Connection {
	start, _ := slices.BinarySearchFunc(l, id, func(c Connection, id NodeID) int {
		return cmp.Compare(c.SourceNode, id)
	})
	end := start
	for end < len(l) && l[end].SourceNode == id {
		end++
	}
	return l[start:end]
}

// feeds reports whether some connection already targets the input pin.
func (l connectionList) feeds(dst NodeID, dstChannel int) bool {
	for _, c := range l {
		if c.DestNode == dst && c.DestChannel == dstChannel {
			return true
		}
	}
	return false
}

// reaches reports whether to can be reached from from by following existing
// connections forward. Each connection is visited at most once.
func (l connectionList) reaches(from, to NodeID) bool {
	visited := map[NodeID]bool{from: true}
	stack := []NodeID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == to {
			return true
		}
		for _, c := range l.from(id) {
			if !visited[c.DestNode] {
				visited[c.DestNode] = true
				stack = append(stack, c.DestNode)
			}
		}
	}
	return false
}
