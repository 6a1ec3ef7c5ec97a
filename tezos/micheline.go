package tezos

import (
	"bytes"
	"encoding/json"
)

// node is a Micheline expression as returned by the node RPC. Seq is non-nil
// for sequences, including the empty one.
type node struct {
	Prim   string
	Args   []node
	String *string
	Bytes  string
	Int    string
	Seq    []node
}

func (n *node) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &n.Seq)
	}

	var obj struct {
		Prim   string  `json:"prim"`
		Args   []node  `json:"args"`
		String *string `json:"string"`
		Bytes  string  `json:"bytes"`
		Int    string  `json:"int"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	n.Prim = obj.Prim
	n.Args = obj.Args
	n.String = obj.String
	n.Bytes = obj.Bytes
	n.Int = obj.Int

	return nil
}

// matchesKey reports whether n is the Micheline form of an address, either
// readable (string) or optimized (bytes).
func (n *node) matchesKey(address string, binary []byte) bool {
	if n.String != nil {
		return *n.String == address
	}

	if n.Bytes != "" && binary != nil {
		return n.Bytes == hexString(binary)
	}

	return false
}

// boolValue reads a Michelson bool.
func (n *node) boolValue() (bool, bool) {
	switch n.Prim {
	case "True":
		return true, true
	case "False":
		return false, true
	default:
		return false, false
	}
}

// describe names the shape of n for error messages.
func (n *node) describe() string {
	switch {
	case n.Prim != "":
		return "prim " + n.Prim
	case n.String != nil:
		return "string"
	case n.Bytes != "":
		return "bytes"
	case n.Int != "":
		return "int"
	case n.Seq != nil:
		return "sequence"
	default:
		return "empty node"
	}
}

// children calls fn on every direct sub-expression of n.
func (n *node) children(fn func(*node) bool) bool {
	for i := range n.Args {
		if fn(&n.Args[i]) {
			return true
		}
	}
	for i := range n.Seq {
		if fn(&n.Seq[i]) {
			return true
		}
	}
	return false
}

// findElt walks n for the map entry Elt <address> <value> and returns its value.
func (n *node) findElt(address string, binary []byte) (*node, bool) {
	if n.Prim == "Elt" && len(n.Args) == 2 && n.Args[0].matchesKey(address, binary) {
		return &n.Args[1], true
	}

	var (
		value *node
		found bool
	)
	n.children(func(c *node) bool {
		value, found = c.findElt(address, binary)
		return found
	})

	return value, found
}

// hasMap reports whether n holds an in-storage map: a sequence that is empty
// or made of Elt entries.
func (n *node) hasMap() bool {
	if n.Seq != nil && (len(n.Seq) == 0 || n.Seq[0].Prim == "Elt") {
		return true
	}

	return n.children(func(c *node) bool { return c.hasMap() })
}

// ints collects the int literals of n. A big_map appears in storage as its int id.
func (n *node) ints() []string {
	var out []string
	if n.Int != "" {
		out = append(out, n.Int)
	}
	n.children(func(c *node) bool {
		out = append(out, c.ints()...)
		return false
	})
	return out
}
