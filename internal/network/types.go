package network

import (
	"errors"
	"slices"
	"strings"
)

// Sentinel errors.
var (
	// ErrNoData means the payload held nothing a network can be built from.
	ErrNoData = errors.New("no network data")
	// ErrNodeNotFound is returned by lookups for unknown ids.
	ErrNodeNotFound = errors.New("node not found")
)

// FocusNeighbors is how many similar perfumes join the selected one in the focus set.
const FocusNeighbors = 5

// NodeKind distinguishes perfume nodes from accord nodes.
type NodeKind int

const (
	KindPerfume NodeKind = iota
	KindAccord
)

// String returns the wire name of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindPerfume:
		return "perfume"
	case KindAccord:
		return "accord"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by wire name.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// RegisterStatus marks a perfume's place in the viewing member's collection.
type RegisterStatus int

const (
	StatusNone RegisterStatus = iota
	StatusHave
	StatusWant
	StatusHad
	StatusRecommended
)

// ParseRegisterStatus maps a wire value to a status. Unknown values are StatusNone.
func ParseRegisterStatus(s string) RegisterStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HAVE":
		return StatusHave
	case "WANT":
		return StatusWant
	case "HAD":
		return StatusHad
	case "RECOMMENDED":
		return StatusRecommended
	default:
		return StatusNone
	}
}

// String returns the wire value, empty for StatusNone.
func (s RegisterStatus) String() string {
	switch s {
	case StatusHave:
		return "HAVE"
	case StatusWant:
		return "WANT"
	case StatusHad:
		return "HAD"
	case StatusRecommended:
		return "RECOMMENDED"
	default:
		return ""
	}
}

// MarshalText encodes the status by wire value.
func (s RegisterStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EdgeKind distinguishes accord membership from perfume similarity.
type EdgeKind int

const (
	EdgeHasAccord EdgeKind = iota
	EdgeSimilarTo
)

// String returns the wire name of the edge kind.
func (k EdgeKind) String() string {
	switch k {
	case EdgeHasAccord:
		return "HAS_ACCORD"
	case EdgeSimilarTo:
		return "SIMILAR_TO"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the edge kind by wire name.
func (k EdgeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node is a perfume or an accord. Perfume-only fields are empty on accords.
type Node struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Kind  NodeKind `json:"kind"`

	// Key is the accord name an accord node stands for.
	Key string `json:"key,omitempty"`

	Brand         string         `json:"brand,omitempty"`
	PrimaryAccord string         `json:"primaryAccord,omitempty"`
	Accords       []string       `json:"accords,omitempty"`
	Seasons       []string       `json:"seasons,omitempty"`
	Occasions     []string       `json:"occasions,omitempty"`
	Genders       []string       `json:"genders,omitempty"`
	Status        RegisterStatus `json:"registerStatus,omitempty"`
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	c := *n
	c.Accords = slices.Clone(n.Accords)
	c.Seasons = slices.Clone(n.Seasons)
	c.Occasions = slices.Clone(n.Occasions)
	c.Genders = slices.Clone(n.Genders)
	return &c
}

// IsPerfume reports whether n is a perfume node.
func (n *Node) IsPerfume() bool { return n.Kind == KindPerfume }

// InCollection reports whether the perfume belongs to the member's collection.
func (n *Node) InCollection() bool { return n.Status != StatusNone }

// Edge connects two nodes. SimilarTo edges are undirected.
type Edge struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Kind   EdgeKind `json:"kind"`
	Weight float64  `json:"weight"`
}

// AccordWeight is one entry of a perfume's ranked accord list.
type AccordWeight struct {
	Accord string  `json:"accord"`
	Weight float64 `json:"weight"`
}

// Neighbor is a perfume reachable over a SimilarTo edge.
type Neighbor struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// accordKey strips the optional accord: prefix some providers put on accord ids.
func accordKey(id string) string {
	return strings.TrimPrefix(id, "accord:")
}
