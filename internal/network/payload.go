package network

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// Payload is the raw network document served by the graph provider.
type Payload struct {
	Nodes []RawNode `json:"nodes"`
	Edges []RawEdge `json:"edges"`
	Meta  Meta      `json:"meta"`
}

// RawNode is a node as it appears on the wire.
type RawNode struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Type           string   `json:"type"`
	Brand          string   `json:"brand,omitempty"`
	PrimaryAccord  string   `json:"primaryAccord,omitempty"`
	Accords        []string `json:"accords,omitempty"`
	Seasons        []string `json:"seasons,omitempty"`
	Occasions      []string `json:"occasions,omitempty"`
	Genders        []string `json:"genders,omitempty"`
	RegisterStatus string   `json:"registerStatus,omitempty"`
}

// RawEdge is an edge as it appears on the wire. A nil weight reads as 0.
type RawEdge struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Type   string   `json:"type"`
	Weight *float64 `json:"weight,omitempty"`
}

// Meta describes where a payload came from.
type Meta struct {
	MemberID    string `json:"memberId,omitempty"`
	GeneratedAt string `json:"generatedAt,omitempty"`
	Version     string `json:"version,omitempty"`
}

// DecodePayload reads a payload document.
func DecodePayload(r io.Reader) (*Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("payload decode: %w", err)
	}
	return &p, nil
}

func parseNodeKind(s string) (NodeKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "perfume":
		return KindPerfume, true
	case "accord":
		return KindAccord, true
	}
	return 0, false
}

func parseEdgeKind(s string) (EdgeKind, bool) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	switch norm {
	case "HAS_ACCORD":
		return EdgeHasAccord, true
	case "SIMILAR_TO":
		return EdgeSimilarTo, true
	}
	return 0, false
}
