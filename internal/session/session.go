// Package session holds the interactive state of one network explorer: the
// ingested graph, the filter state, the hovered node and the derived view.
//
// Every mutation re-derives the view from the immutable graph and hands it
// to the subscribed renderers. Only Load touches the network; it cancels
// the load it supersedes and drops stale results.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/msalah0e/scentnet/internal/labels"
	"github.com/msalah0e/scentnet/internal/logging"
	"github.com/msalah0e/scentnet/internal/metrics"
	"github.com/msalah0e/scentnet/internal/network"
	"github.com/msalah0e/scentnet/internal/provider"
	"github.com/msalah0e/scentnet/internal/render"
	"github.com/msalah0e/scentnet/internal/validation"
)

var (
	// ErrSuperseded is returned by a load that a newer load replaced.
	ErrSuperseded = errors.New("load superseded")
	// ErrClosed is returned once the explorer is closed.
	ErrClosed = errors.New("explorer closed")
	// ErrNotSelectable is returned when selecting an accord node.
	ErrNotSelectable = errors.New("only perfumes can be selected")
)

// Snapshot is a consistent copy of the explorer state.
type Snapshot struct {
	View      *network.View       `json:"view"`
	State     network.FilterState `json:"state"`
	MemberID  string              `json:"memberId,omitempty"`
	Source    string              `json:"source"`
	FetchedAt time.Time           `json:"fetchedAt"`
	Graph     network.Stats       `json:"graph"`
	Meta      network.Meta        `json:"meta"`
	Error     string              `json:"error,omitempty"`
}

// Explorer is safe for concurrent use.
type Explorer struct {
	src provider.Source

	mu        sync.Mutex
	notifyMu  sync.Mutex
	graph     *network.Graph
	facets    network.Facets
	labels    *labels.Labels
	memberID  string
	fetchedAt time.Time
	state     network.FilterState
	saved     *network.FilterState
	hovered   string
	status    network.ViewStatus
	loadErr   error
	view      *network.View
	gen       uint64
	cancel    context.CancelFunc
	closed    bool
	renderers []render.Renderer
}

// New creates an explorer with no data. Call Load to fetch the network.
func New(src provider.Source, initial network.FilterState) *Explorer {
	e := &Explorer{
		src:    src,
		state:  initial.Clone(),
		labels: labels.Builtin(),
		status: network.ViewNoData,
	}
	e.view = e.derive()
	return e
}

// Subscribe registers a renderer called after every rebuild. Renderers run
// one at a time and must not call back into the explorer.
func (e *Explorer) Subscribe(r render.Renderer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderers = append(e.renderers, r)
}

// Load fetches the network for a member and ingests it. A load started
// while another is in flight cancels the older one, whose result is then
// discarded with ErrSuperseded.
func (e *Explorer) Load(ctx context.Context, memberID string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.gen++
	gen := e.gen
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.memberID = memberID
	e.status = network.ViewLoading
	e.loadErr = nil
	e.graph = nil
	e.hovered = ""
	e.commit()
	defer cancel()

	log := logging.With("session")
	log.Debug().Str("member", memberID).Str("source", e.src.Name()).Msg("loading network")

	b, err := e.src.Load(ctx, memberID)

	e.mu.Lock()
	if gen != e.gen || e.closed {
		e.mu.Unlock()
		log.Debug().Str("member", memberID).Msg("discarding superseded load")
		return ErrSuperseded
	}
	e.cancel = nil
	if err != nil {
		e.fail(err)
		log.Warn().Err(err).Str("member", memberID).Msg("network load failed")
		return err
	}

	g, rep, err := network.Ingest(b.Payload)
	if err != nil {
		e.fail(err)
		log.Warn().Err(err).Msg("network ingest failed")
		return err
	}
	logReport(rep)

	e.graph = g
	e.fetchedAt = b.FetchedAt
	e.facets = b.Facets
	if e.facets.Empty() {
		e.facets = network.FacetsOf(g, false)
	}
	e.labels = labels.Builtin().Overlay(labels.FromMap(b.Labels))
	if n, ok := g.Node(e.state.SelectedID); !ok || !n.IsPerfume() {
		e.state.SelectedID = ""
	}
	if e.state.CollectionOnly {
		e.state = network.ApplyCollection(g, e.state)
	}
	e.status = network.ViewReady

	st := g.Stats()
	log.Info().
		Int("perfumes", st.Perfumes).
		Int("accords", st.Accords).
		Int("similar", st.Similar).
		Int("collection", st.Collection).
		Msg("network loaded")

	e.commit()
	return nil
}

// fail records a terminal load failure. Called with mu held; releases it.
func (e *Explorer) fail(err error) {
	e.graph = nil
	e.status = network.ViewLoadFailed
	e.loadErr = err
	e.commit()
}

// Select sets the selected perfume. Selecting the current selection again,
// or the empty id, clears it.
func (e *Explorer) Select(id string) error {
	e.mu.Lock()
	if id != "" {
		if err := e.lookup(id); err != nil {
			e.mu.Unlock()
			return err
		}
		if n, _ := e.graph.Node(id); !n.IsPerfume() {
			e.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrNotSelectable, id)
		}
	}
	if id == e.state.SelectedID {
		id = ""
	}
	e.state.SelectedID = id
	e.commit()
	return nil
}

// Hover sets the hovered node; the empty id clears it.
func (e *Explorer) Hover(id string) error {
	e.mu.Lock()
	if id != "" {
		if err := e.lookup(id); err != nil {
			e.mu.Unlock()
			return err
		}
	}
	if id == e.hovered {
		e.mu.Unlock()
		return nil
	}
	e.hovered = id
	e.commit()
	return nil
}

// SetFilter replaces the filter state after validating it. The selection
// and collection mode are kept; Select and SetCollectionOnly own them.
func (e *Explorer) SetFilter(s network.FilterState) error {
	return e.Update(func(cur network.FilterState) network.FilterState {
		next := s.Clone()
		next.SelectedID = cur.SelectedID
		return next
	})
}

// Update applies fn to a copy of the filter state and keeps the result if
// it validates. Collection mode is controlled by SetCollectionOnly and
// survives any update.
func (e *Explorer) Update(fn func(network.FilterState) network.FilterState) error {
	e.mu.Lock()
	next := fn(e.state.Clone())
	if err := validation.Struct(next); err != nil {
		e.mu.Unlock()
		return err
	}
	next.CollectionOnly = e.state.CollectionOnly
	e.state = next
	e.commit()
	return nil
}

// Toggle adds or removes one facet value.
func (e *Explorer) Toggle(f network.Facet, value string) error {
	return e.Update(func(s network.FilterState) network.FilterState {
		return s.Toggle(f, value)
	})
}

// SetCollectionOnly switches "my collection only" mode. Turning it on
// replaces every facet selection with the collection's values; turning it
// off restores the selections that were active before.
func (e *Explorer) SetCollectionOnly(on bool) {
	e.mu.Lock()
	if on == e.state.CollectionOnly {
		e.mu.Unlock()
		return
	}
	if on {
		prev := e.state.Clone()
		e.saved = &prev
		if e.graph != nil {
			e.state = network.ApplyCollection(e.graph, e.state)
		} else {
			e.state.CollectionOnly = true
		}
	} else {
		next := e.state.Clone()
		if e.saved != nil {
			for _, f := range network.AllFacets {
				next = next.With(f, e.saved.Values(f))
			}
		}
		next.CollectionOnly = false
		e.state = next
		e.saved = nil
	}
	e.commit()
}

// Close cancels any load in flight and drops the renderers.
func (e *Explorer) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.closed = true
	e.renderers = nil
}

// View returns the current view. Callers must not modify it.
func (e *Explorer) View() *network.View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// State returns a copy of the filter state.
func (e *Explorer) State() network.FilterState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Status returns the load status and the last load error.
func (e *Explorer) Status() (network.ViewStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status, e.loadErr
}

// Graph returns the ingested graph, or nil.
func (e *Explorer) Graph() *network.Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph
}

// Labels returns the label table in use.
func (e *Explorer) Labels() *labels.Labels {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.labels
}

// Facets returns the facet options. In collection mode they are the
// collection's own values.
func (e *Explorer) Facets() network.Facets {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.CollectionOnly && e.graph != nil {
		return network.FacetsOf(e.graph, true)
	}
	return e.facets
}

// Details returns the detail panel of a node.
func (e *Explorer) Details(id string, n int) (*network.Detail, error) {
	e.mu.Lock()
	g := e.graph
	e.mu.Unlock()
	if g == nil {
		return nil, network.ErrNoData
	}
	return network.Details(g, id, n)
}

// Snapshot returns the view together with the state it was derived from.
func (e *Explorer) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Snapshot{
		View:      e.view,
		State:     e.state.Clone(),
		MemberID:  e.memberID,
		Source:    e.src.Name(),
		FetchedAt: e.fetchedAt,
	}
	if e.graph != nil {
		s.Graph = e.graph.Stats()
		s.Meta = e.graph.Meta()
	}
	if e.loadErr != nil {
		s.Error = e.loadErr.Error()
	}
	return s
}

func (e *Explorer) lookup(id string) error {
	if e.graph == nil {
		return network.ErrNoData
	}
	if _, ok := e.graph.Node(id); !ok {
		return fmt.Errorf("%w: %s", network.ErrNodeNotFound, id)
	}
	return nil
}

// commit re-derives the view, releases mu and notifies the renderers in
// commit order.
func (e *Explorer) commit() {
	v := e.derive()
	e.view = v
	renderers := append([]render.Renderer(nil), e.renderers...)

	e.notifyMu.Lock()
	e.mu.Unlock()
	defer e.notifyMu.Unlock()

	for _, r := range renderers {
		if err := r.Render(v); err != nil {
			logging.With("session").Warn().Err(err).Msg("renderer failed")
		}
	}
}

func (e *Explorer) derive() *network.View {
	switch e.status {
	case network.ViewLoading:
		return &network.View{Status: network.ViewLoading, Message: "loading network"}
	case network.ViewLoadFailed:
		msg := "network load failed"
		if e.loadErr != nil {
			msg = e.loadErr.Error()
		}
		return &network.View{Status: network.ViewLoadFailed, Message: msg}
	}

	start := time.Now()
	v := network.Derive(e.graph, e.state, e.hovered)
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	metrics.VisiblePerfumes.Set(float64(v.Stats.Visible))
	return v
}

func logReport(rep *network.Report) {
	log := logging.With("ingest")
	for _, d := range rep.DroppedEdges {
		log.Debug().Str("from", d.From).Str("to", d.To).Str("type", d.Type).Str("reason", d.Reason).Msg("dropped edge")
		metrics.IngestDroppedEdges.WithLabelValues(d.Reason).Inc()
	}
	if rep.ClampedWeights > 0 {
		metrics.IngestClampedWeights.Add(float64(rep.ClampedWeights))
	}
	log.Debug().
		Int("nodes", rep.Nodes).
		Int("dropped_nodes", rep.DroppedNodes).
		Int("edges", rep.Edges).
		Int("dropped_edges", len(rep.DroppedEdges)).
		Int("merged_edges", rep.MergedEdges).
		Int("clamped_weights", rep.ClampedWeights).
		Msg("ingest report")
}
