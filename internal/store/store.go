// Package store provides the in-memory graph storage backing the
// evaluation drawer.
package store

import (
	"fmt"
	"sync"

	"github.com/dominikbraun/graph"
)

type vertexRecord[T any] struct {
	value T
	props *graph.VertexProperties
}

// MemoryStore implements graph.Store for evaluation graphs. Vertex
// properties are shared with callers, so attribute updates made through
// the graph stay visible here.
type MemoryStore[K comparable, T any] struct {
	mu       sync.RWMutex
	vertices map[K]*vertexRecord[T]

	// out holds the full edge per source and target. in only records
	// edge existence per target, enough for removal checks and cycle
	// detection without storing every edge twice.
	out map[K]map[K]graph.Edge[K]
	in  map[K]map[K]struct{}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore[K comparable, T any]() *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		vertices: make(map[K]*vertexRecord[T]),
		out:      make(map[K]map[K]graph.Edge[K]),
		in:       make(map[K]map[K]struct{}),
	}
}

func (s *MemoryStore[K, T]) AddVertex(k K, value T, props graph.VertexProperties) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vertices[k]; ok {
		return graph.ErrVertexAlreadyExists
	}
	s.vertices[k] = &vertexRecord[T]{value: value, props: &props}

	return nil
}

func (s *MemoryStore[K, T]) Vertex(k K) (T, graph.VertexProperties, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.vertices[k]
	if !ok {
		var zero T

		return zero, graph.VertexProperties{}, graph.ErrVertexNotFound
	}

	return rec.value, *rec.props, nil
}

func (s *MemoryStore[K, T]) RemoveVertex(k K) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vertices[k]; !ok {
		return graph.ErrVertexNotFound
	}
	if len(s.in[k]) > 0 || len(s.out[k]) > 0 {
		return graph.ErrVertexHasEdges
	}

	delete(s.in, k)
	delete(s.out, k)
	delete(s.vertices, k)

	return nil
}

func (s *MemoryStore[K, T]) ListVertices() ([]K, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]K, 0, len(s.vertices))
	for k := range s.vertices {
		keys = append(keys, k)
	}

	return keys, nil
}

func (s *MemoryStore[K, T]) VertexCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.vertices), nil
}

func (s *MemoryStore[K, T]) AddEdge(source, target K, edge graph.Edge[K]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.out[source] == nil {
		s.out[source] = make(map[K]graph.Edge[K])
	}
	s.out[source][target] = edge

	if s.in[target] == nil {
		s.in[target] = make(map[K]struct{})
	}
	s.in[target][source] = struct{}{}

	return nil
}

func (s *MemoryStore[K, T]) UpdateEdge(source, target K, edge graph.Edge[K]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.out[source][target]; !ok {
		return graph.ErrEdgeNotFound
	}
	s.out[source][target] = edge

	return nil
}

func (s *MemoryStore[K, T]) RemoveEdge(source, target K) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.out[source], target)
	delete(s.in[target], source)

	return nil
}

func (s *MemoryStore[K, T]) Edge(source, target K) (graph.Edge[K], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edge, ok := s.out[source][target]
	if !ok {
		return graph.Edge[K]{}, graph.ErrEdgeNotFound
	}

	return edge, nil
}

func (s *MemoryStore[K, T]) ListEdges() ([]graph.Edge[K], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := make([]graph.Edge[K], 0, len(s.out))
	for _, targets := range s.out {
		for _, edge := range targets {
			edges = append(edges, edge)
		}
	}

	return edges, nil
}

// CreatesCycle reports whether adding an edge from source to target
// would close a cycle. It walks the in-edge sets directly instead of
// materialising a predecessor map.
func (s *MemoryStore[K, T]) CreatesCycle(source, target K) (bool, error) {
	if _, _, err := s.Vertex(source); err != nil {
		return false, fmt.Errorf("could not get vertex with hash %v: %w", source, err)
	}
	if _, _, err := s.Vertex(target); err != nil {
		return false, fmt.Errorf("could not get vertex with hash %v: %w", target, err)
	}
	if source == target {
		return true, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stack := []K{source}
	visited := make(map[K]struct{})
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[current]; ok {
			continue
		}
		if current == target {
			return true, nil
		}
		visited[current] = struct{}{}

		for predecessor := range s.in[current] {
			stack = append(stack, predecessor)
		}
	}

	return false, nil
}

var _ graph.Store[string, string] = (*MemoryStore[string, string])(nil)
