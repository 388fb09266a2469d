package minimax

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Metrics counts the work done by one search.
type Metrics struct {
	Nodes   int `json:"nodes"`
	Cutoffs int `json:"cutoffs"`
}

// Node is one explored position. Move is the edge that led here from the
// parent; Pruned marks branches alpha-beta cut before searching them.
type Node struct {
	State    entity.GameState `json:"state"`
	Move     *entity.Move     `json:"move,omitempty"`
	Score    int              `json:"score"`
	Pruned   bool             `json:"pruned,omitempty"`
	Children []*Node          `json:"children,omitempty"`
}

// Tree is the explored search tree of a single BestMove decision. Callers
// must treat it as read-only; front ends serialize it for inspection in
// whatever text format suits them.
type Tree struct {
	Root    *Node       `json:"root"`
	Best    entity.Move `json:"best"`
	Metrics Metrics     `json:"metrics"`
}

// Walk visits every node depth-first, parents before children.
func (that *Tree) Walk(visit func(*Node)) {
	var walk func(*Node)
	walk = func(node *Node) {
		visit(node)
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(that.Root)
}

// Explore runs the same alpha-beta search as BestMove while recording
// every visited position, producing the exportable tree.
func Explore(state entity.GameState) (*Tree, error) {
	if state.IsOver() {
		return nil, apperror.ErrGameFinished
	}

	that := &searcher{maximizer: state.CurrentMark(), record: true}
	root := &Node{State: state}

	bestScore := math.MinInt
	var bestMove entity.Move

	alpha, beta := math.MinInt, math.MaxInt
	for _, move := range orderedMoves(state) {
		child := that.attach(root, state, move)

		score := that.search(play(state, move), false, alpha, beta, child)
		child.Score = score

		if score > bestScore {
			bestScore = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
		}
	}
	root.Score = bestScore

	return &Tree{
		Root:    root,
		Best:    bestMove,
		Metrics: that.metrics,
	}, nil
}

// attach hangs a child node for the move off parent when recording.
func (that *searcher) attach(parent *Node, state entity.GameState, move entity.Move) *Node {
	if !that.record || parent == nil {
		return nil
	}

	edge := move
	child := &Node{State: play(state, move), Move: &edge}
	parent.Children = append(parent.Children, child)

	return child
}

// markPruned records the moves a cutoff skipped as pruned leaf nodes.
func (that *searcher) markPruned(parent *Node, state entity.GameState, skipped []entity.Move) {
	if !that.record || parent == nil {
		return
	}

	for _, move := range skipped {
		edge := move
		parent.Children = append(parent.Children, &Node{
			State:  play(state, move),
			Move:   &edge,
			Pruned: true,
		})
	}
}
