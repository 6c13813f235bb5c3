package autodiff

import (
	"fmt"

	"github.com/born-ml/dyngraph/internal/tensor"
)

// Traversal selects how Backward walks the graph.
type Traversal int

const (
	// Topological runs every reachable node's backward exactly once, after
	// all of its consumers have run (Kahn's algorithm over consumer edges).
	// It yields textbook gradients on graphs with shared sub-expressions.
	Topological Traversal = iota

	// Worklist runs an unguarded FIFO: a node is enqueued once per path that
	// reaches it, so a node shared by k paths runs k times and its inputs
	// receive its (already accumulated) contribution k times. Gradients are
	// only correct on trees. Kept for reproducing older results.
	Worklist
)

// String returns the flag spelling of the traversal.
func (t Traversal) String() string {
	switch t {
	case Topological:
		return "topological"
	case Worklist:
		return "worklist"
	default:
		return fmt.Sprintf("Traversal(%d)", int(t))
	}
}

// ParseTraversal parses "topological" or "worklist".
func ParseTraversal(s string) (Traversal, error) {
	switch s {
	case "topological":
		return Topological, nil
	case "worklist":
		return Worklist, nil
	default:
		return 0, fmt.Errorf("unknown traversal %q (want topological or worklist)", s)
	}
}

// Backward computes gradients of t with respect to every upstream tensor
// using the Topological traversal.
//
// Algorithm:
//  1. If t is a leaf, nothing happens.
//  2. t's gradient is seeded with ones (for a non-scalar t this yields the
//     gradient of the sum of its elements).
//  3. Nodes are visited from t's parent towards the leaves; each node's
//     backward accumulates into its inputs' gradients.
//  4. An input is followed only if it needs a gradient and has a parent.
//
// Gradients accumulate: call ZeroFillGrad on parameters between passes.
func Backward(t *tensor.Tensor) {
	BackwardWith(t, Topological)
}

// BackwardWith is Backward with an explicit traversal policy.
func BackwardWith(t *tensor.Tensor, policy Traversal) {
	root := t.Parent()
	if root == nil {
		return
	}

	t.OneFillGrad()

	switch policy {
	case Topological:
		runTopological(root)
	case Worklist:
		runWorklist(root)
	default:
		panic(fmt.Sprintf("autodiff: unknown traversal %v", policy))
	}
}

// upstream returns the producers reachable through n's inputs, one entry per
// input slot (a producer feeding two slots appears twice).
func upstream(n tensor.Producer) []tensor.Producer {
	var parents []tensor.Producer
	for _, in := range n.Inputs() {
		if !in.NeedGrad() {
			continue
		}
		if p := in.Parent(); p != nil {
			parents = append(parents, p)
		}
	}
	return parents
}

func runWorklist(root tensor.Producer) {
	queue := []tensor.Producer{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		n.Backward()
		queue = append(queue, upstream(n)...)
	}
}

func runTopological(root tensor.Producer) {
	// Count consumer edges into every node reachable from root.
	pending := make(map[tensor.Producer]int)
	visited := map[tensor.Producer]bool{root: true}
	stack := []tensor.Producer{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range upstream(n) {
			pending[p]++
			if !visited[p] {
				visited[p] = true
				stack = append(stack, p)
			}
		}
	}

	queue := []tensor.Producer{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		n.Backward()
		for _, p := range upstream(n) {
			pending[p]--
			if pending[p] == 0 {
				queue = append(queue, p)
			}
		}
	}
}
