package kgraph

import "container/heap"

// ComputeCentrality scores every node with degree, betweenness and
// closeness centrality and stores the result on the node. Edge weights
// act as traversal cost for the path-based measures.
func (g *Graph) ComputeCentrality() {
	n := g.NumNodes()
	if n == 0 {
		return
	}

	degree := g.degreeCentrality()
	betweenness := g.betweennessCentrality()
	closeness := g.closenessCentrality()

	for _, node := range g.Nodes() {
		node.Centrality = Centrality{
			Degree:      degree[node.Name],
			Betweenness: betweenness[node.Name],
			Closeness:   closeness[node.Name],
		}
	}
}

func (g *Graph) degreeCentrality() map[string]float64 {
	n := g.NumNodes()
	out := make(map[string]float64, n)

	if n <= 1 {
		for _, node := range g.Nodes() {
			out[node.Name] = 1
		}
		return out
	}

	s := 1.0 / float64(n-1)
	for _, node := range g.Nodes() {
		out[node.Name] = float64(len(node.In)+len(node.Out)) * s
	}
	return out
}

// priority queue for Dijkstra traversal; the sequence number keeps
// pop order deterministic among equal distances
type pqItem struct {
	dist float64
	seq  int
	node string
}

type pq []pqItem

func (q pq) Len() int { return len(q) }
func (q pq) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}
func (q pq) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *pq) Push(x any)   { *q = append(*q, x.(pqItem)) }
func (q *pq) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

type neighborFunc func(name string) []*Edge

func (g *Graph) outNeighbors(name string) []*Edge {
	return g.nodes[name].Out
}

func (g *Graph) inNeighbors(name string) []*Edge {
	return g.nodes[name].In
}

// dijkstra returns the shortest distance from source to every
// reachable node, following edges selected by next.
func dijkstra(source string, next neighborFunc, other func(*Edge) string) map[string]float64 {
	dist := make(map[string]float64)
	seen := map[string]float64{source: 0}

	seq := 0
	q := &pq{{0, seq, source}}

	for q.Len() > 0 {
		item := heap.Pop(q).(pqItem)
		v := item.node
		if _, done := dist[v]; done {
			continue
		}
		dist[v] = item.dist

		for _, e := range next(v) {
			w := other(e)
			d := item.dist + e.Weight
			if _, done := dist[w]; done {
				continue
			}
			if best, ok := seen[w]; !ok || d < best {
				seen[w] = d
				seq++
				heap.Push(q, pqItem{d, seq, w})
			}
		}
	}
	return dist
}

// betweennessCentrality computes shortest-path betweenness (Brandes)
// with edge weights as distances, normalized for a directed graph.
func (g *Graph) betweennessCentrality() map[string]float64 {
	n := g.NumNodes()
	cb := make(map[string]float64, n)
	for _, name := range g.order {
		cb[name] = 0
	}

	for _, s := range g.order {
		stack, preds, sigma := g.shortestPathCounts(s)

		delta := make(map[string]float64, len(stack))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			coeff := (1 + delta[w]) / sigma[w]
			for _, v := range preds[w] {
				delta[v] += sigma[v] * coeff
			}
			if w != s {
				cb[w] += delta[w]
			}
		}
	}

	if n > 2 {
		scale := 1.0 / (float64(n-1) * float64(n-2))
		for name := range cb {
			cb[name] *= scale
		}
	}
	return cb
}

// shortestPathCounts runs weighted single-source shortest paths from s
// and returns the visit order, predecessor lists and path counts.
func (g *Graph) shortestPathCounts(s string) ([]string, map[string][]string, map[string]float64) {
	var stack []string
	preds := make(map[string][]string)
	sigma := map[string]float64{s: 1}
	dist := make(map[string]float64)
	seen := map[string]float64{s: 0}

	seq := 0
	q := &pq{{0, seq, s}}

	for q.Len() > 0 {
		item := heap.Pop(q).(pqItem)
		v := item.node
		if _, done := dist[v]; done {
			continue
		}
		dist[v] = item.dist
		stack = append(stack, v)

		for _, e := range g.outNeighbors(v) {
			w := e.Target
			d := item.dist + e.Weight
			if _, done := dist[w]; done {
				continue
			}
			best, known := seen[w]
			switch {
			case !known || d < best:
				seen[w] = d
				seq++
				heap.Push(q, pqItem{d, seq, w})
				sigma[w] = sigma[v]
				preds[w] = []string{v}
			case d == best:
				sigma[w] += sigma[v]
				preds[w] = append(preds[w], v)
			}
		}
	}
	return stack, preds, sigma
}

// closenessCentrality computes incoming-distance closeness with edge
// weights as distances, scaled by the reachable fraction of the graph.
func (g *Graph) closenessCentrality() map[string]float64 {
	n := g.NumNodes()
	out := make(map[string]float64, n)

	for _, name := range g.order {
		dist := dijkstra(name, g.inNeighbors, func(e *Edge) string { return e.Source })

		var total float64
		for _, d := range dist {
			total += d
		}

		reachable := len(dist)
		if total <= 0 || n <= 1 {
			out[name] = 0
			continue
		}
		c := float64(reachable-1) / total
		c *= float64(reachable-1) / float64(n-1)
		out[name] = c
	}
	return out
}
