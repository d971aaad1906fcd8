package planner

import (
	"container/heap"

	"github.com/theoremus-urban-solutions/rail-router/network"
)

// transferWeight exceeds any realistic accumulated time, so transfers mode
// compares transfer counts first and time second.
const transferWeight = 1e9

// Totals are the scalars accumulated along a path.
type Totals struct {
	Distance  float64
	Time      float64 // effective
	RealTime  float64
	Transfers int
}

func (t Totals) add(e network.Edge) Totals {
	return Totals{
		Distance:  t.Distance + e.Distance,
		Time:      t.Time + e.Time,
		RealTime:  t.RealTime + e.RealTime,
		Transfers: t.Transfers + e.TransferInc,
	}
}

func (m Mode) key(t Totals) float64 {
	switch m {
	case ModeDistance:
		return t.Distance
	case ModeTransfers:
		return float64(t.Transfers)*transferWeight + t.Time
	default:
		return t.Time
	}
}

// Solution is the outcome of Solve. Edges run from a start node to Goal.
type Solution struct {
	Found  bool
	Goal   network.NodeKey
	Edges  []network.Edge
	Totals Totals
}

type queueItem struct {
	node  network.NodeKey
	key   float64
	seq   int
	index int
}

type priorityQueue []*queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].key != pq[j].key {
		return pq[i].key < pq[j].key
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

type label struct {
	totals  Totals
	key     float64
	prev    network.Edge
	hasPrev bool
}

// Solve runs a multi-source Dijkstra from starts until the first settled
// node satisfying isGoal. All search state is local to the call.
func Solve(g *network.Graph, starts []network.NodeKey, isGoal func(network.NodeKey) bool, mode Mode) Solution {
	mode = mode.orDefault()
	best := map[network.NodeKey]*label{}
	settled := map[network.NodeKey]bool{}
	pq := &priorityQueue{}
	heap.Init(pq)
	seq := 0

	push := func(k network.NodeKey, key float64) {
		heap.Push(pq, &queueItem{node: k, key: key, seq: seq})
		seq++
	}

	for _, s := range starts {
		if _, dup := best[s]; dup {
			continue
		}
		best[s] = &label{}
		push(s, 0)
	}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*queueItem)
		cur := item.node
		if settled[cur] {
			continue
		}
		lb := best[cur]
		if item.key > lb.key {
			continue // stale
		}
		settled[cur] = true

		if isGoal(cur) {
			return Solution{Found: true, Goal: cur, Edges: backtrack(best, cur), Totals: lb.totals}
		}

		for _, e := range g.Outgoing(cur) {
			if settled[e.To] {
				continue
			}
			next := lb.totals.add(e)
			k := mode.key(next)
			if old, ok := best[e.To]; ok && k >= old.key {
				continue
			}
			best[e.To] = &label{totals: next, key: k, prev: e, hasPrev: true}
			push(e.To, k)
		}
	}
	return Solution{}
}

func backtrack(best map[network.NodeKey]*label, goal network.NodeKey) []network.Edge {
	var rev []network.Edge
	for cur := goal; ; {
		lb := best[cur]
		if lb == nil || !lb.hasPrev {
			break
		}
		rev = append(rev, lb.prev)
		cur = lb.prev.From
	}
	out := make([]network.Edge, len(rev))
	for i, e := range rev {
		out[len(rev)-1-i] = e
	}
	return out
}
