package optimization

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/fintools/internal/timeseries"
)

// Linkage selects the distance between two clusters of assets.
type Linkage string

const (
	SingleLinkage   Linkage = "single"
	CompleteLinkage Linkage = "complete"
	AverageLinkage  Linkage = "average"
)

type cluster struct {
	left, right *cluster
	members     []int
	first       int // smallest member, breaks distance ties
}

// HierarchicalRiskParity allocates by recursive bisection of the
// quasi-diagonal asset order of a correlation dendrogram. Each split gives
// the two halves weight in inverse proportion to their inverse-variance
// portfolio variance. The weights are long-only and sum to 1.
func HierarchicalRiskParity(cov mat.Symmetric, linkage Linkage) ([]float64, error) {
	n := cov.SymmetricDim()
	if n == 0 {
		return nil, fmt.Errorf("hierarchical risk parity: %w", timeseries.ErrEmptyFrame)
	}
	if n == 1 {
		return []float64{1}, nil
	}

	root := dendrogram(correlationDistance(cov), linkage)
	order := leafOrder(root, make([]int, 0, n))

	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	bisect(w, cov, order)

	var sum float64
	for _, v := range w {
		sum += v
	}
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("hierarchical risk parity: invalid weight sum %v", sum)
	}
	for i := range w {
		w[i] /= sum
	}
	return w, nil
}

// correlationDistance maps correlations to d = √(2(1-ρ)).
func correlationDistance(cov mat.Symmetric) *mat.SymDense {
	n := cov.SymmetricDim()
	dist := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var rho float64
			if s := math.Sqrt(cov.At(i, i) * cov.At(j, j)); s > 0 {
				rho = math.Max(-1, math.Min(1, cov.At(i, j)/s))
			}
			dist.SetSym(i, j, math.Sqrt(2*(1-rho)))
		}
	}
	return dist
}

// dendrogram merges the closest pair of clusters until one remains.
func dendrogram(dist mat.Symmetric, linkage Linkage) *cluster {
	n := dist.SymmetricDim()
	clusters := make([]*cluster, n)
	for i := range clusters {
		clusters[i] = &cluster{members: []int{i}, first: i}
	}

	for len(clusters) > 1 {
		bi, bj := 0, 1
		best := linkageDistance(dist, clusters[0], clusters[1], linkage)
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				d := linkageDistance(dist, clusters[i], clusters[j], linkage)
				if d < best || (d == best && pairBefore(clusters[i], clusters[j], clusters[bi], clusters[bj])) {
					best, bi, bj = d, i, j
				}
			}
		}

		left, right := clusters[bi], clusters[bj]
		if right.first < left.first {
			left, right = right, left
		}
		merged := &cluster{
			left:    left,
			right:   right,
			members: append(append([]int(nil), left.members...), right.members...),
			first:   left.first,
		}

		next := clusters[:0:0]
		for k, c := range clusters {
			if k != bi && k != bj {
				next = append(next, c)
			}
		}
		clusters = append(next, merged)
	}
	return clusters[0]
}

func linkageDistance(dist mat.Symmetric, a, b *cluster, linkage Linkage) float64 {
	switch linkage {
	case CompleteLinkage:
		d := math.Inf(-1)
		for _, i := range a.members {
			for _, j := range b.members {
				d = math.Max(d, dist.At(i, j))
			}
		}
		return d
	case AverageLinkage:
		var sum float64
		for _, i := range a.members {
			for _, j := range b.members {
				sum += dist.At(i, j)
			}
		}
		return sum / float64(len(a.members)*len(b.members))
	default:
		d := math.Inf(1)
		for _, i := range a.members {
			for _, j := range b.members {
				d = math.Min(d, dist.At(i, j))
			}
		}
		return d
	}
}

// pairBefore orders cluster pairs by their sorted smallest members.
func pairBefore(a1, b1, a2, b2 *cluster) bool {
	x1, y1 := a1.first, b1.first
	if y1 < x1 {
		x1, y1 = y1, x1
	}
	x2, y2 := a2.first, b2.first
	if y2 < x2 {
		x2, y2 = y2, x2
	}
	if x1 != x2 {
		return x1 < x2
	}
	return y1 < y2
}

func leafOrder(c *cluster, dst []int) []int {
	if c.left == nil {
		return append(dst, c.members[0])
	}
	dst = leafOrder(c.left, dst)
	return leafOrder(c.right, dst)
}

func bisect(w []float64, cov mat.Symmetric, order []int) {
	if len(order) < 2 {
		return
	}
	left, right := order[:len(order)/2], order[len(order)/2:]

	vl, vr := clusterVariance(cov, left), clusterVariance(cov, right)
	alpha := 0.5
	if vl+vr > 0 {
		alpha = 1 - vl/(vl+vr)
	}
	for _, i := range left {
		w[i] *= alpha
	}
	for _, i := range right {
		w[i] *= 1 - alpha
	}

	bisect(w, cov, left)
	bisect(w, cov, right)
}

// clusterVariance is the variance of the inverse-variance portfolio of the
// members.
func clusterVariance(cov mat.Symmetric, members []int) float64 {
	if len(members) == 1 {
		return math.Max(cov.At(members[0], members[0]), 0)
	}

	const minVariance = 1e-12
	ivp := make([]float64, len(members))
	var total float64
	for k, i := range members {
		ivp[k] = 1 / math.Max(cov.At(i, i), minVariance)
		total += ivp[k]
	}

	var v float64
	for a, i := range members {
		for b, j := range members {
			v += ivp[a] / total * cov.At(i, j) * ivp[b] / total
		}
	}
	return math.Max(v, 0)
}
