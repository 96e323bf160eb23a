package classifier

import (
	"math"
	"math/rand"
	"sort"
)

// RandomForest là tập cây CART (Gini) huấn luyện trên mẫu bootstrap,
// mỗi lần tách chỉ xét ngẫu nhiên √số đặc trưng. Cùng Seed cho cùng kết quả.
type RandomForest struct {
	Trees           int
	Seed            int64
	MaxFeatures     int
	MinSamplesSplit int
	MaxDepth        int

	width int
	roots []*treeNode
}

func NewRandomForest(trees int, seed int64) *RandomForest {
	return &RandomForest{Trees: trees, Seed: seed, MinSamplesSplit: 2}
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	// xác suất nhãn 1 tại lá
	prob float64
}

func (n *treeNode) leaf() bool {
	return n.left == nil
}

func (n *treeNode) predict(row []float64) float64 {
	for !n.leaf() {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.prob
}

type treeBuilder struct {
	x           [][]float64
	y           []int
	rng         *rand.Rand
	maxFeatures int
	minSplit    int
	maxDepth    int
}

func (f *RandomForest) Fit(x [][]float64, y []int) error {
	width, err := validate(x, y)
	if err != nil {
		return err
	}
	f.width = width
	maxFeatures := f.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(width)))
	}
	if maxFeatures < 1 {
		maxFeatures = 1
	}
	minSplit := f.MinSamplesSplit
	if minSplit < 2 {
		minSplit = 2
	}

	rng := rand.New(rand.NewSource(f.Seed))
	f.roots = make([]*treeNode, 0, f.Trees)
	for t := 0; t < f.Trees; t++ {
		sample := make([]int, len(x))
		for i := range sample {
			sample[i] = rng.Intn(len(x))
		}
		b := &treeBuilder{
			x:           x,
			y:           y,
			rng:         rand.New(rand.NewSource(rng.Int63())),
			maxFeatures: maxFeatures,
			minSplit:    minSplit,
			maxDepth:    f.MaxDepth,
		}
		f.roots = append(f.roots, b.build(sample, 0))
	}
	return nil
}

func (f *RandomForest) PredictProba(x [][]float64) ([]float64, error) {
	if err := checkWidth(x, f.width); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, row := range x {
		sum := 0.0
		for _, root := range f.roots {
			sum += root.predict(row)
		}
		out[i] = sum / float64(len(f.roots))
	}
	return out, nil
}

func gini(pos, total int) float64 {
	if total == 0 {
		return 0
	}
	p := float64(pos) / float64(total)
	return 2 * p * (1 - p)
}

func (b *treeBuilder) positives(idx []int) int {
	n := 0
	for _, i := range idx {
		n += b.y[i]
	}
	return n
}

func (b *treeBuilder) build(idx []int, depth int) *treeNode {
	pos := b.positives(idx)
	node := &treeNode{prob: float64(pos) / float64(len(idx))}
	if pos == 0 || pos == len(idx) || len(idx) < b.minSplit || (b.maxDepth > 0 && depth >= b.maxDepth) {
		return node
	}

	feature, threshold, ok := b.bestSplit(idx, pos)
	if !ok {
		return node
	}
	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return node
	}
	node.feature = feature
	node.threshold = threshold
	node.left = b.build(left, depth+1)
	node.right = b.build(right, depth+1)
	return node
}

// bestSplit thử các đặc trưng ngẫu nhiên, nếu không tách được thì thử tiếp các đặc trưng còn lại
func (b *treeBuilder) bestSplit(idx []int, pos int) (int, float64, bool) {
	width := len(b.x[0])
	order := b.rng.Perm(width)
	sorted := make([]int, len(idx))

	bestScore := math.Inf(1)
	bestFeature, bestThreshold, found := 0, 0.0, false
	for k, feature := range order {
		if k >= b.maxFeatures && found {
			break
		}
		copy(sorted, idx)
		sort.Slice(sorted, func(i, j int) bool {
			return b.x[sorted[i]][feature] < b.x[sorted[j]][feature]
		})
		leftPos := 0
		for i := 0; i+1 < len(sorted); i++ {
			leftPos += b.y[sorted[i]]
			cur, next := b.x[sorted[i]][feature], b.x[sorted[i+1]][feature]
			if cur == next {
				continue
			}
			nl, nr := i+1, len(sorted)-i-1
			score := float64(nl)*gini(leftPos, nl) + float64(nr)*gini(pos-leftPos, nr)
			if score < bestScore {
				bestScore = score
				bestFeature = feature
				bestThreshold = (cur + next) / 2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}
