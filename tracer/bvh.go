package tracer

import (
	"errors"
	"time"

	"github.com/bircni/Raytracing/log"
	"github.com/bircni/Raytracing/scene"
	"github.com/bircni/Raytracing/types"
	"github.com/chewxy/math32"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis

	// The BVH builder will not attempt to calculate split candidates
	// if the node bbox along an axis is less than this threshold.
	minSideLength float32 = 1e-3

	// If the split step (calculated as side length / (1024 / depth+1))
	// is less than this threshold the BVH builder will not evaluate
	// split candidates.
	minSplitStep float32 = 1e-5

	// Recursion cap; degenerate primitive clusters that cannot be
	// partitioned any further are forced into a leaf at this depth.
	maxPartitionDepth = 64
)

// ErrEmptyScene is returned when a BVH build is attempted with no
// primitives. Rendering cannot proceed without geometry to partition.
var ErrEmptyScene = errors.New("tracer: no primitives to build a bvh from")

var (
	// A split scoring strategy that uses the surface area heuristic (SAH).
	SurfaceAreaHeuristic = surfaceAreaHeuristic{}
)

// The BoundedVolume interface is implemented by all primitives that can
// be partitioned by the bvh builder.
type BoundedVolume interface {
	BBox() [2]types.Vec3
	Center() types.Vec3
}

// A callback that is called whenever the BVH builder creates a new leaf.
type LeafCallback func(leaf *Node, itemList []BoundedVolume)

// A split scoring strategy.
type ScoreStrategy interface {
	// Calculate a score for splitting workList at splitPoint along a particular Axis.
	ScoreSplit(workList []BoundedVolume, splitAxis Axis, splitPoint float32) (leftCount, rightCount int, score float32)

	// Calculate a score for all items in workList.
	ScorePartition(workList []BoundedVolume) (score float32)
}

// Bvh nodes are stored as a flat arena and reference each other by index.
// The two int32 parameters encode the node type:
//
//   - interior nodes: LData and RData are both >0 and point to the L/R
//     child nodes; SplitAxis holds the axis the children were split on
//     so traversal can visit the near side first
//   - leaf nodes: LData is <= 0 and points (negated) to the first
//     primitive index, RData holds the primitive count
type Node struct {
	Min   types.Vec3
	LData int32

	Max   types.Vec3
	RData int32

	SplitAxis Axis
}

// Set left and right child node indices.
func (n *Node) SetChildNodes(left, right uint32) {
	n.LData = int32(left)
	n.RData = int32(right)
}

// Set primitive index and count.
func (n *Node) SetPrimitives(firstPrimIndex, count uint32) {
	n.LData = -int32(firstPrimIndex)
	n.RData = int32(count)
}

// Get primitive index and count.
func (n *Node) GetPrimitives() (firstPrimIndex, count uint32) {
	return uint32(-n.LData), uint32(n.RData)
}

// Leaf reports whether the node holds primitives instead of children.
func (n *Node) Leaf() bool {
	return n.LData <= 0
}

// BBox returns the node bounds as an AABB.
func (n *Node) BBox() AABB {
	return AABB{Min: n.Min, Max: n.Max}
}

type splitScore struct {
	axis       Axis
	splitPoint float32

	leftCount, rightCount int
	score                 float32
}

type builderStats struct {
	partitionedItems int
	totalItems       int
	nodes            int
	leafs            int
	maxDepth         int
}

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list
	nodes []Node

	// A callback invoked to set up BVH leafs depending on the type of
	// partitioned bounding volume
	leafCb LeafCallback

	// The minimum number of items that are required for creating a leaf.
	minLeafItems int

	// A channel for receiving score results.
	scoreChan chan splitScore

	// The split scoring strategy to use.
	scoreStrategy ScoreStrategy

	// Stats
	stats builderStats
}

// Build constructs a BVH node arena from a set of bounded volumes.
//
// The builder scores split candidates with the supplied strategy (lower
// is better) and creates a leaf whenever the incoming work length is
// <= minLeafItems, no candidate improves on the unsplit score, or the
// recursion depth cap is reached.
func Build(workList []BoundedVolume, minLeafItems int, leafCb LeafCallback, scoreStrategy ScoreStrategy) ([]Node, error) {
	if len(workList) == 0 {
		return nil, ErrEmptyScene
	}

	b := &builder{
		logger:        log.New("bvh"),
		nodes:         make([]Node, 0),
		leafCb:        leafCb,
		minLeafItems:  minLeafItems,
		scoreChan:     make(chan splitScore),
		scoreStrategy: scoreStrategy,
		stats: builderStats{
			totalItems: len(workList),
		},
	}

	start := time.Now()
	b.partition(workList, 0)
	b.logger.Debugf(
		"bvh build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.maxDepth, b.stats.nodes, b.stats.leafs,
	)
	return b.nodes, nil
}

// Partition worklist and return node index.
func (b *builder) partition(workList []BoundedVolume, depth int) uint32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	node := Node{
		Min: types.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: types.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}

	// Calculate bounding box for node
	for _, item := range workList {
		itemBBox := item.BBox()
		node.Min = types.MinVec3(node.Min, itemBBox[0])
		node.Max = types.MaxVec3(node.Max, itemBBox[1])
	}

	// Do we have enough items for partitioning? If not create a leaf.
	// The depth cap guarantees termination for clusters of coincident
	// primitives that no split point can separate.
	if len(workList) <= b.minLeafItems || depth >= maxPartitionDepth {
		return b.createLeaf(&node, workList)
	}

	// Calc current node score
	var bestScore float32 = b.scoreStrategy.ScorePartition(workList)
	var bestSplit *splitScore

	// Try partioning along each axis and select the split with best score
	pendingScores := 0

	// Run axis split tests in parallel
	side := node.Max.Sub(node.Min)
	for axis := XAxis; axis <= ZAxis; axis++ {
		// Skip axis if bbox dimension is too small
		if side[axis] < minSideLength {
			continue
		}

		// We want the split steps to become more granular the deeper we go
		splitStep := side[axis] / (1024.0 / float32(depth+1))
		if splitStep < minSplitStep {
			continue
		}

		for splitPoint := node.Min[axis]; splitPoint < node.Max[axis]; splitPoint += splitStep {
			pendingScores++
			go func(axis Axis, splitPoint float32) {
				lCount, rCount, score := b.scoreStrategy.ScoreSplit(workList, axis, splitPoint)
				b.scoreChan <- splitScore{
					axis:       axis,
					splitPoint: splitPoint,

					leftCount:  lCount,
					rightCount: rCount,
					score:      score,
				}
			}(axis, splitPoint)
		}
	}

	// Process all scores and pick the best split
	for ; pendingScores > 0; pendingScores-- {
		candidate := <-b.scoreChan
		if candidate.score < bestScore {
			bestScore = candidate.score
			bestSplit = &splitScore{}
			*bestSplit = candidate
		}
	}

	// If we can't find a split that improves the current node score create a leaf
	if bestSplit == nil {
		return b.createLeaf(&node, workList)
	}

	// split work list into two sets
	leftWorkList := make([]BoundedVolume, bestSplit.leftCount)
	rightWorkList := make([]BoundedVolume, bestSplit.rightCount)
	leftIndex := 0
	rightIndex := 0
	for _, item := range workList {
		center := item.Center()
		if center[bestSplit.axis] < bestSplit.splitPoint {
			leftWorkList[leftIndex] = item
			leftIndex++
		} else {
			rightWorkList[rightIndex] = item
			rightIndex++
		}
	}

	// Add node to list
	nodeIndex := len(b.nodes)
	node.SplitAxis = bestSplit.axis
	b.nodes = append(b.nodes, node)
	b.stats.nodes++

	// Partition children and update node indices
	leftNodeIndex := b.partition(leftWorkList, depth+1)
	rightNodeIndex := b.partition(rightWorkList, depth+1)
	b.nodes[nodeIndex].SetChildNodes(leftNodeIndex, rightNodeIndex)

	return uint32(nodeIndex)
}

// Setup the given node item as a leaf node containing all items in the work list.
// Returns the index to the node in the bvh node array.
func (b *builder) createLeaf(node *Node, workList []BoundedVolume) uint32 {
	b.leafCb(node, workList)

	// append node to list
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, *node)

	// update stats
	b.stats.leafs++
	b.stats.partitionedItems += len(workList)

	return uint32(nodeIndex)
}

// A score implementation that uses surface area heuristic for calculating split scores.
type surfaceAreaHeuristic struct{}

// Score a BVH split based on the surface area heuristic. The SAH calculates
// the split score using the formula (lower score is better):
//
// left count * left BBOX area + rightCount * right BBOX area.
//
// SAH avoids splits that generate empty partitions by assigning the worst
// possible score (MaxFloat32) when it encounters such cases.
func (h surfaceAreaHeuristic) ScoreSplit(workList []BoundedVolume, axis Axis, splitPoint float32) (leftCount, rightCount int, score float32) {
	lmin := types.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32}
	rmin := types.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32}
	lmax := types.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32}
	rmax := types.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32}

	leftCount = 0
	rightCount = 0
	for _, item := range workList {
		center := item.Center()
		itemBBox := item.BBox()
		if center[axis] < splitPoint {
			leftCount++
			lmin = types.MinVec3(lmin, itemBBox[0])
			lmax = types.MaxVec3(lmax, itemBBox[1])
		} else {
			rightCount++
			rmin = types.MinVec3(rmin, itemBBox[0])
			rmax = types.MaxVec3(rmax, itemBBox[1])
		}
	}

	// Make sure that we don't generate empty partitions
	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math32.MaxFloat32
	}

	lside := lmax.Sub(lmin)
	rside := rmax.Sub(rmin)
	score = (float32(leftCount) * (lside[0]*lside[1] + lside[1]*lside[2] + lside[0]*lside[2])) +
		(float32(rightCount) * (rside[0]*rside[1] + rside[1]*rside[2] + rside[0]*rside[2]))

	return leftCount, rightCount, score
}

// Calculate score for a partitioned workList using formula:
// count * BBOX area
//
// If the workList is empty, then this method returns the worst possible
// score (MaxFloat32).
func (h surfaceAreaHeuristic) ScorePartition(workList []BoundedVolume) (score float32) {
	if len(workList) == 0 {
		return math32.MaxFloat32
	}

	min := types.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32}
	max := types.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32}

	for _, item := range workList {
		itemBBox := item.BBox()
		min = types.MinVec3(min, itemBBox[0])
		max = types.MaxVec3(max, itemBBox[1])
	}

	side := max.Sub(min)
	return float32(len(workList)) * (side[0]*side[1] + side[1]*side[2] + side[0]*side[2])
}

// BVH is the scene's spatial index: a flat node arena plus the leaf-
// ordered primitive list the nodes index into. It is built once and
// never mutated afterwards, so concurrent traversal needs no locks. The
// zero value is a valid empty index whose queries always miss.
type BVH struct {
	nodes []Node
	tris  []Triangle
}

// NewBVH bakes the primitive list into a SAH-partitioned index. The
// triangles are reordered so that each leaf references a contiguous
// primitive range.
func NewBVH(tris []Triangle, minLeafItems int) (*BVH, error) {
	workList := make([]BoundedVolume, len(tris))
	for i := range tris {
		workList[i] = &tris[i]
	}

	ordered := make([]Triangle, 0, len(tris))
	leafCb := func(leaf *Node, itemList []BoundedVolume) {
		first := uint32(len(ordered))
		for _, item := range itemList {
			ordered = append(ordered, *item.(*Triangle))
		}
		leaf.SetPrimitives(first, uint32(len(itemList)))
	}

	nodes, err := Build(workList, minLeafItems, leafCb, SurfaceAreaHeuristic)
	if err != nil {
		return nil, err
	}

	return &BVH{
		nodes: nodes,
		tris:  ordered,
	}, nil
}

// NodeCount reports the arena size.
func (b *BVH) NodeCount() int {
	return len(b.nodes)
}

// PrimitiveCount reports the number of indexed primitives.
func (b *BVH) PrimitiveCount() int {
	return len(b.tris)
}

// Hit describes the closest ray-surface intersection found by a query.
type Hit struct {
	// Parametric distance along the ray.
	T float32

	// World-space intersection point.
	Point types.Vec3

	// Interpolated shading normal, flipped to face the incoming ray.
	Normal types.Vec3

	// Material of the intersected primitive; may be nil.
	Material *scene.Material
}

// Intersect returns the closest intersection within (tMin, tMax), if
// any. Traversal descends the child on the near side of each split
// first and prunes subtrees that lie beyond the best hit found so far.
func (b *BVH) Intersect(r Ray, tMin, tMax float32) (Hit, bool) {
	if len(b.nodes) == 0 {
		return Hit{}, false
	}

	var (
		stack    [maxPartitionDepth + 2]int32
		stackTop int

		best     *Triangle
		bestT    = tMax
		bestU    float32
		bestV    float32
		anything bool
	)

	stack[stackTop] = 0
	stackTop++

	for stackTop > 0 {
		stackTop--
		node := &b.nodes[stack[stackTop]]

		if !node.BBox().Intersect(r, tMin, bestT) {
			continue
		}

		if node.Leaf() {
			first, count := node.GetPrimitives()
			for i := first; i < first+count; i++ {
				tri := &b.tris[i]
				if dist, u, v, ok := tri.Intersect(r, tMin, bestT); ok {
					best, bestT, bestU, bestV = tri, dist, u, v
					anything = true
				}
			}
			continue
		}

		// Visit the near child first: for a negative direction component
		// along the split axis the right (far side) partition is closer.
		near, far := node.LData, node.RData
		if r.Dir[node.SplitAxis] < 0 {
			near, far = far, near
		}
		stack[stackTop] = far
		stack[stackTop+1] = near
		stackTop += 2
	}

	if !anything {
		return Hit{}, false
	}

	normal := best.ShadingNormal(bestU, bestV)
	if normal.Dot(r.Dir) > 0 {
		normal = normal.Mul(-1)
	}

	return Hit{
		T:        bestT,
		Point:    r.At(bestT),
		Normal:   normal,
		Material: best.Material(),
	}, true
}

// IntersectAny reports whether the ray hits anything within
// (tMin, tMax). It stops at the first hit found and resolves no hit
// record, making it cheaper than Intersect when only occlusion matters.
func (b *BVH) IntersectAny(r Ray, tMin, tMax float32) bool {
	if len(b.nodes) == 0 {
		return false
	}

	var (
		stack    [maxPartitionDepth + 2]int32
		stackTop int
	)

	stack[stackTop] = 0
	stackTop++

	for stackTop > 0 {
		stackTop--
		node := &b.nodes[stack[stackTop]]

		if !node.BBox().Intersect(r, tMin, tMax) {
			continue
		}

		if node.Leaf() {
			first, count := node.GetPrimitives()
			for i := first; i < first+count; i++ {
				if _, _, _, ok := b.tris[i].Intersect(r, tMin, tMax); ok {
					return true
				}
			}
			continue
		}

		stack[stackTop] = node.LData
		stack[stackTop+1] = node.RData
		stackTop += 2
	}

	return false
}
