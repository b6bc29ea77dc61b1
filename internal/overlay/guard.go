package overlay

import "sync"

// RecursiveRenderLimit 同一个 (容器实体, 字段, 被引用实体) 允许渲染的次数
const RecursiveRenderLimit = 20

// RenderGuardKey 递归保护的复合键
// 只有容器实体、字段和被引用实体完全一致时两个键才相等。
type RenderGuardKey struct {
	ContainerType   string
	ContainerBundle string
	Field           string
	ContainerID     string
	TargetType      string
	TargetID        string
}

func (k RenderGuardKey) String() string {
	return k.ContainerType + k.ContainerBundle + k.Field + k.ContainerID + k.TargetType + k.TargetID
}

// RecursionGuard 按键计数的递归检测器，计数在实例生命周期内不会重置
type RecursionGuard struct {
	mu    sync.Mutex
	limit int
	depth map[RenderGuardKey]int
}

// NewRecursionGuard 创建递归保护
func NewRecursionGuard() *RecursionGuard {
	return &RecursionGuard{
		limit: RecursiveRenderLimit,
		depth: make(map[RenderGuardKey]int),
	}
}

// ShouldRender 计数加一并判断是否继续渲染
// 超过阈值后仍然计数。
func (g *RecursionGuard) ShouldRender(key RenderGuardKey) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.depth[key]++
	return g.depth[key] <= g.limit
}

// Count 返回键当前的计数
func (g *RecursionGuard) Count(key RenderGuardKey) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.depth[key]
}

// RenderPass 一次顶层渲染，嵌套渲染共享同一个递归保护
type RenderPass struct {
	Guard *RecursionGuard
}

// NewRenderPass 创建新的渲染过程
func NewRenderPass() *RenderPass {
	return &RenderPass{Guard: NewRecursionGuard()}
}
