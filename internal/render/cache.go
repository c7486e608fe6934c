package render

import (
	"context"
	"sync"
)

type cachedRendering struct {
	inner Rendering

	mu   sync.Mutex
	path string
	done bool
}

// Cached 包装 r，第一次成功的 Path 结果会被记住，之后的调用直接返回；
// 失败不缓存，下次调用会重新渲染。
func Cached(r Rendering) Rendering {
	if c, ok := r.(*cachedRendering); ok {
		return c
	}
	return &cachedRendering{inner: r}
}

func (c *cachedRendering) Path(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done {
		return c.path, nil
	}
	p, err := c.inner.Path(ctx)
	if err != nil {
		return "", err
	}
	c.path = p
	c.done = true
	return p, nil
}
