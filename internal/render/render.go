// Package render 提供文档变体的渲染实现：把文档的某个 rendering（如 final）落地为本地文件。
// 渲染结果是否缓存由 Cached 显式决定，调用方不应假设重复调用 Path 是廉价的。
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var (
	ErrSourceNotFound = errors.New("rendering source not found")
	ErrNoInputs       = errors.New("rendering has no inputs")
)

// Rendering 文档的一个具名变体，Path 负责落地并返回本地文件路径
type Rendering interface {
	Path(ctx context.Context) (string, error)
}

// Func 函数适配器
type Func func(ctx context.Context) (string, error)

func (f Func) Path(ctx context.Context) (string, error) {
	return f(ctx)
}

// File 已经生成好的本地文件
type File struct {
	Source string
}

// Path 校验文件存在后直接返回其路径
func (f File) Path(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := os.Stat(f.Source); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, f.Source)
		}
		return "", fmt.Errorf("failed to stat %s: %w", f.Source, err)
	}
	return f.Source, nil
}

// outputPath 在 dir 下生成一个随机文件名（保留扩展名），dir 为空时使用系统临时目录
func outputPath(dir, ext string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("创建输出目录 %s 失败: %w", dir, err)
	}
	return filepath.Join(dir, uuid.NewString()+ext), nil
}

func checkSources(paths []string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrSourceNotFound, p)
			}
			return fmt.Errorf("failed to stat %s: %w", p, err)
		}
	}
	return nil
}
