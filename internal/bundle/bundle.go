// Package bundle 定义文档包（bundle）模型：有序的文档列表、启用视图和具名渲染变体。
package bundle

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hwuu/docpublish/internal/render"
)

var (
	ErrRenderingNotFound = errors.New("rendering not found")
	ErrInvalidRendering  = errors.New("rendering must set exactly one of file, template, merge")
)

// Bundle 一次文档生成产出的有序文档集合
type Bundle struct {
	Filename  string
	Documents []*Document
}

// Document 单个输出文档，Filename 是声明的文件名（决定远程文件名）
type Document struct {
	Filename   string
	Enabled    bool
	Renderings map[string]render.Rendering
}

// Enabled 返回启用的文档（保持原顺序）
func (b *Bundle) Enabled() []*Document {
	var docs []*Document
	for _, d := range b.Documents {
		if d.Enabled {
			docs = append(docs, d)
		}
	}
	return docs
}

// BaseName 返回 bundle 文件名去掉扩展名的部分
func (b *Bundle) BaseName() string {
	base, _ := SplitExt(b.Filename)
	return base
}

// Rendering 按 key 取渲染变体
func (d *Document) Rendering(key string) (render.Rendering, error) {
	r, ok := d.Renderings[key]
	if !ok || r == nil {
		return nil, fmt.Errorf("%w: %s[%s]", ErrRenderingNotFound, d.Filename, key)
	}
	return r, nil
}

// SplitExt 把路径拆成 (去扩展名部分, 扩展名)。
// 文件名开头的点不算扩展名分隔符：".env" → (".env", "")。
func SplitExt(p string) (string, string) {
	base := filepath.Base(p)
	if p == "" || base == "." || base == string(filepath.Separator) {
		return p, ""
	}
	name := strings.TrimLeft(base, ".")
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return p, ""
	}
	return strings.TrimSuffix(p, ext), ext
}
