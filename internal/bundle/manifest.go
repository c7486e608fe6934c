package bundle

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hwuu/docpublish/internal/render"
)

// Manifest bundle 清单文件的 YAML 结构
type Manifest struct {
	Filename  string             `yaml:"filename"`
	Documents []DocumentManifest `yaml:"documents"`
}

// DocumentManifest 单个文档条目，enabled 缺省为 true
type DocumentManifest struct {
	Filename   string                       `yaml:"filename"`
	Enabled    *bool                        `yaml:"enabled"`
	Renderings map[string]RenderingManifest `yaml:"renderings"`
}

// RenderingManifest 渲染变体，file / template / merge 三选一
type RenderingManifest struct {
	File     string         `yaml:"file,omitempty"`
	Template string         `yaml:"template,omitempty"`
	Vars     map[string]any `yaml:"vars,omitempty"`
	Merge    []string       `yaml:"merge,omitempty"`
}

// LoadManifest 读取并构建 bundle。相对路径以清单所在目录为基准，
// 渲染结果输出到 workDir（空表示系统临时目录）。
func LoadManifest(path, workDir string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取清单文件失败: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("解析清单文件失败: %w", err)
	}

	return m.Build(filepath.Dir(path), workDir)
}

// Build 把清单转换为 Bundle，所有渲染变体都经过 render.Cached 包装，
// 保证同一次发布中每个变体只渲染一次。
func (m *Manifest) Build(baseDir, workDir string) (*Bundle, error) {
	b := &Bundle{Filename: m.Filename}

	for i, dm := range m.Documents {
		doc := &Document{
			Filename:   dm.Filename,
			Enabled:    dm.Enabled == nil || *dm.Enabled,
			Renderings: make(map[string]render.Rendering, len(dm.Renderings)),
		}
		for key, rm := range dm.Renderings {
			r, err := rm.build(baseDir, workDir)
			if err != nil {
				return nil, fmt.Errorf("documents[%d].renderings.%s: %w", i, key, err)
			}
			doc.Renderings[key] = render.Cached(r)
		}
		b.Documents = append(b.Documents, doc)
	}

	return b, nil
}

func (rm RenderingManifest) build(baseDir, workDir string) (render.Rendering, error) {
	set := 0
	if rm.File != "" {
		set++
	}
	if rm.Template != "" {
		set++
	}
	if len(rm.Merge) > 0 {
		set++
	}
	if set != 1 {
		return nil, ErrInvalidRendering
	}

	switch {
	case rm.File != "":
		return render.File{Source: resolve(baseDir, rm.File)}, nil
	case rm.Template != "":
		return render.Template{Source: resolve(baseDir, rm.Template), Vars: rm.Vars, Dir: workDir}, nil
	default:
		inputs := make([]string, len(rm.Merge))
		for i, p := range rm.Merge {
			inputs[i] = resolve(baseDir, p)
		}
		return render.MergePDF{Inputs: inputs, Dir: workDir}, nil
	}
}

func resolve(baseDir, p string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}
