package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Template 用 text/template 渲染 Source，输出文件扩展名取自去掉 .tmpl 后缀的源文件名
// （letter.md.tmpl → .md）
type Template struct {
	Source string
	Vars   map[string]any
	Dir    string // 输出目录，空表示系统临时目录
}

// Path 渲染模板并写入新的临时文件，每次调用都会重新渲染
func (t Template) Path(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content, err := os.ReadFile(t.Source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, t.Source)
		}
		return "", fmt.Errorf("failed to read template %s: %w", t.Source, err)
	}

	tmpl, err := template.New(filepath.Base(t.Source)).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", t.Source, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, t.Vars); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", t.Source, err)
	}

	out, err := outputPath(t.Dir, TemplateExt(t.Source))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("写入渲染结果 %s 失败: %w", out, err)
	}
	return out, nil
}

// TemplateExt 返回模板渲染后的扩展名
func TemplateExt(source string) string {
	return filepath.Ext(strings.TrimSuffix(filepath.Base(source), ".tmpl"))
}
