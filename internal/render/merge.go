package render

import (
	"context"
	"fmt"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MergePDF 把多个 PDF 按顺序合并为一个新的 PDF
type MergePDF struct {
	Inputs []string
	Dir    string
}

func (m MergePDF) Path(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(m.Inputs) == 0 {
		return "", ErrNoInputs
	}
	if err := checkSources(m.Inputs); err != nil {
		return "", err
	}

	out, err := outputPath(m.Dir, ".pdf")
	if err != nil {
		return "", err
	}

	conf := model.NewDefaultConfiguration()
	if err := pdfapi.MergeCreateFile(m.Inputs, out, false, conf); err != nil {
		return "", fmt.Errorf("合并 PDF 失败: %w", err)
	}
	return out, nil
}
