// Package publish 把 bundle 中启用的文档上传到远程文件服务器。
// 流程：渲染预检 → 解析连接 → 确定目标目录 → （可选）创建子目录 → 逐个上传。
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/hwuu/docpublish/internal/bundle"
	"github.com/hwuu/docpublish/internal/config"
	"github.com/hwuu/docpublish/internal/remote"
)

// DefaultRenderingKey 默认上传的渲染变体
const DefaultRenderingKey = "final"

// ErrMissingFilename 文档没有声明文件名，无法确定远程文件名
var ErrMissingFilename = errors.New("document has no filename")

// Request 一次发布的参数
type Request struct {
	Path       *string // nil 表示未指定，使用配置的默认目录；指向 "" 时按空路径处理
	NewFolder  string  // 非空时在目标目录下新建该子目录并上传到其中
	Key        string  // 渲染变体，空表示 final
	ConfigName string  // 配置段名，Login 为空时生效
	Hostname   string
	Login      string
	Password   string
}

// NewRequest 返回带默认值的请求（key=final，配置段 webdav）
func NewRequest() Request {
	return Request{
		Key:        DefaultRenderingKey,
		ConfigName: config.DefaultSectionName,
	}
}

// StringPtr 便于构造 Request.Path
func StringPtr(s string) *string {
	return &s
}

func (r Request) key() string {
	if r.Key == "" {
		return DefaultRenderingKey
	}
	return r.Key
}

// Publisher 发布器，通过依赖注入支持测试
type Publisher struct {
	Settings config.Settings
	Dial     remote.DialFunc // 为空时使用 remote.Dial
	Output   io.Writer       // 进度输出，为空时不输出
}

func (p *Publisher) printf(format string, args ...interface{}) {
	if p.Output != nil {
		fmt.Fprintf(p.Output, format, args...)
	}
}

// Publish 上传 b 中所有启用文档的 req.Key 变体。
// 任何文档渲染失败都会在建立连接之前返回；上传中途失败时已上传的文件保留在服务器上。
func (p *Publisher) Publish(ctx context.Context, b *bundle.Bundle, req Request) error {
	key := req.key()
	docs := b.Enabled()

	p.printf("[1/3] 渲染文档 (%s):\n", key)
	if err := Materialize(ctx, docs, key); err != nil {
		return err
	}
	p.printf("  ✓ %d 个文档已就绪\n", len(docs))

	conn, basePath := config.Resolve(p.Settings, req.ConfigName, config.Connection{
		Hostname: req.Hostname,
		Login:    req.Login,
		Password: req.Password,
	})
	dest := DestinationPath(req.Path, basePath)

	p.printf("\n[2/3] 连接 %s:\n", conn.Hostname)
	dial := p.Dial
	if dial == nil {
		dial = remote.Dial
	}
	client, err := dial(ctx, conn)
	if err != nil {
		return err
	}
	defer client.Close()

	if req.NewFolder != "" {
		dest = path.Join(dest, req.NewFolder)
		if err := client.Mkdir(ctx, dest); err != nil {
			return err
		}
		p.printf("  ✓ 创建目录 %s\n", dest)
	}

	p.printf("\n[3/3] 上传到 %s:\n", dest)
	for _, doc := range docs {
		local, err := localPath(ctx, doc, key)
		if err != nil {
			return err
		}
		remotePath := path.Join(dest, RemoteName(doc.Filename, local))
		if err := client.UploadFile(ctx, local, remotePath); err != nil {
			return err
		}
		p.printf("  ✓ %s\n", remotePath)
	}

	return nil
}

// Materialize 渲染所有文档的 key 变体并检查声明的文件名，不做任何网络 I/O。
// bundle 的渲染变体由 render.Cached 包装，之后上传阶段再次取路径不会重复渲染。
func Materialize(ctx context.Context, docs []*bundle.Document, key string) error {
	for _, doc := range docs {
		if _, err := localPath(ctx, doc, key); err != nil {
			return err
		}
		if doc.Filename == "" {
			return ErrMissingFilename
		}
	}
	return nil
}

func localPath(ctx context.Context, doc *bundle.Document, key string) (string, error) {
	r, err := doc.Rendering(key)
	if err != nil {
		return "", err
	}
	p, err := r.Path(ctx)
	if err != nil {
		return "", fmt.Errorf("渲染 %s 失败: %w", doc.Filename, err)
	}
	return p, nil
}

// DestinationPath 显式指定的路径（包括空字符串）优先，否则使用配置的默认目录
func DestinationPath(requested *string, basePath string) string {
	if requested != nil {
		return *requested
	}
	return basePath
}

// RemoteName 远程文件名 = 声明文件名去掉扩展名 + 本地渲染文件的扩展名
func RemoteName(declared, localPath string) string {
	base, _ := bundle.SplitExt(path.Base(declared))
	_, ext := bundle.SplitExt(localPath)
	return base + ext
}
