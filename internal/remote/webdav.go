package remote

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/studio-b12/gowebdav"

	"github.com/hwuu/docpublish/internal/config"
)

// webdavClient WebDAV 实现，远程路径相对于 hostname 中的 DAV 根
type webdavClient struct {
	client *gowebdav.Client
}

// NewWebDAVClient 创建 WebDAV 客户端（不会立即建立连接）
func NewWebDAVClient(conn config.Connection) Client {
	c := gowebdav.NewClient(conn.Hostname, conn.Login, conn.Password)
	c.SetTimeout(DialTimeout)
	return &webdavClient{client: c}
}

// Mkdir MKCOL 本身对已存在的目录不报错，这里先 Stat 一次以保持"已存在即失败"的语义
func (c *webdavClient) Mkdir(ctx context.Context, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.client.Stat(remotePath); err == nil {
		return fmt.Errorf("%w: %s", ErrDirExists, remotePath)
	} else if !gowebdav.IsErrNotFound(err) {
		return fmt.Errorf("查询远程目录 %s 失败: %w", remotePath, err)
	}
	if err := c.client.Mkdir(remotePath, 0755); err != nil {
		return fmt.Errorf("创建远程目录 %s 失败: %w", remotePath, err)
	}
	return nil
}

// UploadFile 整体覆盖写入；父目录必须已存在，不会自动创建
func (c *webdavClient) UploadFile(ctx context.Context, localPath, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if parent := path.Dir(remotePath); parent != "." && parent != "/" {
		if _, err := c.client.Stat(parent); err != nil {
			if gowebdav.IsErrNotFound(err) {
				return fmt.Errorf("%w: %s", ErrParentNotFound, parent)
			}
			return fmt.Errorf("查询远程目录 %s 失败: %w", parent, err)
		}
	}
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("打开本地文件 %s 失败: %w", localPath, err)
	}
	defer f.Close()

	if err := c.client.WriteStream(remotePath, f, 0644); err != nil {
		return fmt.Errorf("上传 %s 失败: %w", remotePath, err)
	}
	return nil
}

func (c *webdavClient) Close() error {
	return nil
}
