package remote

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/jlaffaye/ftp"

	"github.com/hwuu/docpublish/internal/config"
)

// ftpConn *ftp.ServerConn 中用到的方法，便于 mock
type ftpConn interface {
	MakeDir(path string) error
	Stor(path string, r io.Reader) error
	Quit() error
}

type ftpClient struct {
	conn ftpConn
	root string
}

// NewFTPClient 连接 FTP 服务器并登录，未配置用户名时使用 anonymous
func NewFTPClient(ctx context.Context, u *url.URL, conn config.Connection) (Client, error) {
	addr := hostPort(u, "21")
	c, err := ftp.Dial(addr, ftp.DialWithTimeout(DialTimeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("FTP 连接失败 (%s): %w", addr, err)
	}

	user, password := username(u, conn), conn.Password
	if user == "" {
		user, password = "anonymous", "anonymous"
	}
	if err := c.Login(user, password); err != nil {
		c.Quit()
		return nil, fmt.Errorf("FTP 登录失败: %w", err)
	}

	return &ftpClient{conn: c, root: u.Path}, nil
}

func (c *ftpClient) Mkdir(ctx context.Context, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := rootedPath(c.root, remotePath)
	if err := c.conn.MakeDir(p); err != nil {
		return fmt.Errorf("创建远程目录 %s 失败: %w", p, err)
	}
	return nil
}

func (c *ftpClient) UploadFile(ctx context.Context, localPath, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("打开本地文件 %s 失败: %w", localPath, err)
	}
	defer f.Close()

	p := rootedPath(c.root, remotePath)
	if err := c.conn.Stor(p, f); err != nil {
		return fmt.Errorf("上传 %s 失败: %w", p, err)
	}
	return nil
}

func (c *ftpClient) Close() error {
	return c.conn.Quit()
}
