// Package remote 抽象远程文件服务器：创建目录和上传文件。
// 按 hostname 的 scheme 选择传输实现：http/https → WebDAV，sftp → SFTP，ftp → FTP。
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/hwuu/docpublish/internal/config"
)

var (
	ErrMissingHostname   = errors.New("remote hostname is not configured")
	ErrUnsupportedScheme = errors.New("unsupported remote scheme")
	ErrDirExists         = errors.New("remote directory already exists")
	ErrParentNotFound    = errors.New("remote parent directory not found")
)

// DialTimeout 建立连接的超时时间
const DialTimeout = 10 * time.Second

// Client 远程文件服务器客户端，支持 mock 测试
type Client interface {
	// Mkdir 创建单层目录，目录已存在时返回错误
	Mkdir(ctx context.Context, remotePath string) error
	// UploadFile 上传本地文件，覆盖同名远程文件
	UploadFile(ctx context.Context, localPath, remotePath string) error
	Close() error
}

// DialFunc 根据连接参数建立客户端
type DialFunc func(ctx context.Context, conn config.Connection) (Client, error)

// Dial 按 hostname 的 scheme 选择传输实现
func Dial(ctx context.Context, conn config.Connection) (Client, error) {
	if conn.Hostname == "" {
		return nil, ErrMissingHostname
	}
	u, err := url.Parse(conn.Hostname)
	if err != nil {
		return nil, fmt.Errorf("invalid hostname %q: %w", conn.Hostname, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewWebDAVClient(conn), nil
	case "sftp":
		return NewSFTPClient(ctx, u, conn)
	case "ftp":
		return NewFTPClient(ctx, u, conn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func hostPort(u *url.URL, defaultPort string) string {
	port := u.Port()
	if port == "" {
		port = defaultPort
	}
	return net.JoinHostPort(u.Hostname(), port)
}

func username(u *url.URL, conn config.Connection) string {
	if conn.Login != "" {
		return conn.Login
	}
	if u.User != nil {
		return u.User.Username()
	}
	return ""
}

// rootedPath 把远程路径挂到 URL 中的路径前缀下
func rootedPath(root, p string) string {
	if root == "" || root == "/" {
		return p
	}
	return path.Join(root, p)
}
