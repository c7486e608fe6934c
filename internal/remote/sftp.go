package remote

// sftp.go 提供基于 SSH 的 SFTP 实现。认证方式：ssh_key_file 私钥和/或密码。

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/hwuu/docpublish/internal/config"
)

// sftpClient SFTP 实现
type sftpClient struct {
	client *sftp.Client
	conn   io.Closer // 底层 SSH 连接
	root   string
}

// NewSFTPClient 通过 SSH 建立 SFTP 客户端，端口缺省为 22
func NewSFTPClient(ctx context.Context, u *url.URL, conn config.Connection) (Client, error) {
	auth, err := sshAuthMethods(conn)
	if err != nil {
		return nil, err
	}

	sshConfig := &ssh.ClientConfig{
		User:            username(u, conn),
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         DialTimeout,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	addr := hostPort(u, "22")
	sshConn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("SSH 连接失败 (%s): %w", addr, err)
	}

	sftpConn, err := sftp.NewClient(sshConn)
	if err != nil {
		sshConn.Close()
		return nil, fmt.Errorf("SFTP 连接失败: %w", err)
	}

	return newSFTPClient(sftpConn, sshConn, u.Path), nil
}

func newSFTPClient(client *sftp.Client, conn io.Closer, root string) *sftpClient {
	return &sftpClient{client: client, conn: conn, root: root}
}

func sshAuthMethods(conn config.Connection) ([]ssh.AuthMethod, error) {
	var auth []ssh.AuthMethod
	if conn.KeyFile != "" {
		keyPath, err := config.ExpandHome(conn.KeyFile)
		if err != nil {
			return nil, err
		}
		privateKey, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("读取 SSH 私钥失败: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(privateKey)
		if err != nil {
			return nil, fmt.Errorf("解析 SSH 私钥失败: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if conn.Password != "" {
		auth = append(auth, ssh.Password(conn.Password))
	}
	return auth, nil
}

func (c *sftpClient) Mkdir(ctx context.Context, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := rootedPath(c.root, remotePath)
	if err := c.client.Mkdir(p); err != nil {
		return fmt.Errorf("创建远程目录 %s 失败: %w", p, err)
	}
	return nil
}

// UploadFile 以截断方式写入远程文件（整体覆盖）
func (c *sftpClient) UploadFile(ctx context.Context, localPath, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("打开本地文件 %s 失败: %w", localPath, err)
	}
	defer src.Close()

	p := rootedPath(c.root, remotePath)
	dst, err := c.client.Create(p)
	if err != nil {
		return fmt.Errorf("创建远程文件 %s 失败: %w", p, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("写入远程文件 %s 失败: %w", p, err)
	}
	// 服务端可能在关闭时才报告写入失败
	if err := dst.Close(); err != nil {
		return fmt.Errorf("关闭远程文件 %s 失败: %w", p, err)
	}
	return nil
}

func (c *sftpClient) Close() error {
	c.client.Close()
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
