package remote

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/webdav"

	"github.com/hwuu/docpublish/internal/config"
)

func writeLocal(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	return p
}

// --- Dial ---

func TestDial_MissingHostname(t *testing.T) {
	_, err := Dial(context.Background(), config.Connection{})
	assert.ErrorIs(t, err, ErrMissingHostname)
}

func TestDial_UnsupportedScheme(t *testing.T) {
	_, err := Dial(context.Background(), config.Connection{Hostname: "s3://bucket/prefix"})
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestDial_WebDAVDoesNotConnect(t *testing.T) {
	c, err := Dial(context.Background(), config.Connection{Hostname: "https://dav.invalid/dav", Login: "a", Password: "b"})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}

func TestHostPort(t *testing.T) {
	u, _ := url.Parse("sftp://files.example.com/base")
	assert.Equal(t, "files.example.com:22", hostPort(u, "22"))

	u, _ = url.Parse("ftp://files.example.com:2121")
	assert.Equal(t, "files.example.com:2121", hostPort(u, "21"))
}

func TestUsername(t *testing.T) {
	u, _ := url.Parse("sftp://bob@files.example.com")
	assert.Equal(t, "bob", username(u, config.Connection{}))
	assert.Equal(t, "alice", username(u, config.Connection{Login: "alice"}))
}

func TestRootedPath(t *testing.T) {
	assert.Equal(t, "/out/a.pdf", rootedPath("", "/out/a.pdf"))
	assert.Equal(t, "/out/a.pdf", rootedPath("/", "/out/a.pdf"))
	assert.Equal(t, "/srv/dav/out/a.pdf", rootedPath("/srv/dav", "/out/a.pdf"))
	assert.Equal(t, "/srv/a.pdf", rootedPath("/srv", "a.pdf"))
}

func TestSSHAuthMethods(t *testing.T) {
	auth, err := sshAuthMethods(config.Connection{Password: "pw"})
	require.NoError(t, err)
	assert.Len(t, auth, 1)

	_, err = sshAuthMethods(config.Connection{KeyFile: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)

	bad := writeLocal(t, "id_rsa", "not a key")
	_, err = sshAuthMethods(config.Connection{KeyFile: bad})
	assert.Error(t, err)
}

// --- SFTP（内存服务端）---

func newTestSFTP(t *testing.T) (*sftpClient, *sftp.Client) {
	return newTestSFTPWith(t, sftp.InMemHandler())
}

func newTestSFTPWith(t *testing.T, handlers sftp.Handlers) (*sftpClient, *sftp.Client) {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	server := sftp.NewRequestServer(serverConn, handlers)
	go server.Serve()

	client, err := sftp.NewClientPipe(clientConn, clientConn)
	require.NoError(t, err)
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return newSFTPClient(client, nil, ""), client
}

func TestSFTP_MkdirAndUpload(t *testing.T) {
	c, raw := newTestSFTP(t)
	ctx := context.Background()

	require.NoError(t, c.Mkdir(ctx, "/out"))
	local := writeLocal(t, "tmp123.pdf", "AAAA")
	require.NoError(t, c.UploadFile(ctx, local, "/out/a.pdf"))

	f, err := raw.Open("/out/a.pdf")
	require.NoError(t, err)
	content, err := io.ReadAll(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, "AAAA", string(content))

	// 同名文件整体覆盖
	local = writeLocal(t, "tmp456.pdf", "BBBB")
	require.NoError(t, c.UploadFile(ctx, local, "/out/a.pdf"))
	f, err = raw.Open("/out/a.pdf")
	require.NoError(t, err)
	content, err = io.ReadAll(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, "BBBB", string(content))
}

func TestSFTP_UploadMissingLocal(t *testing.T) {
	c, _ := newTestSFTP(t)
	err := c.UploadFile(context.Background(), filepath.Join(t.TempDir(), "nope"), "/a.pdf")
	assert.Error(t, err)
}

// closeFailingWriter 写入成功，但关闭时报错（模拟服务端落盘失败）
type closeFailingWriter struct{}

func (closeFailingWriter) WriteAt(p []byte, off int64) (int, error) { return len(p), nil }
func (closeFailingWriter) Close() error                             { return errors.New("disk full") }

type closeFailingPut struct{}

func (closeFailingPut) Filewrite(*sftp.Request) (io.WriterAt, error) {
	return closeFailingWriter{}, nil
}

func TestSFTP_UploadReportsCloseError(t *testing.T) {
	handlers := sftp.InMemHandler()
	handlers.FilePut = closeFailingPut{}
	c, _ := newTestSFTPWith(t, handlers)

	local := writeLocal(t, "tmp123.pdf", "AAAA")
	err := c.UploadFile(context.Background(), local, "/a.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "关闭远程文件 /a.pdf 失败")
}

func TestSFTP_CanceledContext(t *testing.T) {
	c, _ := newTestSFTP(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Mkdir(ctx, "/out"), context.Canceled)
}

// --- WebDAV（x/net/webdav 内存服务端）---

func newTestWebDAV(t *testing.T) (Client, webdav.FileSystem) {
	t.Helper()
	fs := webdav.NewMemFS()
	srv := httptest.NewServer(&webdav.Handler{FileSystem: fs, LockSystem: webdav.NewMemLS()})
	t.Cleanup(srv.Close)
	return NewWebDAVClient(config.Connection{Hostname: srv.URL}), fs
}

func TestWebDAV_MkdirAndUpload(t *testing.T) {
	c, fs := newTestWebDAV(t)
	ctx := context.Background()

	require.NoError(t, c.Mkdir(ctx, "/out"))
	local := writeLocal(t, "tmp123.docx", "hello")
	require.NoError(t, c.UploadFile(ctx, local, "/out/b.docx"))

	f, err := fs.OpenFile(ctx, "/out/b.docx", os.O_RDONLY, 0)
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestWebDAV_MkdirExisting(t *testing.T) {
	c, _ := newTestWebDAV(t)
	ctx := context.Background()

	require.NoError(t, c.Mkdir(ctx, "/out"))
	err := c.Mkdir(ctx, "/out")
	assert.ErrorIs(t, err, ErrDirExists)
}

func TestWebDAV_UploadMissingParent(t *testing.T) {
	c, fs := newTestWebDAV(t)
	ctx := context.Background()

	local := writeLocal(t, "tmp123.pdf", "AAAA")
	err := c.UploadFile(ctx, local, "/nonexistent/deep/a.pdf")
	assert.ErrorIs(t, err, ErrParentNotFound)

	// 不得顺带创建父目录
	_, statErr := fs.Stat(ctx, "/nonexistent")
	assert.True(t, os.IsNotExist(statErr))
}

func TestWebDAV_UploadToRoot(t *testing.T) {
	c, fs := newTestWebDAV(t)
	ctx := context.Background()

	local := writeLocal(t, "tmp123.pdf", "AAAA")
	require.NoError(t, c.UploadFile(ctx, local, "/a.pdf"))
	_, err := fs.Stat(ctx, "/a.pdf")
	assert.NoError(t, err)
}

// --- FTP（mock 连接）---

type mockFTPConn struct {
	MakeDirFunc func(path string) error
	StorFunc    func(path string, r io.Reader) error
	quit        bool
}

func (m *mockFTPConn) MakeDir(path string) error           { return m.MakeDirFunc(path) }
func (m *mockFTPConn) Stor(path string, r io.Reader) error { return m.StorFunc(path, r) }
func (m *mockFTPConn) Quit() error {
	m.quit = true
	return nil
}

func TestFTP_MkdirAndUpload(t *testing.T) {
	var dirs []string
	uploaded := map[string]string{}
	mock := &mockFTPConn{
		MakeDirFunc: func(path string) error {
			dirs = append(dirs, path)
			return nil
		},
		StorFunc: func(path string, r io.Reader) error {
			b, err := io.ReadAll(r)
			uploaded[path] = string(b)
			return err
		},
	}
	c := &ftpClient{conn: mock, root: "/pub"}
	ctx := context.Background()

	require.NoError(t, c.Mkdir(ctx, "/out"))
	require.NoError(t, c.UploadFile(ctx, writeLocal(t, "x.pdf", "pdf"), "/out/a.pdf"))
	require.NoError(t, c.Close())

	assert.Equal(t, []string{"/pub/out"}, dirs)
	assert.Equal(t, map[string]string{"/pub/out/a.pdf": "pdf"}, uploaded)
	assert.True(t, mock.quit)
}

func TestFTP_MkdirError(t *testing.T) {
	mock := &mockFTPConn{
		MakeDirFunc: func(path string) error { return errors.New("550 exists") },
	}
	c := &ftpClient{conn: mock}
	assert.Error(t, c.Mkdir(context.Background(), "/out"))
}
