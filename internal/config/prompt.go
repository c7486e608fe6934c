// prompt.go 提供 CLI 交互式输入：普通文本和掩码显示的密码，用于补全缺失的连接参数。
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter 封装 CLI 交互式输入，通过 reader/writer 抽象支持 mock 测试
type Prompter struct {
	reader  io.Reader
	writer  io.Writer
	scanner *bufio.Scanner
}

// NewPrompter 创建 Prompter（指定输入输出流）
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	return &Prompter{
		reader:  reader,
		writer:  writer,
		scanner: bufio.NewScanner(reader),
	}
}

// NewDefaultPrompter 创建使用 stdin/stdout 的默认 Prompter
func NewDefaultPrompter() *Prompter {
	return NewPrompter(os.Stdin, os.Stdout)
}

// Prompt 显示提示信息并读取一行输入
func (p *Prompter) Prompt(message string) (string, error) {
	fmt.Fprint(p.writer, message)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// PromptPassword 密码输入，终端模式下每个字符显示为 *，支持退格删除。
// 非终端输入（管道、测试）退化为普通文本读取。
func (p *Prompter) PromptPassword(message string) (string, error) {
	fmt.Fprint(p.writer, message)

	if f, ok := p.reader.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := readPassword(f, p.writer)
		if err != nil {
			return "", err
		}
		fmt.Fprintln(p.writer)
		return string(password), nil
	}

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// readPassword 从终端读取密码，每输入一个字符显示 *，支持退格删除。
// 通过 term.MakeRaw 进入原始模式逐字符读取，退出时恢复终端状态。
func readPassword(f *os.File, w io.Writer) ([]byte, error) {
	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return term.ReadPassword(fd)
	}
	defer term.Restore(fd, oldState)

	var password []byte
	buf := make([]byte, 1)
	for {
		n, err := f.Read(buf)
		if err != nil || n == 0 {
			break
		}
		ch := buf[0]
		switch {
		case ch == '\r' || ch == '\n':
			return password, nil
		case ch == 3: // Ctrl+C
			return nil, fmt.Errorf("interrupted")
		case ch == 127 || ch == 8: // Backspace / Delete
			if len(password) > 0 {
				password = password[:len(password)-1]
				w.Write([]byte("\b \b"))
			}
		default:
			password = append(password, ch)
			w.Write([]byte("*"))
		}
	}
	return password, nil
}
