package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hwuu/docpublish/internal/bundle"
	"github.com/hwuu/docpublish/internal/config"
	"github.com/hwuu/docpublish/internal/naming"
	"github.com/hwuu/docpublish/internal/publish"
	"github.com/hwuu/docpublish/internal/remote"
)

// 构建时通过 ldflags 注入
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app CLI 的外部依赖，测试时替换
type app struct {
	prompter *config.Prompter
	dial     remote.DialFunc
	now      func() time.Time
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "docpublish",
		Short:         "把文档包上传到 WebDAV / SFTP / FTP 服务器",
		Long:          "docpublish — 渲染文档包中启用的文档，并上传到远程文件服务器（可选新建发布目录）。",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newPublishCmd(a))
	rootCmd.AddCommand(newFolderNameCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

type publishOptions struct {
	path       string
	newFolder  string
	autoFolder bool
	key        string
	configName string
	configFile string
	hostname   string
	login      string
	password   string
	user       string
	first      string
	last       string
}

func newPublishCmd(a *app) *cobra.Command {
	opts := &publishOptions{}
	cmd := &cobra.Command{
		Use:   "publish MANIFEST",
		Short: "上传文档包中启用的文档",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPublish(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.path, "path", "", "远程目标目录（默认取配置段的 default_path）")
	f.StringVar(&opts.newFolder, "new-folder", "", "在目标目录下新建的子目录")
	f.BoolVar(&opts.autoFolder, "auto-folder", false, "按 <bundle>_<时间戳>_<用户> 自动生成子目录")
	f.StringVar(&opts.key, "key", publish.DefaultRenderingKey, "渲染变体")
	f.StringVar(&opts.configName, "config", config.DefaultSectionName, "配置段名")
	f.StringVar(&opts.configFile, "config-file", "", "配置文件路径（默认 ~/.docpublish/config.yml）")
	f.StringVar(&opts.hostname, "hostname", "", "服务器地址，如 https://dav.example.com/dav")
	f.StringVar(&opts.login, "login", "", "用户名（指定后忽略配置段）")
	f.StringVar(&opts.password, "password", "", "密码（指定 --login 但未给出时交互输入）")
	addIdentityFlags(f, &opts.user, &opts.first, &opts.last)
	cmd.MarkFlagsMutuallyExclusive("new-folder", "auto-folder")

	return cmd
}

func (a *app) runPublish(cmd *cobra.Command, manifest string, opts *publishOptions) error {
	settings, err := loadSettings(opts.configFile)
	if err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", "docpublish-")
	if err != nil {
		return fmt.Errorf("创建工作目录失败: %w", err)
	}
	defer os.RemoveAll(workDir)

	b, err := bundle.LoadManifest(manifest, workDir)
	if err != nil {
		return err
	}

	req := publish.NewRequest()
	req.Key = opts.key
	req.ConfigName = opts.configName
	req.Hostname = opts.hostname
	req.Login = opts.login
	req.Password = opts.password
	req.NewFolder = opts.newFolder
	if cmd.Flags().Changed("path") {
		req.Path = publish.StringPtr(opts.path)
	}

	if req.Login != "" && req.Password == "" {
		password, err := a.prompter.PromptPassword(fmt.Sprintf("请输入 %s 的密码: ", req.Login))
		if err != nil {
			return err
		}
		req.Password = password
	}

	if opts.autoFolder {
		user, err := a.identity(opts.user, opts.first, opts.last)
		if err != nil {
			return err
		}
		req.NewFolder = naming.Generator{Now: a.now}.BundlePathName(b, user)
	}

	p := &publish.Publisher{
		Settings: settings,
		Dial:     a.dial,
		Output:   cmd.OutOrStdout(),
	}
	if err := p.Publish(cmd.Context(), b, req); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\n✓ 发布完成")
	return nil
}

func newFolderNameCmd(a *app) *cobra.Command {
	var user, first, last string
	cmd := &cobra.Command{
		Use:   "folder-name MANIFEST",
		Short: "生成发布目录名",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bundle.LoadManifest(args[0], "")
			if err != nil {
				return err
			}
			identity, err := a.identity(user, first, last)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), naming.Generator{Now: a.now}.BundlePathName(b, identity))
			return nil
		},
	}
	addIdentityFlags(cmd.Flags(), &user, &first, &last)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "docpublish %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
			fmt.Fprintf(out, "  go:     %s\n", runtime.Version())
		},
	}
}

func main() {
	// .env 可选，不存在时忽略
	_ = godotenv.Load()

	a := &app{
		prompter: config.NewDefaultPrompter(),
		dial:     remote.Dial,
		now:      time.Now,
	}
	if err := newRootCmd(a).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
