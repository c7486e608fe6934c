package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSectionName = "webdav"
	DefaultBasePath    = "/"
)

var ErrConfigCorrupted = errors.New("config file corrupted")

// envRef 只匹配 ${VAR} 形式，单独的 $ 保持原样（密码中可能包含 $）
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Section 配置文件中的一个具名连接段
type Section struct {
	Hostname    string  `yaml:"webdav_hostname"`
	Login       string  `yaml:"webdav_login"`
	Password    string  `yaml:"webdav_password"`
	DefaultPath *string `yaml:"default_path"` // nil 表示未配置，回退到 "/"
	KeyFile     string  `yaml:"ssh_key_file,omitempty"`
}

// Settings 段名 → 连接段
type Settings map[string]Section

// Connection 传给远程客户端的连接参数
type Connection struct {
	Hostname string
	Login    string
	Password string
	KeyFile  string
}

// Connection 转换为连接参数
func (s Section) Connection() Connection {
	return Connection{
		Hostname: s.Hostname,
		Login:    s.Login,
		Password: s.Password,
		KeyFile:  s.KeyFile,
	}
}

// BasePath 返回该段的默认远程目录
func (s Section) BasePath() string {
	if s.DefaultPath == nil {
		return DefaultBasePath
	}
	return *s.DefaultPath
}

// Load 从默认路径加载配置
func Load() (Settings, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom 从指定路径加载配置。文件不存在时返回空配置（仍可使用显式连接参数）。
// 内容中的 ${VAR} 会按环境变量展开。
func LoadFrom(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 配置内容
func Parse(data []byte) (Settings, error) {
	settings := Settings{}
	if err := yaml.Unmarshal(expandEnvRefs(data), &settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigCorrupted, err)
	}
	return settings, nil
}

// expandEnvRefs 把 ${VAR} 替换为环境变量的值（未设置时为空）
func expandEnvRefs(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envRef.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// Resolve 决定本次发布使用的连接参数和默认远程目录。
// 未显式给出 login 且给了段名时使用配置段（段不存在视为空段）；否则使用显式参数，默认目录为 "/"。
func Resolve(settings Settings, sectionName string, explicit Connection) (Connection, string) {
	if explicit.Login == "" && sectionName != "" {
		section := settings[sectionName]
		return section.Connection(), section.BasePath()
	}
	return explicit, DefaultBasePath
}
