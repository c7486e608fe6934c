// Package config 管理 docpublish 的配置：~/.docpublish/config.yml 中的具名连接段、
// 连接参数解析，以及 CLI 交互式输入。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	StateDirName   = ".docpublish" // 配置目录，位于用户 home 下
	ConfigFileName = "config.yml"  // 配置文件名
)

// GetStateDir 返回配置目录路径（~/.docpublish/）
func GetStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, StateDirName), nil
}

// GetConfigPath 返回配置文件完整路径（~/.docpublish/config.yml）
func GetConfigPath() (string, error) {
	stateDir, err := GetStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(stateDir, ConfigFileName), nil
}

// ExpandHome 将 ~/ 开头的路径解析为基于用户 home 目录的绝对路径，其他路径原样返回
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
