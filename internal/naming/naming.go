// Package naming 根据 bundle 和用户身份生成发布目录名：
// <bundle 基础名>_<UTC 时间戳>_<用户标识>，所有空格替换为下划线。
package naming

import (
	"strings"
	"time"

	"github.com/hwuu/docpublish/internal/bundle"
)

// TimestampLayout 紧凑 ISO-8601，微秒精度，末尾的 Z 由 Timestamp 追加
const TimestampLayout = "20060102T150405.000000"

// Identity 可以产出用户标识的身份
type Identity interface {
	UserToken() string
}

// Name 纯字符串身份，原样使用
type Name string

func (n Name) UserToken() string {
	return string(n)
}

// Person 结构化的人名
type Person struct {
	First  string
	Middle string
	Last   string
	Suffix string
}

// UserToken 有姓时使用 "姓, 名" 形式，否则只用名
func (p Person) UserToken() string {
	if p.Last == "" {
		return p.First
	}
	var sb strings.Builder
	sb.WriteString(p.Last)
	if p.Suffix != "" {
		sb.WriteString(" " + p.Suffix)
	}
	sb.WriteString(", " + p.First)
	if p.Middle != "" {
		sb.WriteString(" " + p.Middle)
	}
	return sb.String()
}

// Timestamp 格式化为 UTC 紧凑时间戳，例如 20240115T093000.123456Z
func Timestamp(now time.Time) string {
	return now.UTC().Format(TimestampLayout) + "Z"
}

// BundlePathName 生成目录名，纯函数
func BundlePathName(bundleFilename string, user Identity, now time.Time) string {
	base, _ := bundle.SplitExt(bundleFilename)
	return pathName(base, user, now)
}

func pathName(base string, user Identity, now time.Time) string {
	token := ""
	if user != nil {
		token = user.UserToken()
	}
	return strings.ReplaceAll(base+"_"+Timestamp(now)+"_"+token, " ", "_")
}

// Generator 带时钟的目录名生成器，Now 为空时使用 time.Now
type Generator struct {
	Now func() time.Time
}

func (g Generator) BundlePathName(b *bundle.Bundle, user Identity) string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return pathName(b.BaseName(), user, now())
}
