package main

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/hwuu/docpublish/internal/config"
	"github.com/hwuu/docpublish/internal/naming"
)

var errMissingUser = errors.New("需要用户身份：--user 或 --first/--last")

func addIdentityFlags(f *pflag.FlagSet, user, first, last *string) {
	f.StringVar(user, "user", "", "用户标识（原样使用）")
	f.StringVar(first, "first", "", "用户名字")
	f.StringVar(last, "last", "", "用户姓氏")
}

// identity 结构化姓名优先；都没有给出时交互输入
func (a *app) identity(user, first, last string) (naming.Identity, error) {
	if first != "" || last != "" {
		return naming.Person{First: first, Last: last}, nil
	}
	if user != "" {
		return naming.Name(user), nil
	}

	input, err := a.prompter.Prompt("请输入用户名: ")
	if err != nil {
		return nil, err
	}
	if input == "" {
		return nil, errMissingUser
	}
	return naming.Name(input), nil
}

func loadSettings(path string) (config.Settings, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}
