package assets

import (
	"embed"
	"io/fs"

	"entityoverlay/internal/overlay"
)

//go:embed static/*.js
var embedded embed.FS

// Prefix 客户端脚本的挂载路径
const Prefix = "/assets"

// libraries 库名到脚本文件，按加载顺序排列
var libraries = []struct {
	name string
	file string
}{
	{overlay.LibraryCommands, "commands.js"},
	{overlay.LibraryBehaviors, "behaviors.js"},
}

// FS 内置客户端脚本
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		return embedded
	}
	return sub
}

// Scripts 渲染结果所需库对应的脚本路径，未知库被忽略
func Scripts(names []string) []string {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var scripts []string
	for _, lib := range libraries {
		if wanted[lib.name] {
			scripts = append(scripts, Prefix+"/"+lib.file)
		}
	}
	return scripts
}
