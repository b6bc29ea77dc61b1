package overlay

// Command 客户端 AJAX 命令
type Command map[string]interface{}

// DialogOptions 浮层对话框尺寸，零值交给客户端默认值
type DialogOptions struct {
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Title  string `json:"title,omitempty"`
}

// NewOverlayCommands 把渲染片段封装为命令列表
// 片段附带客户端设置时先发送 settings 命令。
func NewOverlayCommands(f *Fragment, dialog DialogOptions) []Command {
	var commands []Command

	if len(f.Attached.Settings) > 0 {
		commands = append(commands, Command{
			"command":  "settings",
			"settings": f.Attached.Settings,
			"merge":    true,
		})
	}

	if dialog.Title == "" {
		dialog.Title = f.Entity.Title
	}

	commands = append(commands, Command{
		"command":         "entityOverlay",
		"selector":        "#" + f.ContainerID,
		"entity_type_id":  f.Entity.Type,
		"entity_id":       f.Entity.ID,
		"entity_title":    f.Entity.Title,
		"view_mode":       f.ViewMode,
		"container_class": f.ContainerClass,
		"rendered_entity": f.Markup,
		"dialog_options":  dialog,
	})

	return commands
}
