package registry

import "github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"

// Builtin returns the default application catalogue in dock order.
// Every entry is single-instance.
func Builtin() []types.ApplicationDescriptor {
	return []types.ApplicationDescriptor{
		{ID: "nexus_ai", Title: "Nexus AI", Icon: "bot", DefaultWidth: 450, DefaultHeight: 600, Singleton: true, Content: ContentAssistant},
		{ID: "finder", Title: "Data Grid", Icon: "folder", DefaultWidth: 900, DefaultHeight: 550, Singleton: true, Content: ContentFileManager},
		{ID: "browser", Title: "HoloNet", Icon: "globe", DefaultWidth: 1100, DefaultHeight: 700, Singleton: true, Content: ContentBrowser},
		{ID: "terminal", Title: "Terminal", Icon: "terminal", DefaultWidth: 700, DefaultHeight: 450, Singleton: true, Content: ContentTerminal},
		{ID: "settings", Title: "Sys Config", Icon: "settings", DefaultWidth: 800, DefaultHeight: 550, Singleton: true, Content: ContentSettings},
		{ID: "media_player", Title: "Sonic", Icon: "music", DefaultWidth: 800, DefaultHeight: 500, Singleton: true, Content: ContentMedia},
		{ID: "app_store", Title: "Market", Icon: "shopping-bag", DefaultWidth: 900, DefaultHeight: 600, Singleton: true, Content: ContentStore},
		{ID: "calculator", Title: "Calc", Icon: "calculator", DefaultWidth: 320, DefaultHeight: 450, Singleton: true, Content: ContentPlaceholder},
	}
}
