package registry

// ContentProvider renders the body of an application's windows.
// The window manager never calls it; the presentation layer does.
type ContentProvider interface {
	// Component names the client-side component mounted inside the window
	Component() string
	// Services lists the collaborator services the component may call
	Services() []string
}

type content struct {
	component string
	services  []string
}

func (c content) Component() string { return c.component }

func (c content) Services() []string {
	out := make([]string, len(c.services))
	copy(out, c.services)
	return out
}

// NewContent creates a content provider for a component and its services
func NewContent(component string, services ...string) ContentProvider {
	return content{component: component, services: services}
}

// Catalog maps content keys used in descriptors to providers
type Catalog map[string]ContentProvider

// Content keys understood by DefaultCatalog
const (
	ContentAssistant   = "assistant_chat"
	ContentFileManager = "file_manager"
	ContentBrowser     = "browser"
	ContentTerminal    = "terminal"
	ContentSettings    = "system_settings"
	ContentMedia       = "media_player"
	ContentStore       = "app_store"
	ContentPlaceholder = "placeholder"
)

// DefaultCatalog returns the content providers shipped with the desktop
func DefaultCatalog() Catalog {
	return Catalog{
		ContentAssistant:   NewContent("NexusAI", "assistant"),
		ContentFileManager: NewContent("FileManager", "storage"),
		ContentBrowser:     NewContent("Browser"),
		ContentTerminal:    NewContent("TerminalApp", "terminal"),
		ContentSettings:    NewContent("SystemSettings", "settings"),
		ContentMedia:       NewContent("MediaPlayer"),
		ContentStore:       NewContent("AppStore"),
		ContentPlaceholder: NewContent("Placeholder"),
	}
}
