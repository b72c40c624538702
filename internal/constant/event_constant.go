package constant

// Event bus topics. Everything published here is fanned out to websocket
// clients so the UI can track long-running work.
const (
	TopicSourceProgress = "source.progress"
	TopicSourceStatus   = "source.status"
	TopicStudioStatus   = "studio.status"
	TopicNotebookEvents = "notebook.events"
)
