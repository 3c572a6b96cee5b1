package constant

// In-process pubsub topics.
const (
	TopicDocumentChanged = "document.changed"
)
