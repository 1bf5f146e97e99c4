package progress

type MessageType string

const (
	MessageTypeProgress    MessageType = "progress"
	MessageTypeConnected   MessageType = "connected"
	MessageTypeSubscribe   MessageType = "subscribe"
	MessageTypeUnsubscribe MessageType = "unsubscribe"
	MessageTypePing        MessageType = "ping"
	MessageTypePong        MessageType = "pong"
)

type EventType string

const (
	EventChunkReceived   EventType = "chunk_received"
	EventUploadCompleted EventType = "upload_completed"
	EventUploadFailed    EventType = "upload_failed"
)

// Event describes a single step of an upload session's lifecycle.
type Event struct {
	Type        EventType `json:"type"`
	SessionID   string    `json:"sessionId"`
	ChunkIndex  int       `json:"chunkIndex,omitempty"`
	ChunkSize   int       `json:"chunkSize,omitempty"`
	RecordingID string    `json:"recordingId,omitempty"`
	ErrorCode   string    `json:"errorCode,omitempty"`
}

type IncomingMessage struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
}

type OutgoingMessage struct {
	Type   MessageType `json:"type"`
	UserID string      `json:"userId,omitempty"`
}

type ProgressMessage struct {
	Type  MessageType `json:"type"`
	Event *Event      `json:"event"`
}

type broadcastMessage struct {
	ownerID string
	event   *Event
}
