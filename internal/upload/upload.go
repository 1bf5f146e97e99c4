package upload

// OpenSessionResponse acknowledges a newly opened upload session.
type OpenSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// ChunkAck acknowledges one stored chunk. Re-sending an index overwrites the
// previous bytes and acks again, which makes client retries safe.
type ChunkAck struct {
	Received bool `json:"received"`
	Index    int  `json:"index"`
}

// FinalizeRequest carries the metadata needed to assemble and register the
// recording. TotalChunks is declared by the client; the chunks themselves
// are already in temporary storage.
type FinalizeRequest struct {
	TotalChunks int    `json:"totalChunks"`
	Filename    string `json:"filename"`
	MimeType    string `json:"mimeType"`
	DurationMs  int64  `json:"durationMs"`
}

// FinalizeResponse describes the durable artifact.
type FinalizeResponse struct {
	FileID string `json:"fileId"`
	URL    string `json:"url"`
	Size   int64  `json:"size"`
}
