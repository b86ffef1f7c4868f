package jobs

// Task payloads carry only scalars: record ids, the version the record had
// when the task was submitted, and the pre-reserved destination blob key.
// Re-delivering a task re-runs it against the same key, so a duplicate run
// overwrites its own blob instead of leaking a new one.

// UploadPayload moves uploaded photo bytes out of the request cycle. Data
// is base64-encoded by the JSON round trip.
type UploadPayload struct {
	ImageID     string `json:"image_id"`
	BlobKey     string `json:"blob_key"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// BackgroundPayload drives both first-time generation and regeneration of
// a background record; the task type decides which.
type BackgroundPayload struct {
	BackgroundID    string `json:"background_id"`
	BlobKey         string `json:"blob_key"`
	ExpectedVersion int    `json:"expected_version"`
}

// RecreatePayload reworks an existing background with a new concept. The
// parent background id is resolved from the recreated record itself.
type RecreatePayload struct {
	RecreatedID     string `json:"recreated_id"`
	BlobKey         string `json:"blob_key"`
	ExpectedVersion int    `json:"expected_version"`
}

// ResizePayload rescales a finished background or recreated background.
type ResizePayload struct {
	ResizedID       string `json:"resized_id"`
	BlobKey         string `json:"blob_key"`
	ExpectedVersion int    `json:"expected_version"`
}

// BannerPayload generates ad copy for a banner record.
type BannerPayload struct {
	BannerID        string `json:"banner_id"`
	ExpectedVersion int    `json:"expected_version"`
}
