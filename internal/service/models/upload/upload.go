package upload

// File is an uploaded file read fully into memory.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}
