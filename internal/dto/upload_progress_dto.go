package dto

// UploadProgressDTO is the JSON body of the upload progress endpoint.
type UploadProgressDTO struct {
	ID        string `json:"id"`
	State     string `json:"state"`
	Uploading bool   `json:"uploading"`
	Progress  int    `json:"progress"`
	FileName  string `json:"file_name,omitempty"`
	Error     string `json:"error,omitempty"`
}
