package asset

import (
	"fmt"
	"time"
)

// UploadedAsset is one received recording as stored on disk. Filename is
// assigned at receipt; OriginalName is what the client sent.
type UploadedAsset struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalname"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimetype"`
	ReceivedAt   time.Time `json:"receivedAt"`
}

// StorageError reports a failed filesystem operation while storing or
// reading an asset.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
