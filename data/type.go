package data

// FileSystemTag identifies the substrate behind a FileSystem.
type FileSystemTag string

const (
	FileSystemLocal  FileSystemTag = "local"
	FileSystemMemory FileSystemTag = "memory"
	FileSystemS3     FileSystemTag = "s3"
	FileSystemMount  FileSystemTag = "mount"
)

func (t FileSystemTag) String() string {
	return string(t)
}
