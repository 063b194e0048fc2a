package data

// FileMeta is a snapshot of one directory entry taken while listing.
type FileMeta struct {
	Path Path   `json:"path"`
	Size uint64 `json:"size"`
}
