package data

// OpenOptions is the flag record handed to FileSystem.OpenOptions.
// Flags are independent; which combinations are accepted is up to the substrate.
type OpenOptions struct {
	Read     bool `json:"read"`
	Write    bool `json:"write"`
	Create   bool `json:"create"`
	Truncate bool `json:"truncate"`
}

func (o OpenOptions) WithRead(read bool) OpenOptions {
	o.Read = read
	return o
}

func (o OpenOptions) WithWrite(write bool) OpenOptions {
	o.Write = write
	return o
}

func (o OpenOptions) WithCreate(create bool) OpenOptions {
	o.Create = create
	return o
}

func (o OpenOptions) WithTruncate(truncate bool) OpenOptions {
	o.Truncate = truncate
	return o
}

// AccessMode represents file access modes as a bitmask.
type AccessMode int

// These can be combined using bitwise OR.
const (
	AccessModeRead   AccessMode = 1 << iota // O_RDONLY: open for reading
	AccessModeWrite                         // O_WRONLY: open for writing
	AccessModeCreate                        // O_CREAT:  create if not exists
	AccessModeTrunc                         // O_TRUNC:  truncate on open
)

// Options converts the bitmask into the equivalent OpenOptions.
func (m AccessMode) Options() OpenOptions {
	return OpenOptions{
		Read:     m&AccessModeRead != 0,
		Write:    m&AccessModeWrite != 0,
		Create:   m&AccessModeCreate != 0,
		Truncate: m&AccessModeTrunc != 0,
	}
}
