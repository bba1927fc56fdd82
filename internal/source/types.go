package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (overlay, test, generated).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileHasCRLF
)

// File captures metadata and content for a single source file.
// Content is kept byte-for-byte as read: offsets must agree with the ones
// reported by go/token for the same file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
