package cvmatch

// Decoder extracts plain text from a local document.
// Register one with WithDecoder to support additional file types.
type Decoder interface {
	Decode(path string) (string, error)
}
