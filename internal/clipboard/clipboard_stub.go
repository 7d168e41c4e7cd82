//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

func ensureInit() error { return errUnsupported }

func writeData(format, []byte) error { return errUnsupported }

func readData(format) ([]byte, error) { return nil, errUnsupported }
