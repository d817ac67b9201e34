// Package codec wraps raw file descriptors with a text-encoding shim: the
// core pipeline operates on already-decoded text (see internal/framer,
// internal/classify) and already-encoded bytes go out through this package
// at the sink boundary. Decoding failures replace the offending byte
// sequence with the Unicode replacement character and continue rather than
// aborting.
package codec

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/drmikehenry/ptee/internal/ptrerr"
)

// Lookup resolves an --encoding name (e.g. "utf-8", "iso-8859-1",
// "shift_jis") to an encoding.Encoding via the IANA registry. An unknown
// name is a ConfigError, caught at startup before any streaming begins.
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" || name == "utf-8" || name == "UTF-8" {
		return encoding.Nop, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: unknown encoding %q", ptrerr.ErrConfig, name)
	}
	return enc, nil
}

// DecodeReader wraps r so bytes read through it are already transcoded to
// UTF-8. Malformed sequences are replaced with the Unicode replacement
// character by the decoder itself rather than aborting the read; any other
// error surfacing from the underlying transform is reported as a
// DecodeError.
func DecodeReader(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == encoding.Nop {
		// UTF-8 input still goes through a decoder so malformed sequences
		// are replaced rather than passed through.
		enc = unicode.UTF8
	}
	return &decodeReader{tr: transform.NewReader(r, enc.NewDecoder())}
}

type decodeReader struct {
	tr io.Reader
}

func (d *decodeReader) Read(p []byte) (int, error) {
	n, err := d.tr.Read(p)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("%w: %v", ptrerr.ErrDecode, err)
	}
	return n, err
}

// EncodeWriter wraps w so writes through it are transcoded from UTF-8 to
// enc before hitting the underlying sink.
func EncodeWriter(w io.Writer, enc encoding.Encoding) io.Writer {
	if enc == encoding.Nop {
		return w
	}
	return transform.NewWriter(w, enc.NewEncoder())
}
