package downloader

import (
	"errors"
	"io"
)

const maxCoverBytes = 20 << 20

var errTooLarge = errors.New("cover exceeds size limit")

// copyLimited copies src to dst and fails once more than limit bytes have
// been read.
func copyLimited(dst io.Writer, src io.Reader, limit int64) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	for {
		nr, er := src.Read(buf)

		if nr > 0 {
			if total+int64(nr) > limit {
				return total, errTooLarge
			}

			nw, ew := dst.Write(buf[0:nr])
			total += int64(nw)

			if ew != nil {
				return total, ew
			}
			if nr != nw {
				return total, io.ErrShortWrite
			}
		}

		if er != nil {
			if er == io.EOF {
				break
			}
			return total, er
		}
	}

	return total, nil
}
