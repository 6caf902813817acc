package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"

	"golang.org/x/image/riff"
)

/*
RIFF "PAL " files hold one LOGPALETTE per "data" chunk:

typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

const palVersion = 3

// ReadFrom decodes every palette found in a RIFF PAL stream, including those
// nested in LIST chunks.
func ReadFrom(r io.Reader) ([]color.Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %q", string(formType[:]))
	}

	return readPalettes(rd, string(formType[:]))
}

func readPalettes(r *riff.Reader, ident string) ([]color.Palette, error) {
	var res []color.Palette

	for {
		id, size, data, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return res, nil
			}
			return res, fmt.Errorf("could not read chunk %q#%d: %w", ident, len(res), err)
		}

		switch id {
		case riff.LIST:
			listType, list, err := riff.NewListReader(size, data)
			if err != nil {
				return res, fmt.Errorf("could not read list from chunk %q#%d: %w", ident, len(res), err)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %q#%d unsupported list type: %q", ident, len(res), string(listType[:]))
			}

			nested, err := readPalettes(list, fmt.Sprintf("%s%d.%s", ident, len(res), listType[:]))
			res = append(res, nested...)
			if err != nil {
				return res, err
			}
		case dataType:
			pal, err := readPalette(data, fmt.Sprintf("%s%d", ident, len(res)))
			if err != nil {
				return res, err
			}
			res = append(res, pal)
		default:
			return res, fmt.Errorf("unsupported chunk type in %q#%d: %q", ident, len(res), string(id[:]))
		}
	}
}

func readPalette(r io.Reader, ident string) (color.Palette, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("could not read header of chunk %s: %w", ident, err)
	}

	if ver := binary.BigEndian.Uint16(header[:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk %s: %d", ident, ver)
	}

	count := binary.LittleEndian.Uint16(header[2:])
	res := make(color.Palette, count)
	var entry [4]byte
	for i := range count {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return res[:i], fmt.Errorf("could not read color %d/%d from chunk %s: %w", i, count, ident, err)
		}

		res[i] = color.RGBA{
			R: entry[0],
			G: entry[1],
			B: entry[2],
			A: 0xff,
		}
	}

	return res, nil
}

// countingWriter remembers the first error and how many bytes went out.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) write(b []byte) {
	if cw.err != nil {
		return
	}
	n, err := cw.w.Write(b)
	cw.n += int64(n)
	if err == nil && n != len(b) {
		err = fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}
	cw.err = err
}

// WriteTo encodes pals as a RIFF PAL stream with one data chunk per palette
// and returns the number of bytes written.
func WriteTo(w io.Writer, pals []color.Palette) (int64, error) {
	size := 4
	for _, pal := range pals {
		if len(pal) > 0xffff {
			return 0, fmt.Errorf("palette with %d colors does not fit a PAL chunk", len(pal))
		}
		size += 4 + 4 + chunkSize(pal) // chunk id + chunk size + payload
	}

	cw := &countingWriter{w: w}
	cw.write(riffType[:])
	cw.write(binary.LittleEndian.AppendUint32(nil, uint32(size)))
	cw.write(palType[:])
	if cw.err != nil {
		return cw.n, fmt.Errorf("could not write RIFF header: %w", cw.err)
	}

	for i, pal := range pals {
		writePalette(cw, pal)
		if cw.err != nil {
			return cw.n, fmt.Errorf("could not write chunk %d: %w", i, cw.err)
		}
	}

	return cw.n, nil
}

// chunkSize is palVersion + palNumEntries + 4 bytes per color.
func chunkSize(pal color.Palette) int {
	return 4 + len(pal)*4
}

func writePalette(cw *countingWriter, pal color.Palette) {
	cw.write(dataType[:])
	cw.write(binary.LittleEndian.AppendUint32(nil, uint32(chunkSize(pal))))
	cw.write(binary.BigEndian.AppendUint16(nil, palVersion))
	cw.write(binary.LittleEndian.AppendUint16(nil, uint16(len(pal))))

	for _, col := range pal {
		c := color.RGBAModel.Convert(col).(color.RGBA)
		cw.write([]byte{c.R, c.G, c.B, 0x00})
	}
}
