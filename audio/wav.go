package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	wavHeaderSize = 44
	bitsPerSample = 16
)

var ErrNotWAV = errors.New("not a RIFF/WAVE file")

// EncodeWAV writes the clip as 16-bit PCM mono WAV.
func EncodeWAV(w io.Writer, c *Clip) error {
	dataSize := uint32(len(c.Samples) * bitsPerSample / 8)
	byteRate := uint32(c.Rate * bitsPerSample / 8)
	blockAlign := uint16(bitsPerSample / 8)

	var hdr bytes.Buffer
	hdr.WriteString("RIFF")
	binary.Write(&hdr, binary.LittleEndian, uint32(wavHeaderSize-8)+dataSize)
	hdr.WriteString("WAVE")

	hdr.WriteString("fmt ")
	binary.Write(&hdr, binary.LittleEndian, uint32(16)) // PCM fmt chunk size
	binary.Write(&hdr, binary.LittleEndian, uint16(1))  // PCM
	binary.Write(&hdr, binary.LittleEndian, uint16(1))  // mono
	binary.Write(&hdr, binary.LittleEndian, uint32(c.Rate))
	binary.Write(&hdr, binary.LittleEndian, byteRate)
	binary.Write(&hdr, binary.LittleEndian, blockAlign)
	binary.Write(&hdr, binary.LittleEndian, uint16(bitsPerSample))

	hdr.WriteString("data")
	binary.Write(&hdr, binary.LittleEndian, dataSize)

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return err
	}

	pcm := make([]int16, len(c.Samples))
	for i, s := range c.Samples {
		v := math.Round(float64(s) * math.MaxInt16)
		pcm[i] = int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, v)))
	}
	return binary.Write(w, binary.LittleEndian, pcm)
}

// WriteWAV writes the clip to path as 16-bit PCM mono WAV.
func WriteWAV(path string, c *Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return EncodeWAV(f, c)
}

// DecodeWAV reads a 16-bit PCM WAV file, downmixing to mono when needed.
func DecodeWAV(r io.Reader) (*Clip, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, err
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	var (
		channels uint16
		rate     uint32
		bits     uint16
		data     []byte
	)

	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, err
		}
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch string(chunk[0:4]) {
		case "fmt ":
			fmtChunk := make([]byte, size)
			if _, err := io.ReadFull(r, fmtChunk); err != nil {
				return nil, err
			}
			if format := binary.LittleEndian.Uint16(fmtChunk[0:2]); format != 1 {
				return nil, fmt.Errorf("unsupported WAV format %d, only PCM is supported", format)
			}
			channels = binary.LittleEndian.Uint16(fmtChunk[2:4])
			rate = binary.LittleEndian.Uint32(fmtChunk[4:8])
			bits = binary.LittleEndian.Uint16(fmtChunk[14:16])
		case "data":
			data = make([]byte, size)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, err
			}
		default:
			// skip unknown chunks, padded to even length
			if _, err := io.CopyN(io.Discard, r, int64(size+size%2)); err != nil {
				return nil, err
			}
		}

		if channels > 0 && data != nil {
			break
		}
	}

	if channels == 0 || data == nil {
		return nil, ErrNotWAV
	}
	if bits != bitsPerSample {
		return nil, fmt.Errorf("unsupported WAV bit depth %d, only 16-bit is supported", bits)
	}

	samples := make([]float32, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
		samples[i] = float32(v) / math.MaxInt16
	}

	return &Clip{Samples: Downmix(samples, int(channels)), Rate: int(rate)}, nil
}
