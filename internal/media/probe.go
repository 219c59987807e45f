package media

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/sirupsen/logrus"
	"github.com/tcolgate/mp3"
)

// fallbackBitrate (bps) is assumed when an mp3 yields no decodable frames
const fallbackBitrate = 192000

// Prober inspects local track files to recover information the album
// document omits: playback duration and, as a last resort, a display title
// from the file's tags. Results are cached per path; content under the root
// does not change during the process lifetime.
type Prober struct {
	root   string
	logger *logrus.Logger

	mu        sync.RWMutex
	durations map[string]float64
}

// NewProber creates a prober over a local content root
func NewProber(root string, logger *logrus.Logger) *Prober {
	return &Prober{
		root:      root,
		logger:    logger,
		durations: make(map[string]float64),
	}
}

// TrackDuration returns the duration in seconds of the audio file at the
// given content-relative path.
func (p *Prober) TrackDuration(path string) (float64, error) {
	p.mu.RLock()
	cached, ok := p.durations[path]
	p.mu.RUnlock()
	if ok {
		return cached, nil
	}

	full, err := p.resolve(path)
	if err != nil {
		return 0, err
	}

	var secs float64
	switch strings.ToLower(filepath.Ext(full)) {
	case ".mp3":
		secs, err = durationMP3(full)
	case ".flac":
		secs, err = durationFLAC(full)
	case ".wav":
		secs, err = durationWAV(full)
	case ".m4a":
		secs, err = durationM4A(full)
	default:
		return 0, fmt.Errorf("unsupported format: %s", filepath.Ext(full))
	}
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	p.durations[path] = secs
	p.mu.Unlock()

	p.logger.WithFields(logrus.Fields{
		"path":     path,
		"duration": secs,
	}).Debug("Probed track duration")
	return secs, nil
}

// TrackTitle reads a display title from the file's tags, falling back to the
// bare file name when the file carries no usable tag.
func (p *Prober) TrackTitle(path string) (string, error) {
	full, err := p.resolve(path)
	if err != nil {
		return "", err
	}

	f, err := os.Open(full)
	if err != nil {
		return "", err
	}
	defer f.Close()

	base := strings.TrimSuffix(filepath.Base(full), filepath.Ext(full))
	meta, err := tag.ReadFrom(f)
	if err != nil || meta.Title() == "" {
		return base, nil
	}
	return meta.Title(), nil
}

// resolve maps a content-relative path onto the root, rejecting escapes
func (p *Prober) resolve(path string) (string, error) {
	full := filepath.Join(p.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(p.root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %q outside content root", path)
	}
	return full, nil
}

// durationMP3 sums frame durations; if no frame decodes at all, estimate
// from file size assuming an average bitrate.
func durationMP3(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := mp3.NewDecoder(f)
	var total float64
	var skipped int
	frames := 0
	for {
		var fr mp3.Frame
		if err := dec.Decode(&fr, &skipped); err != nil {
			// EOF ends the stream; any other error ends a partial decode
			// and we keep the frames summed so far.
			break
		}
		total += fr.Duration().Seconds()
		frames++
	}
	if frames == 0 {
		return estimateFromSize(path, fallbackBitrate)
	}
	return total, nil
}

// durationFLAC reads sample count and rate from the STREAMINFO block
func durationFLAC(path string) (float64, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return 0, err
	}
	info := stream.Info
	if info.NSamples == 0 || info.SampleRate == 0 {
		return 0, fmt.Errorf("flac stream missing sample info")
	}
	return float64(info.NSamples) / float64(info.SampleRate), nil
}

// durationWAV derives the duration from the header and PCM byte count
func durationWAV(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("invalid wav file")
	}
	if dec.SampleRate == 0 || dec.BitDepth == 0 || dec.NumChans == 0 {
		return 0, fmt.Errorf("invalid wav header")
	}

	st, err := f.Stat()
	if err != nil {
		return 0, err
	}
	pcmBytes := st.Size() - 44 // canonical header size
	if pcmBytes < 0 {
		pcmBytes = 0
	}
	frameSize := int64(dec.BitDepth/8) * int64(dec.NumChans)
	if frameSize <= 0 {
		return 0, fmt.Errorf("invalid sample frame size")
	}
	return float64(pcmBytes/frameSize) / float64(dec.SampleRate), nil
}

// durationM4A scans MP4 atoms for the mvhd timescale and duration. Kept as a
// minimal manual scan rather than pulling a full MP4 parser.
func durationM4A(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	head := make([]byte, 8)
	for {
		if _, err := io.ReadFull(f, head); err != nil {
			return 0, err
		}
		size := binary.BigEndian.Uint32(head[0:4])
		if size < 8 {
			return 0, fmt.Errorf("invalid atom size")
		}
		if string(head[4:8]) == "moov" {
			return scanMoovForDuration(f, int64(size)-8)
		}
		if _, err := f.Seek(int64(size)-8, io.SeekCurrent); err != nil {
			return 0, err
		}
	}
}

// scanMoovForDuration walks the children of a moov atom looking for mvhd
func scanMoovForDuration(f *os.File, limit int64) (float64, error) {
	head := make([]byte, 8)
	for read := int64(0); read < limit; {
		if _, err := io.ReadFull(f, head); err != nil {
			return 0, err
		}
		size := binary.BigEndian.Uint32(head[0:4])
		if size < 8 {
			return 0, fmt.Errorf("invalid sub-atom size")
		}
		if string(head[4:8]) == "mvhd" {
			return readMvhdDuration(f)
		}
		if _, err := f.Seek(int64(size)-8, io.SeekCurrent); err != nil {
			return 0, err
		}
		read += int64(size)
	}
	return 0, fmt.Errorf("mvhd atom not found")
}

// readMvhdDuration reads timescale and duration units from an mvhd atom body
func readMvhdDuration(f *os.File) (float64, error) {
	version := make([]byte, 1)
	if _, err := io.ReadFull(f, version); err != nil {
		return 0, err
	}

	// Skip flags plus the creation and modification times, whose width
	// depends on the atom version.
	skip := int64(3 + 4 + 4)
	if version[0] == 1 {
		skip = 3 + 8 + 8
	}
	if _, err := f.Seek(skip, io.SeekCurrent); err != nil {
		return 0, err
	}

	buf := make([]byte, 8)
	if _, err := io.ReadFull(f, buf); err != nil {
		return 0, err
	}
	timescale := binary.BigEndian.Uint32(buf[0:4])
	units := binary.BigEndian.Uint32(buf[4:8])
	if timescale == 0 {
		return 0, fmt.Errorf("invalid timescale")
	}
	return float64(units) / float64(timescale), nil
}

// estimateFromSize provides a last-resort duration from file size and an
// assumed bitrate.
func estimateFromSize(path string, bitrate int) (float64, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if bitrate <= 0 {
		return 0, fmt.Errorf("invalid bitrate")
	}
	return float64(st.Size()*8) / float64(bitrate), nil
}
