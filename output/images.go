package output

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/frame"
	"github.com/scenelab/scenedetect/scene"
	"github.com/scenelab/scenedetect/timecode"
)

// ImageFormat selects the still-image codec SaveSceneImages encodes
// with.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
)

// ImageOptions configures SaveSceneImages.
type ImageOptions struct {
	Dir         string
	NumImages   int // images captured per scene, evenly spaced; default 3
	Format      ImageFormat
	JPEGQuality int // default 95, only used for FormatJPEG
	Concurrency int // worker pool size; default runtime.NumCPU()

	// VideoName fills the $VIDEO_NAME template variable.
	VideoName string

	// FilenameTemplate names the written files (without extension).
	// Recognized variables: $VIDEO_NAME, $SCENE_NUMBER, $IMAGE_NUMBER,
	// $FRAME_NUMBER, $TIMECODE, $TIMESTAMP_MS. Scene and image numbers
	// are zero-padded to the widest value in the run. Empty selects
	// "scene-$SCENE_NUMBER-$IMAGE_NUMBER".
	FilenameTemplate string

	// FrameMargin keeps captured frames this many frames away from
	// both cut boundaries, so shots don't land on transition frames.
	FrameMargin int64

	// Width and Height resize the captured frames before encoding.
	// When only one is set the other is derived to preserve aspect
	// ratio. Scale multiplies both source dimensions instead; Width/
	// Height take precedence when both are given. Zero values keep the
	// source resolution.
	Width, Height int
	Scale         float64
}

// FrameFetcher retrieves the decoded frame nearest to t. output stays
// decoder-agnostic: callers typically close over a seekable
// frame.Source here.
type FrameFetcher func(t timecode.Timecode) (*frame.Frame, error)

// SaveSceneImages captures ImageOptions.NumImages evenly spaced frames
// from each scene and writes them to Dir, named by FilenameTemplate
// (default "scene-$SCENE_NUMBER-$IMAGE_NUMBER") plus the format's
// extension. It
// fans work out across a bounded worker pool sized by Concurrency,
// mirroring the producer-limiting pattern used to cap concurrent ffmpeg
// invocations during test fixture generation: encoding is CPU-bound, so
// unbounded goroutines would just thrash the scheduler.
func SaveSceneImages(scenes []scene.Scene, fetch FrameFetcher, opts ImageOptions) error {
	if opts.NumImages <= 0 {
		opts.NumImages = 3
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 95
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return &errs.IoError{Op: "create image output dir", Err: err}
	}

	tmpl := opts.FilenameTemplate
	if tmpl == "" {
		tmpl = "scene-$SCENE_NUMBER-$IMAGE_NUMBER"
	}
	sceneDigits := digitsFor(len(scenes))
	imageDigits := digitsFor(opts.NumImages)

	type job struct {
		sceneIdx, shotIdx int
		tc                timecode.Timecode
	}
	var jobs []job
	for si, s := range scenes {
		for k := 0; k < opts.NumImages; k++ {
			jobs = append(jobs, job{sceneIdx: si, shotIdx: k, tc: shotTimecode(s, k, opts.NumImages, opts.FrameMargin)})
		}
	}

	sem := make(chan struct{}, concurrency)
	g := new(errgroup.Group)

	for _, j := range jobs {
		j := j
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			f, err := fetch(j.tc)
			if err != nil {
				return &errs.IoError{Op: fmt.Sprintf("fetch frame for scene %d shot %d", j.sceneIdx+1, j.shotIdx+1), Err: err}
			}
			name := expandImageName(tmpl, opts.VideoName, j.sceneIdx+1, sceneDigits, j.shotIdx+1, imageDigits, j.tc) +
				"." + extensionFor(opts.Format)
			return writeImage(filepath.Join(opts.Dir, name), f, opts)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return nil
}

// shotTimecode picks the k-th of n evenly spaced frames within s,
// shrunk by margin frames at both ends so shots avoid landing on the
// transition frames around each cut. For n >= 2 the spacing includes
// both endpoints of the shrunk interval.
func shotTimecode(s scene.Scene, k, n int, margin int64) timecode.Timecode {
	length := s.Len()
	if length <= 0 {
		return s.Start
	}
	start, avail := s.Start, length
	if margin > 0 && length > 2*margin {
		start = s.Start.AddFrames(margin)
		avail = length - 2*margin
	}
	if n == 1 {
		return start.AddFrames(avail / 2)
	}
	offset := avail * int64(k) / int64(n-1)
	if offset >= avail {
		offset = avail - 1
	}
	return start.AddFrames(offset)
}

// digitsFor returns the decimal width needed to print n, minimum 1.
func digitsFor(n int) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}

// expandImageName substitutes the filename template variables for one
// captured shot.
func expandImageName(tmpl, videoName string, sceneNum, sceneDigits, imageNum, imageDigits int, tc timecode.Timecode) string {
	r := strings.NewReplacer(
		"$VIDEO_NAME", videoName,
		"$SCENE_NUMBER", fmt.Sprintf("%0*d", sceneDigits, sceneNum),
		"$IMAGE_NUMBER", fmt.Sprintf("%0*d", imageDigits, imageNum),
		"$FRAME_NUMBER", strconv.FormatInt(tc.ToFrames(), 10),
		"$TIMECODE", strings.ReplaceAll(tc.ToString(), ":", ";"),
		"$TIMESTAMP_MS", strconv.FormatInt(int64(tc.ToSeconds()*1000+0.5), 10),
	)
	return r.Replace(tmpl)
}

func extensionFor(f ImageFormat) string {
	if f == FormatPNG {
		return "png"
	}
	return "jpg"
}

func writeImage(path string, f *frame.Frame, opts ImageOptions) error {
	out, err := os.Create(path)
	if err != nil {
		return &errs.IoError{Op: "create image file", Err: err}
	}
	defer out.Close()

	img := frameToImage(resizeForOutput(f, opts))
	switch opts.Format {
	case FormatPNG:
		if err := png.Encode(out, img); err != nil {
			return &errs.IoError{Op: "encode png", Err: err}
		}
	default:
		if err := jpeg.Encode(out, img, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
			return &errs.IoError{Op: "encode jpeg", Err: err}
		}
	}
	return nil
}

// resizeForOutput applies the Width/Height/Scale options to a captured
// frame, deriving the unset dimension from the source aspect ratio.
// With no sizing options set, f is returned unchanged.
func resizeForOutput(f *frame.Frame, opts ImageOptions) *frame.Frame {
	w, h := opts.Width, opts.Height
	switch {
	case w > 0 && h > 0:
	case w > 0:
		h = f.Height * w / f.Width
	case h > 0:
		w = f.Width * h / f.Height
	case opts.Scale > 0 && opts.Scale != 1:
		w = int(float64(f.Width)*opts.Scale + 0.5)
		h = int(float64(f.Height)*opts.Scale + 0.5)
	default:
		return f
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w == f.Width && h == f.Height {
		return f
	}
	out := frame.New(w, h, f.PTS)
	for y := 0; y < h; y++ {
		sy := y * f.Height / h
		for x := 0; x < w; x++ {
			b, g, r := f.At(x*f.Width/w, sy)
			out.Set(x, y, b, g, r)
		}
	}
	return out
}

// frameToImage converts a BGR frame.Frame into a stdlib image.RGBA,
// the common currency image/jpeg and image/png both encode from.
func frameToImage(f *frame.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			b, g, r := f.At(x, y)
			o := img.PixOffset(x, y)
			img.Pix[o] = r
			img.Pix[o+1] = g
			img.Pix[o+2] = b
			img.Pix[o+3] = 255
		}
	}
	return img
}
