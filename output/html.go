package output

import (
	"html/template"
	"os"
	"strconv"

	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/scene"
)

// HTMLOptions configures SaveSceneListHTML.
type HTMLOptions struct {
	// Title is the page and table heading. Empty selects "Scenes".
	Title string

	// ImagePaths holds, per scene, the relative paths of thumbnail
	// images to embed in that scene's row (typically the files written
	// by SaveSceneImages). Nil or short entries simply omit images.
	ImagePaths [][]string

	// ImageWidth constrains embedded thumbnails, in CSS pixels. Zero
	// leaves them at natural size.
	ImageWidth int
}

var htmlReport = template.Must(template.New("scenes").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 0.3em 0.8em; text-align: right; }
th { background: #eee; }
td.images { text-align: left; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<tr>
<th>Scene</th><th>Start Frame</th><th>Start Timecode</th><th>End Frame</th><th>End Timecode</th><th>Length (frames)</th><th>Length</th>{{if .HasImages}}<th>Images</th>{{end}}
</tr>
{{range .Rows}}<tr>
<td>{{.Number}}</td><td>{{.StartFrame}}</td><td>{{.StartTC}}</td><td>{{.EndFrame}}</td><td>{{.EndTC}}</td><td>{{.LenFrames}}</td><td>{{.LenTC}}</td>{{if $.HasImages}}<td class="images">{{range .Images}}<img src="{{.}}"{{if $.ImageWidth}} width="{{$.ImageWidth}}"{{end}}> {{end}}</td>{{end}}
</tr>
{{end}}</table>
</body>
</html>
`))

type htmlRow struct {
	Number     int
	StartFrame string
	StartTC    string
	EndFrame   string
	EndTC      string
	LenFrames  string
	LenTC      string
	Images     []string
}

// SaveSceneListHTML writes scenes to path as a standalone HTML report:
// one table row per scene, with optional embedded thumbnail images per
// opts.ImagePaths.
func SaveSceneListHTML(path string, scenes []scene.Scene, opts HTMLOptions) error {
	title := opts.Title
	if title == "" {
		title = "Scenes"
	}

	data := struct {
		Title      string
		HasImages  bool
		ImageWidth int
		Rows       []htmlRow
	}{
		Title:      title,
		HasImages:  len(opts.ImagePaths) > 0,
		ImageWidth: opts.ImageWidth,
	}

	for i, s := range scenes {
		row := htmlRow{
			Number:     i + 1,
			StartFrame: strconv.FormatInt(s.Start.ToFrames(), 10),
			StartTC:    s.Start.ToString(),
			EndFrame:   strconv.FormatInt(s.End.ToFrames(), 10),
			EndTC:      s.End.ToString(),
			LenFrames:  strconv.FormatInt(s.Len(), 10),
			LenTC:      lengthTimecode(s.Len(), s.Start.Framerate()),
		}
		if i < len(opts.ImagePaths) {
			row.Images = opts.ImagePaths[i]
		}
		data.Rows = append(data.Rows, row)
	}

	f, err := os.Create(path)
	if err != nil {
		return &errs.IoError{Op: "create html report", Err: err}
	}
	defer f.Close()

	if err := htmlReport.Execute(f, data); err != nil {
		return &errs.IoError{Op: "render html report", Err: err}
	}
	return nil
}
