package downloader

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/brogergvhs/mangagrab/internal/chapters"
	"github.com/brogergvhs/mangagrab/internal/ui"
	"github.com/brogergvhs/mangagrab/internal/util"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
}

type Downloader struct {
	fetcher     Fetcher
	outputDir   string
	convertJPEG bool
	log         *ui.Logger
}

func New(f Fetcher, outputDir string, convertJPEG bool, log *ui.Logger) *Downloader {
	return &Downloader{
		fetcher:     f,
		outputDir:   outputDir,
		convertJPEG: convertJPEG,
		log:         log,
	}
}

func (d *Downloader) Dir(unit chapters.Unit) string {
	return filepath.Join(d.outputDir, unit.Chapter.DirName())
}

// Download materialises one unit as <output>/<manga>/<index>.jpg. Each step
// short-circuits the rest; nothing is written unless the directory exists and
// the fetched bytes decode as an image.
func (d *Downloader) Download(ctx context.Context, unit chapters.Unit, timeout time.Duration) Outcome {
	folder := d.Dir(unit)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return failed(KindDirectory, unit, err)
	}

	data, err := d.fetcher.Fetch(ctx, unit.Image.URL, timeout)
	if err != nil {
		return failed(KindNetwork, unit, err)
	}

	format, err := detectImage(data)
	if err != nil {
		out := failed(KindNotAnImage, unit, err)
		out.Err.Content = preview(data)
		return out
	}

	if d.convertJPEG {
		converted, err := toJPEG(data, format)
		if err != nil {
			out := failed(KindNotAnImage, unit, err)
			out.Err.Content = preview(data)
			return out
		}
		data = converted
	}

	path := filepath.Join(folder, unit.FileName())
	if err := util.WriteFileAtomic(path, data); err != nil {
		return failed(KindWrite, unit, err)
	}

	d.log.Debugf("Saved %s (%s, %s)\n", path, format, util.Human(int64(len(data))))

	return Outcome{Unit: unit, Path: path, Bytes: int64(len(data))}
}
