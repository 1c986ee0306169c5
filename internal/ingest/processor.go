package ingest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"weather-dashboard-go/internal/types"
)

// Inserter is the store method ingest needs.
type Inserter interface {
	InsertForecast(f *types.Forecast) (bool, error)
}

// Result summarizes one ingest run.
type Result struct {
	Files   int
	Rows    int
	Added   int
	Skipped []string // files left in place because they failed
}

// Processor moves raw reports from RawDir into the store and then into
// ProcessedDir.
type Processor struct {
	RawDir       string
	ProcessedDir string
	Store        Inserter
	Log          *logrus.Entry
}

// Run processes every .json and .xlsx file in RawDir in name order. A file
// that fails to parse or store is logged and left in RawDir.
func (p *Processor) Run() (Result, error) {
	var res Result

	entries, err := os.ReadDir(p.RawDir)
	if err != nil {
		return res, fmt.Errorf("reading raw dir: %w", err)
	}
	if err := os.MkdirAll(p.ProcessedDir, 0755); err != nil {
		return res, fmt.Errorf("creating processed dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".json" && ext != ".xlsx" {
			continue
		}
		log := p.Log.WithField("file", name)

		rows, added, err := p.processFile(filepath.Join(p.RawDir, name), ext, log)
		if err != nil {
			log.WithError(err).Error("ingest failed")
			res.Skipped = append(res.Skipped, name)
			continue
		}
		if err := os.Rename(filepath.Join(p.RawDir, name), filepath.Join(p.ProcessedDir, name)); err != nil {
			return res, fmt.Errorf("moving %s: %w", name, err)
		}
		res.Files++
		res.Rows += rows
		res.Added += added
		log.WithFields(logrus.Fields{"rows": rows, "added": added}).Info("file ingested")
	}
	return res, nil
}

func (p *Processor) processFile(path, ext string, log *logrus.Entry) (int, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}

	var rows []types.Forecast
	switch ext {
	case ".json":
		var hasWind bool
		rows, hasWind, err = TransformJSON(data)
		if err == nil && !hasWind {
			log.Warn("no wind data found in report")
		}
	case ".xlsx":
		rows, err = ReadWorkbook(bytes.NewReader(data))
	}
	if err != nil {
		return 0, 0, err
	}

	added := 0
	for i := range rows {
		ok, err := p.Store.InsertForecast(&rows[i])
		if err != nil {
			return 0, 0, err
		}
		if ok {
			added++
		}
	}
	return len(rows), added, nil
}
