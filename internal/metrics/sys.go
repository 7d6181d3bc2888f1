package metrics

import (
	"io/fs"
	"path/filepath"
	"runtime"

	"github.com/dustin/go-humanize"
)

// SysHealth is the runtime snapshot reported by the health endpoint.
type SysHealth struct {
	HeapAllocMB uint64 `json:"heap_alloc_mb"`
	NumGC       uint32 `json:"num_gc"`
	Goroutines  int    `json:"goroutines"`
	DataDirSize string `json:"data_dir_size"`
}

// GetSysHealth collects memory, goroutine and data-directory stats.
func GetSysHealth(dataDir string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SysHealth{
		HeapAllocMB: m.HeapAlloc >> 20,
		NumGC:       m.NumGC,
		Goroutines:  runtime.NumGoroutine(),
		DataDirSize: humanize.IBytes(uint64(dataDirSize(dataDir))),
	}
}

// dataDirSize sums file sizes under dir. Unreadable entries are skipped;
// a missing dir reports zero.
func dataDirSize(dir string) int64 {
	var total int64
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
