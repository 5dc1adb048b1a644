package internal

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"

	"github.com/oneconcern/reviz/internal/rand"
)

func writeProfIfNExist(path string, name string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		var fprof *os.File
		fprof, err = os.Create(path)
		if err != nil {
			return err
		}
		defer fprof.Close()
		err = pprof.Lookup(name).WriteTo(fprof, 0)
		if err != nil {
			return err
		}
	}
	return nil
}

// MinProfMB is the heap size, in MiB, below which no memory profile is written.
type MinProfMB struct {
	Alloc   uint64
	HeapSys uint64
}

// MemProfParams tells MaybeMemProf where to write heap profiles.
type MemProfParams struct {
	MemStats   *runtime.MemStats
	MinMB      MinProfMB
	DestDir    string
	NamePrefix string
}

func memProfDefaults(params MemProfParams) MemProfParams {
	if params.DestDir == "" {
		params.DestDir = os.TempDir()
	}
	if params.NamePrefix == "" {
		params.NamePrefix = "mem_" + rand.LetterString(3)
	}
	if params.MemStats == nil {
		mstats := new(runtime.MemStats)
		runtime.ReadMemStats(mstats)
		params.MemStats = mstats
	}
	return params
}

// MaybeMemProf writes the heap and allocs profiles into DestDir, unless the heap is
// still below the MinMB thresholds. It returns the base path of the profiles,
// or an empty string when nothing was written.
func MaybeMemProf(params MemProfParams) (string, error) {
	params = memProfDefaults(params)
	if params.MemStats.Alloc/1024/1024 < params.MinMB.Alloc ||
		params.MemStats.HeapSys/1024/1024 < params.MinMB.HeapSys {
		return "", nil
	}
	if _, err := os.Stat(params.DestDir); err != nil {
		return "", err
	}
	basePath := filepath.Join(params.DestDir, strings.Join([]string{
		params.NamePrefix,
		strconv.FormatUint(params.MinMB.Alloc, 10),
		strconv.FormatUint(params.MinMB.HeapSys, 10),
	}, "-"))
	if err := writeProfIfNExist(basePath+".mem.prof", "heap"); err != nil {
		return "", err
	}
	if err := writeProfIfNExist(basePath+".alloc.prof", "allocs"); err != nil {
		return "", err
	}
	return basePath, nil
}
