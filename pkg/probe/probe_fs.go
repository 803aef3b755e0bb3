package probe

import (
	"context"
	"fmt"
	"os"
)

type filesystemProbe struct {
	path string
}

func NewFilesystemProbe(path string) *filesystemProbe {
	return &filesystemProbe{path: path}
}

func (f *filesystemProbe) Exec(_ context.Context) Result {
	entries, err := os.ReadDir(f.path)
	if err != nil {
		return failed(KindConnectivity, err)
	}
	return passed(fmt.Sprintf("%d entries", len(entries)))
}
