// Package render is the job orchestrator's core: it owns the per-job
// filesystem workspace, places generated media into it, and drives the
// external renderer (templated mode) or an autonomous coding agent (agentic
// mode) to a finished video file.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPropsFile is the props document used when rendering outside of a
// job context (CLI showcase renders).
const DefaultPropsFile = "showcase-props.json"

// OutputNameFromProps derives the output video filename from a props file
// name. Job-scoped props files map to job-scoped videos; the showcase props
// file maps to the fixed demo name.
func OutputNameFromProps(propsPath string) string {
	basename := filepath.Base(propsPath)
	if strings.Contains(basename, "temp_props_") {
		jobID := strings.TrimSuffix(strings.TrimPrefix(basename, "temp_props_"), ".json")
		return fmt.Sprintf("video_%s.mp4", jobID)
	}
	if strings.Contains(basename, "showcase-props") {
		return "motionforge.mp4"
	}
	return "rendered_video.mp4"
}

// PropsFileName returns the job-scoped props filename for a job ID.
func PropsFileName(jobID string) string {
	return fmt.Sprintf("temp_props_%s.json", jobID)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
