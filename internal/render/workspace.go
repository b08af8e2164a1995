package render

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// skipDirs are never copied into a workspace: the dependency tree is shared
// by symlink instead, prior render output must not leak between jobs, and
// version-control metadata is dead weight.
var skipDirs = map[string]bool{
	"node_modules": true,
	"out":          true,
	".git":         true,
}

// toolDirs must exist in the workspace for the coding agent's bundled
// skills to load.
var toolDirs = []string{".cline", ".agents"}

// Workspace is one job's disposable copy of the renderable project.
type Workspace struct {
	JobID string
	Dir   string
}

// PublicDir is where generated media (voiceovers, music, images) goes.
func (w *Workspace) PublicDir() string {
	return filepath.Join(w.Dir, "public")
}

// OutDir is where the renderer writes video files.
func (w *Workspace) OutDir() string {
	return filepath.Join(w.Dir, "out")
}

// BriefPath is where the implementation brief is written for the agent.
func (w *Workspace) BriefPath() string {
	return filepath.Join(w.Dir, "TASK_BRIEF.md")
}

// WorkspaceManager materializes isolated per-job copies of the canonical
// renderable project. The dependency tree is orders of magnitude larger than
// the template sources, so it is shared by symlink rather than copied.
type WorkspaceManager struct {
	projectDir string
	baseDir    string
}

func NewWorkspaceManager(projectDir, baseDir string) *WorkspaceManager {
	return &WorkspaceManager{projectDir: projectDir, baseDir: baseDir}
}

// Create builds a fresh workspace for a job, removing any stale directory
// left behind by a previous attempt at the same job ID.
func (m *WorkspaceManager) Create(jobID string) (*Workspace, error) {
	if !dirExists(m.projectDir) {
		return nil, fmt.Errorf("renderable project not found at %s (clone it and run npm install first)", m.projectDir)
	}
	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace base dir: %w", err)
	}

	workDir := filepath.Join(m.baseDir, "work-"+jobID)
	if err := os.RemoveAll(workDir); err != nil {
		return nil, fmt.Errorf("remove stale workspace: %w", err)
	}

	log.Printf("[workspace] Creating working copy at %s", workDir)
	if err := copyTree(m.projectDir, workDir); err != nil {
		return nil, fmt.Errorf("copy project: %w", err)
	}

	// Share the dependency tree instead of duplicating it.
	if err := os.Symlink(
		filepath.Join(m.projectDir, "node_modules"),
		filepath.Join(workDir, "node_modules"),
	); err != nil {
		return nil, fmt.Errorf("link dependency tree: %w", err)
	}

	for _, sub := range []string{"out", "public"} {
		if err := os.MkdirAll(filepath.Join(workDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", sub, err)
		}
	}

	// The agent's tool-configuration dirs normally come along with the
	// copy; restore them explicitly if the template keeps them elsewhere.
	for _, tool := range toolDirs {
		src := filepath.Join(m.projectDir, tool)
		dst := filepath.Join(workDir, tool)
		if dirExists(src) && !dirExists(dst) {
			if err := copyTree(src, dst); err != nil {
				return nil, fmt.Errorf("copy %s: %w", tool, err)
			}
		}
	}

	log.Printf("[workspace] Working copy ready for job %s", jobID)
	return &Workspace{JobID: jobID, Dir: workDir}, nil
}

// Cleanup removes the workspace. It is best-effort: by the time it runs the
// job has already succeeded or failed on its own merits, so a cleanup error
// is only logged.
func (m *WorkspaceManager) Cleanup(ws *Workspace) {
	if ws == nil {
		return
	}
	if err := os.RemoveAll(ws.Dir); err != nil {
		log.Printf("[workspace] Warning: could not clean up %s: %v", ws.Dir, err)
		return
	}
	log.Printf("[workspace] Cleaned up working copy for job %s", ws.JobID)
}

// copyTree recursively copies src into dst, skipping the excluded directory
// names at any depth. Symlinks inside the template are not followed.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if d.IsDir() && skipDirs[d.Name()] {
			return filepath.SkipDir
		}

		target := filepath.Join(dst, rel)
		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type()&fs.ModeSymlink != 0:
			return nil
		default:
			return copyFile(p, target)
		}
	})
}
