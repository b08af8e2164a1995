package render

import (
	"fmt"
	"strings"

	"github.com/motionforge/api/internal/model"
)

const videoFPS = 30

// AgentTaskPrompt is the fixed instruction handed to the coding agent on its
// command line; the job-specific detail lives in the brief file it points to.
const AgentTaskPrompt = "Read the file TASK_BRIEF.md in your working directory. " +
	"It contains the website content you need to promote and full instructions. " +
	"You must create a completely new Remotion video from scratch - " +
	"DELETE all existing scene files and create your own. " +
	"You have Remotion skills installed - use them for best practices."

// BuildBrief renders a storyboard into the markdown implementation brief the
// coding agent works from. Everything the agent needs is in this one
// document: the creative plan, the pre-generated media, and the exact
// rendering contract (composition ID, dimensions, output path).
func BuildBrief(sb *model.VideoStoryboard, outputName string, audioAssets []model.AudioAsset, musicFile string) string {
	totalFrames := int(sb.TotalDurationSeconds * videoFPS)

	var colors strings.Builder
	for _, c := range sb.ColorPalette {
		fmt.Fprintf(&colors, "  - `%s`\n", c)
	}

	audioByScene := make(map[int]model.AudioAsset, len(audioAssets))
	for _, asset := range audioAssets {
		audioByScene[asset.SceneNumber] = asset
	}

	var scenes strings.Builder
	for _, s := range sb.Scenes {
		durFrames := int(s.DurationSeconds * videoFPS)
		fmt.Fprintf(&scenes, "\n### Scene %d: %s\n", s.SceneNumber, s.SceneName)
		fmt.Fprintf(&scenes, "- **Duration**: %gs (%d frames)\n", s.DurationSeconds, durFrames)
		fmt.Fprintf(&scenes, "- **Headline**: %q\n", s.HeadlineText)
		fmt.Fprintf(&scenes, "- **Supporting text**: %q\n", s.SupportingText)
		fmt.Fprintf(&scenes, "- **Visual concept**: %s\n", s.VisualConcept)
		fmt.Fprintf(&scenes, "- **Animation notes**: %s\n", s.AnimationNotes)
		if asset, ok := audioByScene[s.SceneNumber]; ok {
			fmt.Fprintf(&scenes, "- **Voiceover audio**: `%s` (script: %q, ~%gs)\n",
				asset.Filename, asset.Script, asset.DurationEstimate)
		}
	}

	var images strings.Builder
	if len(sb.ImageURLs) > 0 {
		images.WriteString("## Images to Download\nDownload these to `public/` and use via `staticFile()`:\n")
		for _, img := range sb.ImageURLs {
			fmt.Fprintf(&images, "- %s\n", img)
		}
	}

	var audio strings.Builder
	if len(audioAssets) > 0 || musicFile != "" {
		audio.WriteString("## Audio Files\n\nPre-generated audio files are in `public/`. Wire them into your Remotion components.\n\n")
		if len(audioAssets) > 0 {
			audio.WriteString("### Voiceovers (per scene)\n")
			for _, asset := range audioAssets {
				fmt.Fprintf(&audio, "- Scene %d: `%s` - %q\n", asset.SceneNumber, asset.Filename, asset.Script)
			}
			audio.WriteString("\n")
		}
		if musicFile != "" {
			fmt.Fprintf(&audio, "### Background Music\n- `%s` (loops, low volume)\n\n", musicFile)
		}
	}

	return fmt.Sprintf(`# Video Implementation Brief

> This storyboard was designed by the Creative Director AI agent.
> Your job is to implement it exactly as described using Remotion.

## Product: %s

## Creative Concept
%s

## Color Palette
%s
## Closing CTA
%q

%s
%s
## Scene-by-Scene Storyboard
Total duration: %gs (%d frames at %dfps)
%s
---

## Implementation Instructions

You are an expert Remotion developer. Implement the storyboard above as a Remotion video.
Each scene description tells you exactly what to build - follow the visual concepts and
animation notes closely.

### Steps

1. **Delete ALL existing files** in `+"`src/scenes/`"+` - start completely fresh
2. **Create one `+"`.tsx`"+` component per scene** in `+"`src/scenes/`"+`
3. **Create `+"`src/PromoVideo.tsx`"+`** that composes all scenes using `+"`<Series>`"+` or `+"`<TransitionSeries>`"+`
4. **Update `+"`src/Root.tsx`"+`** to register the composition:
   - id: `+"`\"PromoVideo\"`"+`
   - Width: 1920, Height: 1080, FPS: %d
   - Duration: %d frames
5. **Download any images** listed above to `+"`public/`"+` using curl
6. **Render**: `+"`npx remotion render PromoVideo out/%s --concurrency=1`"+`
7. **Verify**: Confirm `+"`out/%s`"+` exists and is non-empty

### Audio Integration
- Import `+"`{Audio, staticFile}`"+` from `+"`remotion`"+`
- For each scene with a voiceover file, add inside the scene component:
  `+"`<Audio src={staticFile(\"voiceover_scene_N.mp3\")} volume={0.8} />`"+`
- For background music, add at the root composition level (in `+"`PromoVideo.tsx`"+`):
  `+"`<Audio src={staticFile(\"background_music.mp3\")} loop volume={0.15} />`"+`
- Audio files are already in `+"`public/`"+` - do NOT download them
- **IMPORTANT: Scene timing must accommodate voiceover duration.** Each scene's
  `+"`<Series.Sequence>`"+` duration MUST be at least the voiceover duration + 1 second of buffer.
  If a voiceover is ~3s, the scene should be at least 4s (120 frames). Voiceovers that get
  cut off by a scene transition sound broken - always leave breathing room at the end.

### Animation Toolkit (use these!)
- `+"`spring({ frame, fps, config: { damping: 15, stiffness: 100 } })`"+` - organic entrances
- `+"`interpolate(frame, [start, end], [from, to], { extrapolateRight: 'clamp' })`"+` - smooth transitions
- `+"`<Sequence from={N}>`"+` - delay element appearance
- `+"`<Series>`"+` / `+"`<Series.Sequence>`"+` - sequential scene timing
- `+"`<TransitionSeries>`"+` from `+"`@remotion/transitions`"+` - transitions between scenes
- `+"`staticFile('name.png')`"+` - reference images in `+"`public/`"+`

### Typography
- Font: `+"`system-ui, -apple-system, sans-serif`"+`
- Use bold weights (700-900) for headlines, light (300-400) for subtext
- Vary sizes dramatically: 80-120px headlines, 24-36px body

### What NOT to do
- Do NOT keep any existing template code - delete `+"`src/scenes/*`"+`, `+"`src/types.ts`"+`, `+"`src/SignalPromo.tsx`"+`
- Do NOT install new npm packages
- Do NOT use placeholder text - use the exact text from the storyboard
- Do NOT make it generic - follow the creative concept precisely

### Output
Final video MUST be at: `+"`out/%s`"+`
`,
		sb.ProductName,
		sb.VideoConcept,
		colors.String(),
		sb.ClosingCTA,
		images.String(),
		audio.String(),
		sb.TotalDurationSeconds, totalFrames, videoFPS,
		scenes.String(),
		videoFPS, totalFrames,
		outputName, outputName,
		outputName,
	)
}
