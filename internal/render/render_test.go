package render

import "testing"

func TestOutputNameFromProps(t *testing.T) {
	cases := []struct {
		props string
		want  string
	}{
		{"temp_props_abc12345.json", "video_abc12345.mp4"},
		{"/tmp/outputs/temp_props_deadbeef.json", "video_deadbeef.mp4"},
		{"showcase-props.json", "motionforge.mp4"},
		{"/home/u/showcase-props.json", "motionforge.mp4"},
		{"something-else.json", "rendered_video.mp4"},
	}
	for _, c := range cases {
		if got := OutputNameFromProps(c.props); got != c.want {
			t.Errorf("OutputNameFromProps(%q) = %q, want %q", c.props, got, c.want)
		}
	}
}

func TestPropsFileNameRoundTrip(t *testing.T) {
	name := PropsFileName("abc12345")
	if name != "temp_props_abc12345.json" {
		t.Fatalf("unexpected props filename: %q", name)
	}
	if got := OutputNameFromProps(name); got != "video_abc12345.mp4" {
		t.Fatalf("round trip produced %q", got)
	}
}
