package model

// CreativeConfiguration describes a templated promo video end to end: who the
// product is, the problem/solution framing, which screenshots to show and how
// to style everything. It is produced by the direction call and consumed by
// the templated render driver as the composition's props document.

type Logo struct {
	Icon           string `json:"icon" validate:"required,oneof=pulse rocket chart bolt"`
	PrimaryColor   string `json:"primaryColor" validate:"required,hexcolor"`
	SecondaryColor string `json:"secondaryColor" validate:"required,hexcolor"`
}

type Product struct {
	Name    string `json:"name" validate:"required,max=10"`
	Tagline string `json:"tagline" validate:"required,max=50"`
	Logo    Logo   `json:"logo" validate:"required"`
}

type Problem struct {
	Line1       string `json:"line1" validate:"required,max=40"`
	Line2       string `json:"line2" validate:"required,max=25"`
	AccentColor string `json:"accentColor" validate:"required,hexcolor"`
}

type Solution struct {
	Headline string `json:"headline" validate:"required,max=45"`
	Subline  string `json:"subline" validate:"required,max=30"`
}

type Callout struct {
	Icon string `json:"icon" validate:"required"`
	Text string `json:"text" validate:"required,max=30"`
}

// Screenshot is an image-bearing entry: Src must reference a local filename
// once asset placement has run.
type Screenshot struct {
	Src      string    `json:"src" validate:"required"`
	Callouts []Callout `json:"callouts" validate:"max=3,dive"`
}

type Badge struct {
	Icon  string `json:"icon" validate:"required"`
	Text  string `json:"text" validate:"required,max=35"`
	Color string `json:"color" validate:"required,hexcolor"`
}

type Outro struct {
	Tagline string `json:"tagline" validate:"required,max=40"`
	Badge   *Badge `json:"badge,omitempty"`
}

type Theme struct {
	Primary    string `json:"primary" validate:"required,hexcolor"`
	Accent     string `json:"accent" validate:"required,hexcolor"`
	Background string `json:"background" validate:"required,hexcolor"`
	Text       string `json:"text" validate:"required,hexcolor"`
}

type CreativeConfiguration struct {
	Product     Product      `json:"product" validate:"required"`
	Problem     Problem      `json:"problem" validate:"required"`
	Solution    Solution     `json:"solution" validate:"required"`
	Screenshots []Screenshot `json:"screenshots" validate:"required,min=1,max=2,dive"`
	Outro       Outro        `json:"outro" validate:"required"`
	Theme       Theme        `json:"theme" validate:"required"`
}

// ShowcaseProps is the props document written for the renderer.
type ShowcaseProps struct {
	Config CreativeConfiguration `json:"config" validate:"required"`
}

// ImageSources returns pointers to every image-bearing field in the
// configuration. The field set is fixed by the schema, so asset placement
// visits these directly instead of walking an untyped tree.
func (c *CreativeConfiguration) ImageSources() []*string {
	srcs := make([]*string, 0, len(c.Screenshots))
	for i := range c.Screenshots {
		srcs = append(srcs, &c.Screenshots[i].Src)
	}
	return srcs
}
