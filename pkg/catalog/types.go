package catalog

// Token categories. They match the theme.extend keys they come from.
const (
	CategoryColor      = "color"
	CategoryFontFamily = "fontFamily"
	CategoryMaxWidth   = "maxWidth"
)

// Token is one named theme value together with the utility classes the
// styling engine derives from it.
type Token struct {
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Value     string   `json:"value"`
	Fallbacks []string `json:"fallbacks,omitempty"`
	Utilities []string `json:"utilities"`
}

// Category groups tokens by the theme key that defines them.
type Category struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tokens      []string `json:"tokens"`
}

// ClassResolution explains how a class name maps onto a token.
type ClassResolution struct {
	Class     string   `json:"class"`
	Utility   string   `json:"utility"`
	Variants  []string `json:"variants,omitempty"`
	Important bool     `json:"important,omitempty"`
	Opacity   string   `json:"opacity,omitempty"`
	Token     *Token   `json:"token,omitempty"`
}
