package color

// named is a small, deliberately incomplete table of CSS color
// keywords. Full conformance with the named-color vocabulary is out of
// scope (spec treats color-name lookup tables as a data collaborator,
// not part of the hard core).
var named = map[string]RGB{
	"black":   {0, 0, 0},
	"white":   {1, 1, 1},
	"red":     {1, 0, 0},
	"green":   {0, 0.5, 0},
	"blue":    {0, 0, 1},
	"yellow":  {1, 1, 0},
	"cyan":    {0, 1, 1},
	"magenta": {1, 0, 1},
	"gray":    {0.5, 0.5, 0.5},
	"grey":    {0.5, 0.5, 0.5},
	"orange":  {1, 0.647, 0},
	"purple":  {0.5, 0, 0.5},
	"brown":   {0.647, 0.165, 0.165},
	"pink":    {1, 0.753, 0.796},
	"none":    {0, 0, 0},
	"silver":  {0.753, 0.753, 0.753},
	"navy":    {0, 0, 0.5},
	"teal":    {0, 0.5, 0.5},
	"lime":    {0, 1, 0},
	"maroon":  {0.5, 0, 0},
	"olive":   {0.5, 0.5, 0},
}
