package render

import (
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/widget"
)

// Text markup
//
// Labels and titles understand a small markup language: ^ and _
// raise or lower the next token (or {...} group) as superscript or
// subscript, and \name escapes resolve to Greek letters and common
// symbols. The markup is resolved to positioned font runs before any
// primitive is emitted, so backends only ever see plain text runs.

// escapes maps \name sequences to their replacement text.
var escapes = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ",
	"epsilon": "ε", "zeta": "ζ", "eta": "η", "theta": "θ",
	"iota": "ι", "kappa": "κ", "lambda": "λ", "mu": "μ",
	"nu": "ν", "xi": "ξ", "pi": "π", "rho": "ρ",
	"sigma": "σ", "tau": "τ", "phi": "φ", "chi": "χ",
	"psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ",
	"Xi": "Ξ", "Pi": "Π", "Sigma": "Σ", "Phi": "Φ",
	"Psi": "Ψ", "Omega": "Ω",
	"times": "×", "cdot": "·", "pm": "±", "deg": "°",
	"infty": "∞", "sqrt": "√", "leq": "≤", "geq": "≥",
	"neq": "≠", "sim": "~", "rightarrow": "→", "leftarrow": "←",
}

// A run is a piece of text at one size and vertical offset relative
// to the baseline.
type run struct {
	text  string
	level int // 0 baseline, >0 superscript, <0 subscript (nesting depth)
}

// parseMarkup splits s into runs. Unknown escapes render literally,
// an unmatched brace closes nothing.
func parseMarkup(s string) []run {
	var runs []run
	var cur strings.Builder
	level := 0
	flush := func() {
		if cur.Len() > 0 {
			runs = append(runs, run{text: cur.String(), level: level})
			cur.Reset()
		}
	}

	// levelStack remembers the level to return to at each closing
	// brace.
	var levelStack []int

	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '\\':
			j := i + 1
			for j < len(s) && isLetter(s[j]) {
				j++
			}
			name := s[i+1 : j]
			if rep, ok := escapes[name]; ok {
				cur.WriteString(rep)
			} else {
				cur.WriteString(s[i:j])
			}
			i = j
		case '^', '_':
			flush()
			delta := 1
			if c == '_' {
				delta = -1
			}
			if i+1 < len(s) && s[i+1] == '{' {
				levelStack = append(levelStack, level)
				level += delta
				i += 2
			} else {
				// Single token: the next rune only.
				j := i + 1
				if j < len(s) {
					_, size := runeAt(s, j)
					runs = append(runs, run{text: s[j : j+size], level: level + delta})
					i = j + size
				} else {
					i++
				}
			}
		case '{':
			// Plain group, no level change.
			flush()
			levelStack = append(levelStack, level)
			i++
		case '}':
			flush()
			if n := len(levelStack); n > 0 {
				level = levelStack[n-1]
				levelStack = levelStack[:n-1]
			}
			i++
		default:
			cur.WriteByte(c)
			i++
		}
	}
	flush()
	return runs
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func runeAt(s string, i int) (rune, int) {
	for _, r := range s[i:] {
		n := len(string(r))
		return r, n
	}
	return 0, 0
}

// Script sizing relative to the base font.
const (
	scriptScale = 0.7
	scriptShift = 0.45 // fraction of the parent size, up or down
)

// runSpec returns font size and baseline shift for a run level.
func runSpec(base vg.Length, level int) (size, dy vg.Length) {
	size = base
	for l := level; l > 0; l-- {
		dy += vg.Length(scriptShift) * size
		size = vg.Length(scriptScale) * size
	}
	for l := level; l < 0; l++ {
		size = vg.Length(scriptScale) * size
		dy -= vg.Length(scriptShift) * size
	}
	return size, dy
}

// measureMarkup returns the total advance width of s in the given
// base font.
func measureMarkup(s string, fontName string, base vg.Length) (vg.Length, error) {
	w := vg.Length(0)
	for _, r := range parseMarkup(s) {
		size, _ := runSpec(base, r.level)
		f, err := vg.MakeFont(fontName, size)
		if err != nil {
			return 0, err
		}
		w += f.Width(r.text)
	}
	return w, nil
}

// Alignment fractions, the gonum draw convention: 0 anchors at the
// left/baseline, -0.5 centers, -1 anchors right/top.
const (
	alignLeft   = 0.0
	alignCenter = -0.5
	alignRight  = -1.0
)

// emitText resolves markup and appends one Text primitive per run.
// at is the anchor point; xalign/yalign shift the whole block
// relative to it; rot rotates the block about the anchor.
func (p *pass) emitText(node widget.ID, s string, at vg.Point, rot, xalign, yalign float64, spec FontSpec, col color.RGBA, data []float64) {
	if s == "" {
		return
	}
	runs := parseMarkup(s)

	total := vg.Length(0)
	widths := make([]vg.Length, len(runs))
	for i, r := range runs {
		size, _ := runSpec(spec.Size, r.level)
		f, err := p.font(spec.Name, size)
		if err != nil {
			p.warn(node, err)
			return
		}
		widths[i] = f.Width(r.text)
		total += widths[i]
	}
	baseFont, err := p.font(spec.Name, spec.Size)
	if err != nil {
		p.warn(node, err)
		return
	}
	height := baseFont.Extents().Ascent

	// xalign shifts by the block width, yalign by the ascent: 0
	// anchors baseline-left, -0.5 centers, -1 anchors right / puts
	// the text below the anchor.
	sin, cos := math.Sin(rot), math.Cos(rot)
	x := total * vg.Length(xalign)
	y := height * vg.Length(yalign)

	for i, r := range runs {
		size, dy := runSpec(spec.Size, r.level)
		rx, ry := float64(x), float64(y+dy)
		p.stream.add(Primitive{
			Op:    OpText,
			Node:  node,
			Data:  data,
			Text:  r.text,
			Font:  FontSpec{Name: spec.Name, Size: size},
			At:    vg.Point{X: at.X + vg.Length(rx*cos-ry*sin), Y: at.Y + vg.Length(rx*sin+ry*cos)},
			Rot:   rot,
			Color: col,
		})
		x += widths[i]
	}
}
