package render

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// FontMeasurer measures text with real font metrics: it locates TrueType
// files on the system, parses them once, and measures advances through
// x/image/font faces. Safe for concurrent use.
type FontMeasurer struct {
	mu       sync.Mutex
	fonts    map[string]*truetype.Font
	fallback []string // family names tried when the requested one is missing
}

// NewFontMeasurer creates a measurer with sensible fallback families.
func NewFontMeasurer() *FontMeasurer {
	return &FontMeasurer{
		fonts:    make(map[string]*truetype.Font),
		fallback: []string{"DejaVuSans", "Arial", "LiberationSans", "Helvetica"},
	}
}

// MeasureText returns the advance width of text in CSS pixels when set
// in the given font. Faces are sized in pixels directly (72 DPI makes
// point size equal pixel size).
func (m *FontMeasurer) MeasureText(text string, spec FontSpec) (float64, error) {
	f, err := m.lookup(spec)
	if err != nil {
		return 0, err
	}

	face := truetype.NewFace(f, &truetype.Options{
		Size: spec.SizePx,
		DPI:  72,
	})
	defer face.Close()

	advance := font.MeasureString(face, text)
	return float64(advance) / 64, nil
}

// lookup finds and caches the font for a spec. The first family in a
// comma-separated font-family list that resolves wins; bold weights try
// a "-Bold" variant first.
func (m *FontMeasurer) lookup(spec FontSpec) (*truetype.Font, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cacheKey(spec)
	if f, ok := m.fonts[key]; ok {
		return f, nil
	}

	var candidates []string
	for _, fam := range strings.Split(spec.Family, ",") {
		fam = strings.Trim(strings.TrimSpace(fam), `"'`)
		if fam == "" {
			continue
		}
		if spec.Weight >= 600 {
			candidates = append(candidates, fam+"-Bold", fam+" Bold")
		}
		candidates = append(candidates, fam)
	}
	candidates = append(candidates, m.fallback...)

	var firstErr error
	for _, name := range candidates {
		path, err := findfont.Find(name + ".ttf")
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			continue
		}
		m.fonts[key] = f
		return f, nil
	}

	return nil, fmt.Errorf("no usable font for family %q: %v", spec.Family, firstErr)
}

func cacheKey(spec FontSpec) string {
	weight := "regular"
	if spec.Weight >= 600 {
		weight = "bold"
	}
	return spec.Family + "|" + weight
}
