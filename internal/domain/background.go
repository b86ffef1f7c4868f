package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// GenType enumerates the background generation modes accepted by the studio API.
type GenType string

const (
	GenTypeRemoveBG GenType = "remove_bg"
	GenTypeColorBG  GenType = "color_bg"
	GenTypeSimple   GenType = "simple"
	GenTypeConcept  GenType = "concept"
)

// GenTypes is the allowed set, in the order it is reported to clients.
var GenTypes = []GenType{GenTypeRemoveBG, GenTypeColorBG, GenTypeSimple, GenTypeConcept}

// GenTypeNames renders the allowed set for validation error messages.
func GenTypeNames() []string {
	names := make([]string, len(GenTypes))
	for i, t := range GenTypes {
		names[i] = string(t)
	}
	return names
}

// ValidGenType reports whether t is in the allowed set.
func ValidGenType(t GenType) bool {
	for _, g := range GenTypes {
		if g == t {
			return true
		}
	}
	return false
}

// Output dimension bounds enforced at the request boundary.
const (
	MinOutputDim     = 200
	MaxOutputDim     = 2000
	DefaultOutputDim = 1000
)

// DefaultBGColorHex is used when the request omits bg_color_hex_code.
const DefaultBGColorHex = "#FFFFFF"

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// ValidHexColor reports whether s is a #RGB or #RRGGBB color code.
func ValidHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// ValidateOutputDim checks a requested output width or height.
func ValidateOutputDim(name string, v int) error {
	if v < MinOutputDim || v > MaxOutputDim {
		return fmt.Errorf("%w: %s must be between %d and %d", ErrValidation, name, MinOutputDim, MaxOutputDim)
	}
	return nil
}

// Background is a generated background artifact. ImageURL stays empty while
// the generation task is in flight; Version guards completion updates
// against concurrent writers.
type Background struct {
	ID            string
	UserID        string
	ImageID       string
	GenType       GenType
	ConceptOption ConceptOption
	OutputW       int
	OutputH       int
	MultiblobSOD  bool
	BGColorHex    string
	ImageURL      string
	Recreated     bool
	Version       int
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Pending reports whether the generation task has not yet published a result.
func (b Background) Pending() bool {
	return b.ImageURL == ""
}

// RecreatedBackground derives every generation parameter from its parent
// Background; only the concept option is its own.
type RecreatedBackground struct {
	ID            string
	BackgroundID  string
	ConceptOption ConceptOption
	ImageURL      string
	Version       int
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r RecreatedBackground) Pending() bool {
	return r.ImageURL == ""
}

// GenTypeList is the comma-joined allowed set, used verbatim in 400 bodies.
func GenTypeList() string {
	return strings.Join(GenTypeNames(), ", ")
}
